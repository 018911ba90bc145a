package server

import (
	"net/http"
	"strings"

	"StreamingMusical/core/catalog"
	"StreamingMusical/logger"
	"StreamingMusical/repository"
)

const trackNotFound = "Música não encontrada."

// CreateTrackResponse is returned by CreateTrackHandler.
type CreateTrackResponse struct {
	Message           string `json:"message"`
	TrackID           int64  `json:"id_musica"`
	PlaylistVinculada *int64 `json:"playlist_vinculada"`
}

// GetTracksHandler lists tracks, optionally filtered by name and album.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	albumID, err := optionalInt(r, "id_album")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	tracks, err := h.store.ListTracks(r.Context(), repository.TrackFilter{
		Name:    strings.TrimSpace(r.URL.Query().Get("nome")),
		AlbumID: albumID,
	})
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// GetTracksByGenreHandler lists tracks of one genre.
func (h *APIHandler) GetTracksByGenreHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.store.ListTracksByGenre(r.Context(), muxVar(r, "genero"))
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// GetTracksByUserHandler lists tracks owned by a user.
func (h *APIHandler) GetTracksByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id_usuario")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	tracks, err := h.store.ListTracksByUser(r.Context(), userID)
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// CreateTrackHandler creates a track from a multipart upload and optionally
// links it to a playlist.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		handleError(w, r, err, "")
		return
	}

	in, err := newTrackFromForm(r)
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	upload, err := readUpload(r, "arquivo")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	track, err := h.catalog.CreateTrack(r.Context(), in, upload)
	if err != nil {
		switch {
		case isInvalidUpload(err):
			writeError(w, http.StatusBadRequest, "Arquivo enviado não é áudio válido.")
		default:
			handleError(w, r, err, "Playlist não encontrada.")
		}
		return
	}

	logger.Info("[Track] Track created",
		logger.Int64("trackId", track.ID),
		logger.Int64("userId", track.UserID))
	writeJSON(w, http.StatusOK, CreateTrackResponse{
		Message:           "Música criada com sucesso!",
		TrackID:           track.ID,
		PlaylistVinculada: in.PlaylistID,
	})
}

func newTrackFromForm(r *http.Request) (catalog.NewTrack, error) {
	var in catalog.NewTrack

	duration, err := requiredInt(r, "duracao_seg")
	if err != nil {
		return in, err
	}
	albumID, err := requiredInt(r, "id_album")
	if err != nil {
		return in, err
	}
	userID, err := requiredInt(r, "id_usuario")
	if err != nil {
		return in, err
	}
	playlistID, err := optionalInt(r, "id_playlist")
	if err != nil {
		return in, err
	}

	in.Name = strings.TrimSpace(r.FormValue("nome"))
	in.Genre = strings.TrimSpace(r.FormValue("genero"))
	in.Duration = int(duration)
	in.AlbumID = albumID
	in.UserID = userID
	in.PlaylistID = playlistID
	return in, nil
}

// UpdateTrackHandler replaces name, genre and duration.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_musica")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	if err := h.parseForm(w, r); err != nil {
		handleError(w, r, err, "")
		return
	}

	name, err := requiredString(r, "nome")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	genre, err := requiredString(r, "genero")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	duration, err := requiredInt(r, "duracao_seg")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.store.UpdateTrack(r.Context(), id, name, genre, int(duration)); err != nil {
		handleError(w, r, err, trackNotFound)
		return
	}
	writeMessage(w, "Música atualizada.")
}

// UpdateTrackMetadataHandler replaces name and genre only.
func (h *APIHandler) UpdateTrackMetadataHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_musica")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	if err := h.parseForm(w, r); err != nil {
		handleError(w, r, err, "")
		return
	}

	name, err := requiredString(r, "nome")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	genre, err := requiredString(r, "genero")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.store.UpdateTrackMetadata(r.Context(), id, name, genre); err != nil {
		handleError(w, r, err, trackNotFound)
		return
	}
	writeMessage(w, "Metadados atualizados.")
}

// DeleteTrackHandler deletes a track, its playlist links and its audio.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_musica")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.catalog.DeleteTrack(r.Context(), id); err != nil {
		handleError(w, r, err, trackNotFound)
		return
	}
	writeMessage(w, "Música deletada.")
}
