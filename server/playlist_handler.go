package server

import (
	"errors"
	"net/http"

	"StreamingMusical/logger"
	"StreamingMusical/model"
	"StreamingMusical/repository"
)

const playlistNotFound = "Playlist não encontrada."

// CreatePlaylistHandler creates an empty playlist for id_dono.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r, "id_dono")
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

	playlist := &model.Playlist{Name: name, OwnerID: ownerID}
	if _, err := h.store.CreatePlaylist(r.Context(), playlist); err != nil {
		handleError(w, r, err, "")
		return
	}

	logger.Info("[Playlist] Playlist created",
		logger.Int64("playlistId", playlist.ID),
		logger.Int64("ownerId", ownerID))
	writeJSON(w, http.StatusOK, playlist)
}

// AddTrackToPlaylistHandler links a track to a playlist.
func (h *APIHandler) AddTrackToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "id_playlist")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	trackID, err := pathID(r, "id_musica")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.store.AddTrackToPlaylist(r.Context(), playlistID, trackID); err != nil {
		detail := playlistNotFound
		var nf *repository.NotFoundError
		if errors.As(err, &nf) && nf.Kind == repository.KindTrack {
			detail = trackNotFound
		}
		handleError(w, r, err, detail)
		return
	}
	writeMessage(w, "Música adicionada à playlist.")
}

// RemoveTrackFromPlaylistHandler unlinks a track from a playlist.
func (h *APIHandler) RemoveTrackFromPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "id_playlist")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	trackID, err := pathID(r, "id_musica")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.store.RemoveTrackFromPlaylist(r.Context(), playlistID, trackID); err != nil {
		handleError(w, r, err, "Relação não encontrada.")
		return
	}
	writeMessage(w, "Música removida da playlist.")
}

// DeletePlaylistHandler deletes a playlist and its links.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_playlist")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.store.DeletePlaylist(r.Context(), id); err != nil {
		handleError(w, r, err, playlistNotFound)
		return
	}
	writeMessage(w, "Playlist deletada.")
}

// RenamePlaylistHandler updates the playlist name.
func (h *APIHandler) RenamePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_playlist")
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

	if err := h.store.RenamePlaylist(r.Context(), id, name); err != nil {
		handleError(w, r, err, playlistNotFound)
		return
	}
	writeMessage(w, "Playlist atualizada.")
}

// GetPlaylistTracksHandler lists the tracks of a playlist.
func (h *APIHandler) GetPlaylistTracksHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_playlist")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	tracks, err := h.store.ListPlaylistTracks(r.Context(), id)
	if err != nil {
		handleError(w, r, err, playlistNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}
