package server

import (
	"net/http"

	"StreamingMusical/logger"
	"StreamingMusical/model"
	"StreamingMusical/repository"
)

const albumNotFound = "Álbum não encontrado."

// CreateAlbumHandler creates an album.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		handleError(w, r, err, "")
		return
	}

	title, err := requiredString(r, "titulo")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	year, err := requiredInt(r, "ano")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	userID, err := requiredInt(r, "id_usuario")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	album := &model.Album{Title: title, Year: int(year), UserID: userID}
	if _, err := h.store.CreateAlbum(r.Context(), album); err != nil {
		handleError(w, r, err, "")
		return
	}

	logger.Info("[Album] Album created", logger.Int64("albumId", album.ID))
	writeJSON(w, http.StatusOK, album)
}

// UpdateAlbumHandler renames an album.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_album")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	if err := h.parseForm(w, r); err != nil {
		handleError(w, r, err, "")
		return
	}
	title, err := requiredString(r, "titulo")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.store.RenameAlbum(r.Context(), id, title); err != nil {
		handleError(w, r, err, albumNotFound)
		return
	}
	writeMessage(w, "Álbum atualizado.")
}

// DeleteAlbumHandler deletes an album with its tracks and files.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_album")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if _, err := h.catalog.DeleteAlbum(r.Context(), id); err != nil {
		handleError(w, r, err, albumNotFound)
		return
	}
	writeMessage(w, "Álbum deletado.")
}

// GetAlbumTracksHandler lists the tracks of an album.
func (h *APIHandler) GetAlbumTracksHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_album")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	tracks, err := h.store.ListTracks(r.Context(), repository.TrackFilter{AlbumID: &id})
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// UploadCoverHandler stores an album cover image.
func (h *APIHandler) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_album")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	if err := h.parseForm(w, r); err != nil {
		handleError(w, r, err, "")
		return
	}
	upload, err := readUpload(r, "arquivo")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	if err := h.catalog.UploadCover(r.Context(), id, upload); err != nil {
		if isInvalidUpload(err) {
			writeError(w, http.StatusBadRequest, "Arquivo enviado não é imagem.")
			return
		}
		handleError(w, r, err, albumNotFound)
		return
	}
	writeMessage(w, "Capa enviada.")
}
