package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"StreamingMusical/core/artwork"
	"StreamingMusical/core/catalog"
	"StreamingMusical/logger"
	"StreamingMusical/storage"

	"github.com/gorilla/mux"
)

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func isInvalidUpload(err error) bool {
	return errors.Is(err, catalog.ErrInvalidUpload)
}

// serveAsset writes a stored file with Range and conditional request
// support.
func serveAsset(w http.ResponseWriter, r *http.Request, asset *storage.Asset) {
	defer asset.Close()
	w.Header().Set("Content-Type", storage.ContentType(asset.Name))
	w.Header().Set("Accept-Ranges", "bytes")
	http.ServeContent(w, r, asset.Name, asset.ModTime, asset)
}

// StreamTrackHandler streams the stored audio of a track.
func (h *APIHandler) StreamTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_musica")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	asset, err := h.catalog.OpenTrackAudio(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Arquivo de música não encontrado.")
		return
	}
	serveAsset(w, r, asset)
}

// GetCoverHandler serves an album cover. largura and altura request a
// resized copy; an image that cannot be decoded is served unchanged.
func (h *APIHandler) GetCoverHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_album")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	width, err := dimension(r, "largura")
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	height, err := dimension(r, "altura")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	asset, err := h.catalog.OpenCover(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Capa não encontrada.")
		return
	}
	if width == 0 && height == 0 {
		serveAsset(w, r, asset)
		return
	}

	resized, contentType, err := artwork.Resize(asset, asset.Name, width, height)
	if err != nil {
		logger.Warn("[Cover] Resize failed, serving original",
			logger.Int64("albumId", id), logger.ErrorField(err))
		if _, seekErr := asset.Seek(0, io.SeekStart); seekErr != nil {
			asset.Close()
			handleError(w, r, seekErr, "")
			return
		}
		serveAsset(w, r, asset)
		return
	}
	asset.Close()

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, asset.Name, asset.ModTime, bytes.NewReader(resized))
}

func dimension(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > artwork.MaxDimension {
		return 0, badRequestf("Parâmetro %s inválido.", name)
	}
	return n, nil
}
