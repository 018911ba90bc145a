package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"StreamingMusical/config"
	"StreamingMusical/core/auth"
	"StreamingMusical/core/catalog"
	"StreamingMusical/logger"
	"StreamingMusical/repository"
	"StreamingMusical/storage"

	"github.com/gorilla/mux"
)

// APIHandler serves every API request.
type APIHandler struct {
	store   repository.Store
	auth    *auth.Service
	catalog *catalog.Service
	cfg     *config.Config
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(store repository.Store, assets storage.AssetStore, cfg *config.Config) *APIHandler {
	return &APIHandler{
		store:   store,
		auth:    auth.NewService(store),
		catalog: catalog.NewService(store, assets),
		cfg:     cfg,
	}
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("[API] Failed to encode response", logger.ErrorField(err))
	}
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// badRequest marks a client input error; its message is returned as detail.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...interface{}) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

// handleError maps service errors onto status codes. notFound is the detail
// used for repository.ErrNotFound and storage.ErrAssetNotFound.
func handleError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var br *badRequest
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &br):
		writeError(w, http.StatusBadRequest, br.msg)
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "Arquivo excede o tamanho máximo permitido.")
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrAssetNotFound):
		writeError(w, http.StatusNotFound, notFound)
	default:
		logger.Error("[API] Request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor.")
	}
}

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequestf("%s inválido: %q", name, raw)
	}
	return id, nil
}

// requiredString reads a required form or query value.
func requiredString(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return "", badRequestf("Campo obrigatório ausente: %s", name)
	}
	return v, nil
}

func requiredInt(r *http.Request, name string) (int64, error) {
	v, err := requiredString(r, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, badRequestf("Campo %s deve ser um número inteiro.", name)
	}
	return n, nil
}

// optionalInt returns nil when name is absent or empty.
func optionalInt(r *http.Request, name string) (*int64, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, badRequestf("Campo %s deve ser um número inteiro.", name)
	}
	return &n, nil
}

// parseForm accepts both urlencoded and multipart bodies, bounded by the
// configured upload size.
func (h *APIHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > h.cfg.MaxUploadBytes {
		return &http.MaxBytesError{Limit: h.cfg.MaxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return err
			}
			return badRequestf("Formulário inválido: %v", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return badRequestf("Formulário inválido: %v", err)
	}
	return nil
}

// readUpload reads the multipart file field whole.
func readUpload(r *http.Request, field string) (catalog.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return catalog.Upload{}, badRequestf("Arquivo obrigatório ausente: %s", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return catalog.Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return catalog.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// PingHandler answers health checks.
func (h *APIHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "pong")
}
