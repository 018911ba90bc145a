package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"StreamingMusical/logger"
	"StreamingMusical/model"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64  `json:"id_usuario"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// RegisterHandler handles user registration requests
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("[Register] Invalid request body", logger.ErrorField(err))
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	fields := []struct{ name, value string }{
		{"nome", req.Name},
		{"email", req.Email},
		{"senha", req.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			writeError(w, http.StatusBadRequest, "Campo obrigatório ausente: "+f.name)
			return
		}
	}

	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, r, err, "Usuário não encontrado.")
		return
	}

	logger.Info("[Register] User registered", logger.Int64("userId", user.ID))
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// LoginHandler handles user login requests
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("[Login] Invalid request body", logger.ErrorField(err))
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err, "Credenciais inválidas")
		return
	}
	if user == nil {
		logger.Warn("[Login] Authentication failed", logger.String("email", req.Email))
		writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	logger.Info("[Login] Login succeeded", logger.Int64("userId", user.ID))
	writeJSON(w, http.StatusOK, newUserResponse(user))
}
