package server

import (
	"net/http"
)

// GetUserHandler returns a user profile.
func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_usuario")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Usuário não encontrado.")
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// GetUserPlaylistsHandler lists the playlists owned by a user.
func (h *APIHandler) GetUserPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id_usuario")
	if err != nil {
		handleError(w, r, err, "")
		return
	}

	playlists, err := h.store.ListPlaylistsByOwner(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}
