package server

import (
	"net/http"
)

// newStaticHandler serves the bundled UI from dir under /static/.
func newStaticHandler(dir string) http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))
}

// RootHandler redirects to the UI entry page.
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}
