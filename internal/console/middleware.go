package console

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// requireCreator rejects any session without the creator role. Checked before
// a single byte goes to a remote environment.
func (h *Handler) requireCreator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := h.sessions.Load(w, r)
		if sess.Role() != RoleCreator {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Access denied"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a handler panic into a JSON 500 carrying the error text.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.WithField("path", r.URL.Path).
					Errorf("handler panic: %v\n%s", rec, debug.Stack())
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": fmt.Sprint(rec),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
