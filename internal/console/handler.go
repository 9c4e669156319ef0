package console

import (
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/edubase/remote-console/internal/environ"
	"github.com/edubase/remote-console/internal/remote"
	"github.com/edubase/remote-console/internal/session"
)

// RoleCreator — единственная роль с доступом к удалённой админке.
const RoleCreator = "creator"

type Handler struct {
	selector   *environ.Selector
	dispatcher *remote.Dispatcher
	sessions   *session.Store
	adminToken string
	log        *logrus.Entry
}

func NewHandler(selector *environ.Selector, dispatcher *remote.Dispatcher, sessions *session.Store, adminToken string, log *logrus.Entry) *Handler {
	return &Handler{
		selector:   selector,
		dispatcher: dispatcher,
		sessions:   sessions,
		adminToken: adminToken,
		log:        log,
	}
}

// Login grants the creator role to a session that presents the console token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	payload, err := extractPayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	provided, _ := payload["token"].(string)
	provided = strings.TrimSpace(provided)

	if h.adminToken == "" || provided == "" || !hmac.Equal([]byte(provided), []byte(h.adminToken)) {
		h.log.Warn("login rejected: bad console token")
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Access denied"})
		return
	}

	sess := h.sessions.Load(w, r)
	sess.SetRole(RoleCreator)
	sess.MarkDurable()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Load(w, r).Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EnvironmentStatus returns the current selection plus a probe of every
// registered environment.
func (h *Handler) EnvironmentStatus(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Load(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"current":      h.selector.Current(sess),
		"environments": h.dispatcher.AllStatuses(r.Context()),
	})
}

// SelectEnvironment stores the session's environment choice.
func (h *Handler) SelectEnvironment(w http.ResponseWriter, r *http.Request) {
	payload, err := extractPayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	key, _ := payload["environment"].(string)
	key = strings.TrimSpace(key)

	if !h.selector.IsConfigured(key) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Environment %s is not configured", key),
		})
		return
	}

	sess := h.sessions.Load(w, r)
	if !h.selector.Select(sess, key) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown environment"})
		return
	}

	h.log.Infof("environment switched to %s", key)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "environment": key})
}

// proxy builds a handler that relays the inbound request to remotePath on the
// currently selected environment. An "{id}" placeholder is filled from the
// chi route parameter.
func (h *Handler) proxy(method, remotePath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := remotePath
		if strings.Contains(path, "{id}") {
			path = strings.ReplaceAll(path, "{id}", chi.URLParam(r, "id"))
		}
		h.relay(w, r, method, path)
	}
}

// relay — общий конвейер: окружение → payload → dispatch → ответ как есть.
func (h *Handler) relay(w http.ResponseWriter, r *http.Request, method, path string) {
	sess := h.sessions.Load(w, r)
	env := h.selector.Current(sess)
	if !h.selector.IsConfigured(env) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Environment %s is not configured", env),
		})
		return
	}

	var payload map[string]any
	if method == http.MethodPost || method == http.MethodPut {
		data, err := extractPayload(r)
		if err != nil {
			h.log.Errorf("payload extraction failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		payload = data
	}

	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	resp := h.dispatcher.Dispatch(r.Context(), method, path, payload, env)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// multiValuedFormKeys keep their full value list during form normalization;
// every other field collapses to its first value.
var multiValuedFormKeys = map[string]bool{
	"parent_ids": true,
	"child_ids":  true,
}

// extractPayload reads a JSON body when the request carries one, otherwise
// normalizes form data.
func extractPayload(r *http.Request) (map[string]any, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return data, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}

	normalized := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if multiValuedFormKeys[key] {
			normalized[key] = values
			continue
		}
		if len(values) > 0 {
			normalized[key] = values[0]
		} else {
			normalized[key] = ""
		}
	}
	return normalized, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
