package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubase/remote-console/internal/environ"
	"github.com/edubase/remote-console/internal/remote"
	"github.com/edubase/remote-console/internal/session"
)

const testConsoleToken = "console-secret"

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	entry := log.WithField("component", "test")

	registry := environ.NewRegistry()
	handler := NewHandler(
		environ.NewSelector(registry),
		remote.NewDispatcher(registry, entry),
		session.NewStore("test-session-secret", entry),
		testConsoleToken,
		entry,
	)

	r := chi.NewRouter()
	RegisterRoutes(r, handler)
	return r
}

// login returns the session cookies of an authenticated creator session.
func login(t *testing.T, router chi.Router) []*http.Cookie {
	t.Helper()

	body := strings.NewReader(`{"token": "` + testConsoleToken + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/remote-admin/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	// каждое сохранение сессии пишет свой Set-Cookie; берём последний
	return cookies[len(cookies)-1:]
}

func doRequest(router chi.Router, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginRejectsBadToken(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"token": "wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/remote-admin/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProxyRequiresCreatorRole(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/remote-admin/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestProxyRejectsUnconfiguredEnvironment(t *testing.T) {
	router := newTestRouter(t)
	cookies := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/remote-admin/api/users", nil)
	rec := doRequest(router, req, cookies)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestProxyRelaysRemoteResponse(t *testing.T) {
	var gotPath, gotQuery, gotToken string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotToken = r.Header.Get("X-Admin-Token")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"users": [{"id": 1}]}`))
	}))
	defer backend.Close()

	t.Setenv("PRODUCTION_URL", backend.URL)
	t.Setenv("PRODUCTION_ADMIN_TOKEN", "prod-token")

	router := newTestRouter(t)
	cookies := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/remote-admin/api/audit-logs?page=2&per_page=10", nil)
	rec := doRequest(router, req, cookies)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/internal/remote-admin/api/audit-logs", gotPath)
	assert.Equal(t, "page=2&per_page=10", gotQuery)
	assert.Equal(t, "prod-token", gotToken)
	assert.JSONEq(t, `{"users": [{"id": 1}]}`, rec.Body.String())
}

func TestProxySubstitutesResourceID(t *testing.T) {
	var gotPath, gotMethod string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "deleted"}`))
	}))
	defer backend.Close()

	t.Setenv("PRODUCTION_URL", backend.URL)
	t.Setenv("PRODUCTION_ADMIN_TOKEN", "prod-token")

	router := newTestRouter(t)
	cookies := login(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/remote-admin/api/users/42", nil)
	rec := doRequest(router, req, cookies)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/internal/remote-admin/api/users/42", gotPath)
}

func TestProxyRelaysUpstreamStatusVerbatim(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "user not found"}`))
	}))
	defer backend.Close()

	t.Setenv("PRODUCTION_URL", backend.URL)
	t.Setenv("PRODUCTION_ADMIN_TOKEN", "prod-token")

	router := newTestRouter(t)
	cookies := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/remote-admin/api/users/7", nil)
	rec := doRequest(router, req, cookies)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "user not found"}`, rec.Body.String())
}

func TestProxyForwardsNormalizedForm(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	t.Setenv("PRODUCTION_URL", backend.URL)
	t.Setenv("PRODUCTION_ADMIN_TOKEN", "prod-token")

	router := newTestRouter(t)
	cookies := login(t, router)

	form := url.Values{}
	form.Add("parent_ids", "1")
	form.Add("parent_ids", "2")
	form.Add("name", "x")
	form.Add("name", "y")
	req := httptest.NewRequest(http.MethodPost, "/remote-admin/api/users/5", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(router, req, cookies)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"1", "2"}, gotBody["parent_ids"])
	assert.Equal(t, "x", gotBody["name"])
}

func TestSelectEnvironment(t *testing.T) {
	t.Setenv("SANDBOX_URL", "https://sb.example.com")
	t.Setenv("SANDBOX_ADMIN_TOKEN", "t")

	router := newTestRouter(t)
	cookies := login(t, router)

	form := url.Values{"environment": {"sandbox"}}
	req := httptest.NewRequest(http.MethodPost, "/remote-admin/environment/select", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(router, req, cookies)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sandbox")
}

func TestSelectUnknownEnvironment(t *testing.T) {
	router := newTestRouter(t)
	cookies := login(t, router)

	form := url.Values{"environment": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/remote-admin/environment/select", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(router, req, cookies)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnvironmentStatusEndpoint(t *testing.T) {
	t.Setenv("PRODUCTION_URL", "https://prod.example.com")

	router := newTestRouter(t)
	cookies := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/remote-admin/environment/status", nil)
	rec := doRequest(router, req, cookies)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Current      string                      `json:"current"`
		Environments map[string]remote.EnvStatus `json:"environments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Current)
	require.Contains(t, payload.Environments, "production")
	assert.False(t, payload.Environments["production"].Configured)
}

func TestExtractPayloadFormNormalization(t *testing.T) {
	form := url.Values{}
	form.Add("parent_ids", "1")
	form.Add("parent_ids", "2")
	form.Add("child_ids", "9")
	form.Add("name", "x")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	payload, err := extractPayload(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, payload["parent_ids"])
	assert.Equal(t, []string{"9"}, payload["child_ids"])
	assert.Equal(t, "x", payload["name"])
}

func TestExtractPayloadInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	_, err := extractPayload(req)
	assert.Error(t, err)
}
