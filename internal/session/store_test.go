package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewStore("test-secret", log.WithField("component", "session"))
}

func TestSessionRoundTrip(t *testing.T) {
	store := testStore(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := store.Load(rec, req)
	sess.SetRole("creator")
	sess.SetEnvironment("sandbox")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// каждое save() пишет свой Set-Cookie; актуально последнее
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[len(cookies)-1])
	sess = store.Load(httptest.NewRecorder(), req)

	assert.Equal(t, "creator", sess.Role())
	env, ok := sess.Environment()
	require.True(t, ok)
	assert.Equal(t, "sandbox", env)
}

func TestLoadWithBrokenCookieStartsFresh(t *testing.T) {
	store := testStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "remote_console_session", Value: "garbage"})
	sess := store.Load(httptest.NewRecorder(), req)

	assert.Empty(t, sess.Role())
	_, ok := sess.Environment()
	assert.False(t, ok)
}

func TestClearDropsState(t *testing.T) {
	store := testStore(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := store.Load(rec, req)
	sess.SetRole("creator")
	sess.Clear()

	assert.Empty(t, sess.Role())
	_, ok := sess.Environment()
	assert.False(t, ok)
}
