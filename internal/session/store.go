package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	cookieName = "remote_console_session"

	environmentKey = "remote_admin_environment"
	roleKey        = "role"

	// durableMaxAge — "постоянная" сессия, как session.permanent.
	durableMaxAge = 30 * 24 * 60 * 60
)

// Store wraps a cookie store for the console's session state.
type Store struct {
	cookies *sessions.CookieStore
	log     *logrus.Entry
}

func NewStore(secret string, log *logrus.Entry) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs, log: log}
}

// Load returns the request's session, creating an empty one when absent or
// undecodable.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) *Session {
	raw, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// Сломанная кука — начинаем с чистой сессии.
		s.log.Debugf("session decode failed, starting fresh: %v", err)
	}
	return &Session{raw: raw, w: w, r: r, log: s.log}
}

// Session is one request's view of the cookie session. It satisfies
// environ.Session.
type Session struct {
	raw *sessions.Session
	w   http.ResponseWriter
	r   *http.Request
	log *logrus.Entry
}

func (s *Session) Environment() (string, bool) {
	key, ok := s.raw.Values[environmentKey].(string)
	return key, ok && key != ""
}

func (s *Session) SetEnvironment(key string) {
	s.raw.Values[environmentKey] = key
	s.save()
}

// MarkDurable extends the cookie lifetime so the choice survives the browser
// session.
func (s *Session) MarkDurable() {
	s.raw.Options.MaxAge = durableMaxAge
	s.save()
}

func (s *Session) Role() string {
	role, _ := s.raw.Values[roleKey].(string)
	return role
}

func (s *Session) SetRole(role string) {
	s.raw.Values[roleKey] = role
	s.save()
}

// Clear drops all session state and expires the cookie.
func (s *Session) Clear() {
	s.raw.Values = make(map[any]any)
	s.raw.Options.MaxAge = -1
	s.save()
}

func (s *Session) save() {
	if err := s.raw.Save(s.r, s.w); err != nil {
		s.log.Errorf("session save failed: %v", err)
	}
}
