package environ

// Session — состояние админской сессии, передаётся явно в каждый вызов.
type Session interface {
	Environment() (key string, ok bool)
	SetEnvironment(key string)
	MarkDurable()
}

// Selector resolves and mutates the per-session environment choice against
// the live registry snapshot.
type Selector struct {
	reg *Registry
}

func NewSelector(reg *Registry) *Selector {
	return &Selector{reg: reg}
}

// Current returns the session's stored choice, or a computed default:
// "admin" when configured, else the first available key, else "production".
func (s *Selector) Current(sess Session) string {
	if key, ok := sess.Environment(); ok && key != "" {
		return key
	}

	list := s.reg.List()
	if env, ok := list["admin"]; ok && env.Configured() {
		return "admin"
	}
	if keys := s.reg.Keys(); len(keys) > 0 {
		return keys[0]
	}
	return "production"
}

// Select stores key as the session's choice and marks the session durable.
// Unknown keys leave the session untouched.
func (s *Selector) Select(sess Session, key string) bool {
	if _, ok := s.reg.List()[key]; !ok {
		return false
	}
	sess.SetEnvironment(key)
	sess.MarkDurable()
	return true
}

// IsConfigured reports whether key resolves to a fully configured environment.
func (s *Selector) IsConfigured(key string) bool {
	env, ok := s.reg.Get(key)
	return ok && env.Configured()
}
