package context

import "context"

type sessionKey struct{}

// Manager stores the caller's session token in a request context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetSessionToContext returns ctx carrying session. An empty session leaves
// ctx untouched.
func (m *Manager) SetSessionToContext(ctx context.Context, session string) context.Context {
	if session == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

func (m *Manager) GetSessionFromContext(ctx context.Context) (string, bool) {
	session, ok := ctx.Value(sessionKey{}).(string)
	return session, ok && session != ""
}
