package context

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// sessionKey is the incoming metadata key the session token is kept under
// once the authorization header has been parsed.
const sessionKey = "x-keepsake-session"

// Manager keeps the caller's session token in gRPC incoming metadata.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetSessionToContext stores session in the incoming metadata of ctx,
// replacing any previous value. An empty session leaves ctx untouched.
func (m *Manager) SetSessionToContext(ctx context.Context, session string) context.Context {
	if session == "" {
		return ctx
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(nil)
	} else {
		md = md.Copy()
	}
	md.Set(sessionKey, session)

	return metadata.NewIncomingContext(ctx, md)
}

// GetSessionFromContext returns the stored session, if any.
func (m *Manager) GetSessionFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	sessions := md.Get(sessionKey)
	if len(sessions) == 0 || sessions[0] == "" {
		return "", false
	}
	return sessions[0], true
}
