package model

import "context"

// ContextManager carries the caller's session token through a request context.
type ContextManager interface {
	SetSessionToContext(ctx context.Context, session string) context.Context
	GetSessionFromContext(ctx context.Context) (string, bool)
}
