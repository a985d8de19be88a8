package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"

	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// Authenticate copies a bearer session from the authorization metadata into
// the request context. It never rejects a call: session checks belong to the
// services, which fold a bad session into an empty result.
type Authenticate struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{contextManager: contextManager, logger: logger}
}

// AuthFunc is an auth.AuthFunc.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		m.logger.Debug("Authenticate middleware: no bearer session", "reason", err.Error())
		return ctx, nil
	}

	return m.contextManager.SetSessionToContext(ctx, token), nil
}
