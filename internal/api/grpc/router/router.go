package router

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	"github.com/dtroode/keepsake-server/internal/api/grpc/handler"
	"github.com/dtroode/keepsake-server/internal/api/grpc/keepsakev1"
	"github.com/dtroode/keepsake-server/internal/api/grpc/middleware"
	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// Router assembles the gRPC server for keepsake.v1.Keepsake.
type Router struct {
	endpoints      *endpoint.Endpoints
	contextManager model.ContextManager
	logger         *logger.Logger
}

func New(
	endpoints *endpoint.Endpoints,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		endpoints:      endpoints,
		contextManager: contextManager,
		logger:         logger,
	}
}

// needsSession reports whether a call can carry a session. Register and
// Login issue sessions and skip extraction.
func needsSession(_ context.Context, c interceptors.CallMeta) bool {
	switch c.FullMethod() {
	case keepsakev1.FullMethod(keepsakev1.MethodRegister), keepsakev1.FullMethod(keepsakev1.MethodLogin):
		return false
	default:
		return true
	}
}

// Register builds the server with logging, panic recovery and session
// extraction interceptors, and registers reflection.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.contextManager, r.logger)
	recoverFrom := recovery.WithRecoveryHandler(func(p any) error {
		r.logger.Error("gRPC handler panicked", "panic", fmt.Sprint(p))
		return status.Error(codes.Internal, "internal server error")
	})

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoverFrom),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(needsSession),
			),
		),
	)

	keepsakev1.RegisterKeepsakeServer(s, handler.NewKeepsake(r.endpoints, r.contextManager, r.logger))
	reflection.Register(s)

	return s
}
