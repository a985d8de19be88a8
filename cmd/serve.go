package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	grpcctx "github.com/dtroode/keepsake-server/internal/api/grpc/context"
	grpcrouter "github.com/dtroode/keepsake-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/keepsake-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/keepsake-server/internal/api/http/context"
	httprouter "github.com/dtroode/keepsake-server/internal/api/http/router"
	httpserver "github.com/dtroode/keepsake-server/internal/api/http/server"
	"github.com/dtroode/keepsake-server/internal/model"
	"github.com/dtroode/keepsake-server/internal/server"
	"github.com/dtroode/keepsake-server/internal/service"
	"github.com/dtroode/keepsake-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP (and optional gRPC) server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	a.logger.Info("starting keepsake",
		"version", buildVersion,
		"commit", buildCommit,
		"store", a.cfg.Store.Driver)

	store, closeStore, err := openStore(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			a.logger.Error("failed to close store", "error", err)
		}
	}()

	endpoints := endpoint.New(
		service.NewAccount(store, token.NewSession(), a.logger),
		service.NewLists(store, a.logger),
		a.logger,
	)

	servers := []model.Server{a.httpServer(endpoints)}
	if a.cfg.GRPC.Enabled {
		servers = append(servers, a.grpcServer(endpoints))
	}

	sl := server.NewSecurityLayer(a.cfg.HTTP.EnableHTTPS, a.cfg.HTTP.CertFileName, a.cfg.HTTP.PrivateKeyFileName)

	failed := make(chan error, len(servers))
	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			a.logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				a.logger.Error("failed to start server", "error", err, "address", s.Address())
				failed <- err
			}
		}(s)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("received interruption signal, shutting down")
	case runErr = <-failed:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			a.logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	a.logger.Info("shutdown complete")

	if runErr != nil {
		return fmt.Errorf("server stopped: %w", runErr)
	}
	return nil
}

func (a *app) httpServer(endpoints *endpoint.Endpoints) *httpserver.HTTPServer {
	r := httprouter.New(endpoints, httpctx.NewManager(), a.cfg.HTTP.AllowedOrigins, a.logger)
	return httpserver.NewHTTPServer(r.Register(), a.cfg.HTTP.Address)
}

func (a *app) grpcServer(endpoints *endpoint.Endpoints) *grpcserver.GRPCServer {
	r := grpcrouter.New(endpoints, grpcctx.NewManager(), a.logger)
	return grpcserver.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", a.cfg.GRPC.Port))
}
