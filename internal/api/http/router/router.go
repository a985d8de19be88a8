package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	"github.com/dtroode/keepsake-server/internal/api/http/handler"
	"github.com/dtroode/keepsake-server/internal/api/http/middleware"
	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// Router builds the chi router for the JSON API.
type Router struct {
	endpoints      *endpoint.Endpoints
	contextManager model.ContextManager
	allowedOrigins []string
	logger         *logger.Logger
}

func New(
	endpoints *endpoint.Endpoints,
	contextManager model.ContextManager,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		endpoints:      endpoints,
		contextManager: contextManager,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// CORSOptions allows credentials, any method and any header from the
// configured origins.
func CORSOptions(allowedOrigins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func (r *Router) Register() chi.Router {
	h := handler.New(r.endpoints, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(r.logger))
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(CORSOptions(r.allowedOrigins)))

	mux.Get("/health", h.Health)

	mux.Route("/api", func(api chi.Router) {
		api.Use(middleware.Session(r.contextManager))

		api.Post("/register", h.Register)
		api.Post("/login", h.Login)
		api.Post("/session", h.ValidateSession)
		api.Post("/logout", h.Logout)

		api.Post("/quotes", h.ListQuotes)
		api.Post("/quotes/add", h.AddQuote)
		api.Post("/quotes/remove", h.RemoveQuote)

		api.Post("/experiences", h.ListExperiences)
		api.Post("/experiences/add", h.AddExperience)
		api.Post("/experiences/remove", h.RemoveExperience)
		api.Post("/experiences/edit", h.EditExperience)
	})

	return mux
}
