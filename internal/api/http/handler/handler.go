package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	"github.com/dtroode/keepsake-server/internal/api/envelope"
	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// maxBodySize bounds request bodies; the largest one is a single experience.
const maxBodySize = 1 << 20

// Handler serves the JSON API on top of endpoint.Endpoints.
type Handler struct {
	endpoints      *endpoint.Endpoints
	contextManager model.ContextManager
	logger         *logger.Logger
}

func New(endpoints *endpoint.Endpoints, contextManager model.ContextManager, logger *logger.Logger) *Handler {
	return &Handler{
		endpoints:      endpoints,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req envelope.Credentials
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.Register(r.Context(), req))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req envelope.Credentials
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.Login(r.Context(), req))
}

func (h *Handler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	var req envelope.SessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.ValidateSession(r.Context(), h.session(r.Context(), req.Session)))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req envelope.SessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.Logout(r.Context(), h.session(r.Context(), req.Session)))
}

func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	var req envelope.SessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.ListQuotes(r.Context(), h.session(r.Context(), req.Session)))
}

func (h *Handler) AddQuote(w http.ResponseWriter, r *http.Request) {
	var req envelope.AddQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.AddQuote(r.Context(), h.session(r.Context(), req.Session), req.Quote))
}

func (h *Handler) RemoveQuote(w http.ResponseWriter, r *http.Request) {
	var req envelope.RemoveRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.RemoveQuote(r.Context(), h.session(r.Context(), req.Session), req.ID))
}

func (h *Handler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	var req envelope.SessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.ListExperiences(r.Context(), h.session(r.Context(), req.Session)))
}

func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req envelope.AddExperienceRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.AddExperience(r.Context(), h.session(r.Context(), req.Session), req.Experience))
}

func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	var req envelope.RemoveRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.RemoveExperience(r.Context(), h.session(r.Context(), req.Session), req.ID))
}

func (h *Handler) EditExperience(w http.ResponseWriter, r *http.Request) {
	var req envelope.EditExperienceRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.endpoints.EditExperience(r.Context(), h.session(r.Context(), req.Session), req.ID, req.Patch()))
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) session(ctx context.Context, body string) string {
	header, _ := h.contextManager.GetSessionFromContext(ctx)
	return envelope.PickSession(body, header)
}

// decode reads a JSON body into dst. An empty body decodes as {}.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	h.logger.Debug("HTTP handler: malformed request body",
		"path", r.URL.Path,
		"error", err.Error())
	http.Error(w, "malformed request body", http.StatusBadRequest)
	return false
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(envelope.Response, error) {
	return func(resp envelope.Response, err error) {
		status := http.StatusOK
		if err != nil {
			h.logger.Error("HTTP handler: request failed",
				"path", r.URL.Path,
				"error", err.Error())
			status = http.StatusServiceUnavailable
			resp = envelope.Unavailable()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("HTTP handler: failed to write response",
				"path", r.URL.Path,
				"error", err.Error())
		}
	}
}
