package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	"github.com/dtroode/keepsake-server/internal/api/envelope"
	"github.com/dtroode/keepsake-server/internal/api/grpc/keepsakev1"
	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

var _ keepsakev1.KeepsakeServer = (*Keepsake)(nil)

// Keepsake serves keepsake.v1.Keepsake on top of endpoint.Endpoints.
type Keepsake struct {
	endpoints      *endpoint.Endpoints
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewKeepsake(endpoints *endpoint.Endpoints, contextManager model.ContextManager, logger *logger.Logger) *Keepsake {
	return &Keepsake{
		endpoints:      endpoints,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Keepsake) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("Register")(h.endpoints.Register(ctx, req))
}

func (h *Keepsake) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("Login")(h.endpoints.Login(ctx, req))
}

func (h *Keepsake) ValidateSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("ValidateSession")(h.endpoints.ValidateSession(ctx, h.session(ctx, req.Session)))
}

func (h *Keepsake) Logout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("Logout")(h.endpoints.Logout(ctx, h.session(ctx, req.Session)))
}

func (h *Keepsake) ListQuotes(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("ListQuotes")(h.endpoints.ListQuotes(ctx, h.session(ctx, req.Session)))
}

func (h *Keepsake) AddQuote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.AddQuoteRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("AddQuote")(h.endpoints.AddQuote(ctx, h.session(ctx, req.Session), req.Quote))
}

func (h *Keepsake) RemoveQuote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.RemoveRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("RemoveQuote")(h.endpoints.RemoveQuote(ctx, h.session(ctx, req.Session), req.ID))
}

func (h *Keepsake) ListExperiences(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.SessionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("ListExperiences")(h.endpoints.ListExperiences(ctx, h.session(ctx, req.Session)))
}

func (h *Keepsake) AddExperience(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.AddExperienceRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("AddExperience")(h.endpoints.AddExperience(ctx, h.session(ctx, req.Session), req.Experience))
}

func (h *Keepsake) RemoveExperience(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.RemoveRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("RemoveExperience")(h.endpoints.RemoveExperience(ctx, h.session(ctx, req.Session), req.ID))
}

func (h *Keepsake) EditExperience(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req envelope.EditExperienceRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	return h.reply("EditExperience")(h.endpoints.EditExperience(ctx, h.session(ctx, req.Session), req.ID, req.Patch()))
}

func (h *Keepsake) session(ctx context.Context, body string) string {
	fromMD, _ := h.contextManager.GetSessionFromContext(ctx)
	return envelope.PickSession(body, fromMD)
}

func (h *Keepsake) reply(method string) func(envelope.Response, error) (*structpb.Struct, error) {
	return func(resp envelope.Response, err error) (*structpb.Struct, error) {
		if err != nil {
			h.logger.Error("Keepsake handler: request failed",
				"method", method,
				"error", err.Error())
			return nil, handleError(err)
		}

		out, err := encode(resp)
		if err != nil {
			h.logger.Error("Keepsake handler: failed to encode response",
				"method", method,
				"error", err.Error())
			return nil, status.Error(codes.Internal, "failed to encode response")
		}
		return out, nil
	}
}

// decode maps a Struct onto a request type through its JSON form. A nil
// Struct decodes as {}.
func decode(in *structpb.Struct, dst any) error {
	if in == nil {
		return nil
	}
	raw, err := in.MarshalJSON()
	if err != nil {
		return status.Error(codes.InvalidArgument, "malformed request")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Error(codes.InvalidArgument, "malformed request")
	}
	return nil
}

func encode(resp envelope.Response) (*structpb.Struct, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return out, nil
}
