// Package endpoint turns service results into envelope responses. Both
// transports decode their requests and call into it.
package endpoint

import (
	"context"
	"fmt"

	"github.com/dtroode/keepsake-server/internal/api/envelope"
	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// AccountService defines registration and session operations.
type AccountService interface {
	Register(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	ValidateSession(ctx context.Context, session string) (model.User, error)
	Invalidate(ctx context.Context, session string) error
}

// ListsService defines quote and experience list operations.
type ListsService interface {
	ListQuotes(ctx context.Context, session string) ([]model.Quote, model.Outcome, error)
	ListExperiences(ctx context.Context, session string) ([]model.Experience, model.Outcome, error)
	AddQuote(ctx context.Context, session string, quote model.Quote) (model.Outcome, error)
	RemoveQuote(ctx context.Context, session, quoteID string) (model.Outcome, error)
	AddExperience(ctx context.Context, session string, experience model.Experience) (model.Outcome, error)
	RemoveExperience(ctx context.Context, session, experienceID string) (model.Outcome, error)
	EditExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.Outcome, error)
}

// Endpoints returns a non-nil error only for infrastructure faults. Every
// domain outcome is carried in the response code.
type Endpoints struct {
	account AccountService
	lists   ListsService
	logger  *logger.Logger
}

func New(account AccountService, lists ListsService, logger *logger.Logger) *Endpoints {
	return &Endpoints{
		account: account,
		lists:   lists,
		logger:  logger,
	}
}

func (e *Endpoints) Register(ctx context.Context, req envelope.Credentials) (envelope.Response, error) {
	token, err := e.account.Register(ctx, req.Username, req.Password)
	if err != nil {
		return e.failure("register", err)
	}
	return envelope.OK(map[string]any{"account": token}), nil
}

func (e *Endpoints) Login(ctx context.Context, req envelope.Credentials) (envelope.Response, error) {
	token, err := e.account.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return e.failure("login", err)
	}
	return envelope.OK(map[string]any{"account": token}), nil
}

func (e *Endpoints) ValidateSession(ctx context.Context, session string) (envelope.Response, error) {
	if _, err := e.account.ValidateSession(ctx, session); err != nil {
		return e.failure("validate session", err)
	}
	return envelope.OK(nil), nil
}

func (e *Endpoints) Logout(ctx context.Context, session string) (envelope.Response, error) {
	if err := e.account.Invalidate(ctx, session); err != nil {
		return e.failure("logout", err)
	}
	return envelope.OK(nil), nil
}

func (e *Endpoints) ListQuotes(ctx context.Context, session string) (envelope.Response, error) {
	quotes, _, err := e.lists.ListQuotes(ctx, session)
	if err != nil {
		return e.failure("list quotes", err)
	}
	if len(quotes) == 0 {
		return envelope.OK(nil), nil
	}
	return envelope.OK(map[string]any{"quotes": quotes}), nil
}

func (e *Endpoints) ListExperiences(ctx context.Context, session string) (envelope.Response, error) {
	experiences, _, err := e.lists.ListExperiences(ctx, session)
	if err != nil {
		return e.failure("list experiences", err)
	}
	if len(experiences) == 0 {
		return envelope.OK(nil), nil
	}
	return envelope.OK(map[string]any{"experiences": experiences}), nil
}

func (e *Endpoints) AddQuote(ctx context.Context, session string, quote model.Quote) (envelope.Response, error) {
	return e.mutation("add quote", session)(e.lists.AddQuote(ctx, session, quote))
}

func (e *Endpoints) RemoveQuote(ctx context.Context, session, id string) (envelope.Response, error) {
	return e.mutation("remove quote", session)(e.lists.RemoveQuote(ctx, session, id))
}

func (e *Endpoints) AddExperience(ctx context.Context, session string, experience model.Experience) (envelope.Response, error) {
	return e.mutation("add experience", session)(e.lists.AddExperience(ctx, session, experience))
}

func (e *Endpoints) RemoveExperience(ctx context.Context, session, id string) (envelope.Response, error) {
	return e.mutation("remove experience", session)(e.lists.RemoveExperience(ctx, session, id))
}

func (e *Endpoints) EditExperience(ctx context.Context, session, id string, patch model.ExperiencePatch) (envelope.Response, error) {
	return e.mutation("edit experience", session)(e.lists.EditExperience(ctx, session, id, patch))
}

// mutation reports every outcome of a list write as success.
func (e *Endpoints) mutation(op, session string) func(model.Outcome, error) (envelope.Response, error) {
	return func(outcome model.Outcome, err error) (envelope.Response, error) {
		if err != nil {
			return e.failure(op, err)
		}
		e.logger.Debug("Endpoint: list mutation done",
			"op", op,
			"outcome", outcome.String(),
			"has_session", session != "")
		return envelope.OK(nil), nil
	}
}

func (e *Endpoints) failure(op string, err error) (envelope.Response, error) {
	if resp, ok := envelope.FromError(err); ok {
		e.logger.Debug("Endpoint: domain failure",
			"op", op,
			"code", resp.Code,
			"reason", resp.Data["reason"])
		return resp, nil
	}

	e.logger.Error("Endpoint: request failed",
		"op", op,
		"error", err.Error())
	return envelope.Unavailable(), fmt.Errorf("failed to %s: %w", op, err)
}
