package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// Lists mutates the quotes and experiences embedded in a user document.
// Every operation is addressed by session token alone.
type Lists struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewLists(userStore model.UserStore, logger *logger.Logger) *Lists {
	return &Lists{
		userStore: userStore,
		logger:    logger,
	}
}

// ListQuotes returns the session owner's quotes, newest first.
func (s *Lists) ListQuotes(ctx context.Context, session string) ([]model.Quote, model.Outcome, error) {
	user, outcome, err := s.owner(ctx, session)
	if err != nil || outcome == model.OutcomeUnauthorized {
		return nil, outcome, err
	}

	if len(user.Quotes) == 0 {
		return nil, model.OutcomeUnchanged, nil
	}
	return user.Quotes, model.OutcomeUnchanged, nil
}

// ListExperiences returns the session owner's experiences, newest first.
func (s *Lists) ListExperiences(ctx context.Context, session string) ([]model.Experience, model.Outcome, error) {
	user, outcome, err := s.owner(ctx, session)
	if err != nil || outcome == model.OutcomeUnauthorized {
		return nil, outcome, err
	}

	if len(user.Experiences) == 0 {
		return nil, model.OutcomeUnchanged, nil
	}
	return user.Experiences, model.OutcomeUnchanged, nil
}

// AddQuote prepends quote to the session owner's quotes.
func (s *Lists) AddQuote(ctx context.Context, session string, quote model.Quote) (model.Outcome, error) {
	return s.apply("add quote", session, quote.ID, func() (model.UpdateResult, error) {
		return s.userStore.PushQuote(ctx, session, quote)
	})
}

// RemoveQuote removes every quote with the given id.
func (s *Lists) RemoveQuote(ctx context.Context, session, quoteID string) (model.Outcome, error) {
	return s.apply("remove quote", session, quoteID, func() (model.UpdateResult, error) {
		return s.userStore.PullQuote(ctx, session, quoteID)
	})
}

// AddExperience prepends experience to the session owner's experiences.
func (s *Lists) AddExperience(ctx context.Context, session string, experience model.Experience) (model.Outcome, error) {
	return s.apply("add experience", session, experience.ID, func() (model.UpdateResult, error) {
		return s.userStore.PushExperience(ctx, session, experience)
	})
}

// RemoveExperience removes every experience with the given id.
func (s *Lists) RemoveExperience(ctx context.Context, session, experienceID string) (model.Outcome, error) {
	return s.apply("remove experience", session, experienceID, func() (model.UpdateResult, error) {
		return s.userStore.PullExperience(ctx, session, experienceID)
	})
}

// EditExperience overwrites tried, dateTried and notes of the experience
// with the given id. Text and category are left as they are.
func (s *Lists) EditExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.Outcome, error) {
	return s.apply("edit experience", session, experienceID, func() (model.UpdateResult, error) {
		return s.userStore.PatchExperience(ctx, session, experienceID, patch)
	})
}

func (s *Lists) owner(ctx context.Context, session string) (model.User, model.Outcome, error) {
	if session == "" {
		return model.User{}, model.OutcomeUnauthorized, nil
	}

	user, err := s.userStore.GetBySession(ctx, session)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Debug("Lists service: session not registered")
		return model.User{}, model.OutcomeUnauthorized, nil
	}
	if err != nil {
		return model.User{}, model.OutcomeUnauthorized, fmt.Errorf("failed to get user by session: %w", err)
	}

	return user, model.OutcomeUnchanged, nil
}

// apply runs update and classifies its result. An empty session never
// reaches the store.
func (s *Lists) apply(op, session, itemID string, update func() (model.UpdateResult, error)) (model.Outcome, error) {
	if session == "" {
		return model.OutcomeUnauthorized, nil
	}

	res, err := update()
	if err != nil {
		s.logger.Error("Lists service: store update failed",
			"op", op,
			"item_id", itemID,
			"error", err.Error())
		return model.OutcomeUnauthorized, fmt.Errorf("failed to %s: %w", op, err)
	}

	outcome := res.Outcome()
	s.logger.Debug("Lists service: update applied",
		"op", op,
		"item_id", itemID,
		"outcome", outcome.String())

	return outcome, nil
}
