package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/keepsake-server/internal/logger"
	"github.com/dtroode/keepsake-server/internal/model"
)

// Account registers users and manages their single active session.
type Account struct {
	userStore model.UserStore
	tokens    model.TokenGenerator
	logger    *logger.Logger
}

func NewAccount(userStore model.UserStore, tokens model.TokenGenerator, logger *logger.Logger) *Account {
	return &Account{
		userStore: userStore,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a user and returns its first session token.
//
// The existence check and the insert are separate store calls, so two
// concurrent registrations of one username may both succeed.
func (a *Account) Register(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Account service: registering user",
		"username", username)

	_, err := a.userStore.GetByUsername(ctx, username)
	if err == nil {
		a.logger.Info("Account service: user already exists",
			"username", username)
		return "", model.ErrAccountExists
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Account service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	session, err := a.tokens.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate session: %w", err)
	}

	now := time.Now()
	_, err = a.userStore.Create(ctx, model.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  password,
		Session:   session,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		a.logger.Error("Account service: failed to create user",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Account service: user registered",
		"username", username)

	return session, nil
}

// Authenticate checks credentials and replaces the user's session with a
// fresh token. Any previously issued token stops validating.
func (a *Account) Authenticate(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Account service: authenticating user",
		"username", username)

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		a.logger.Info("Account service: wrong password",
			"username", username)
		return "", model.ErrWrongPassword
	}

	session, err := a.tokens.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate session: %w", err)
	}

	if err := a.userStore.SetSession(ctx, username, session); err != nil {
		a.logger.Error("Account service: failed to set session",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to set session: %w", err)
	}

	a.logger.Info("Account service: user logged in",
		"username", username)

	return session, nil
}

// ValidateSession returns the user currently holding session.
func (a *Account) ValidateSession(ctx context.Context, session string) (model.User, error) {
	if session == "" {
		return model.User{}, model.ErrSessionNotFound
	}

	user, err := a.userStore.GetBySession(ctx, session)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrSessionNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by session: %w", err)
	}

	return user, nil
}

// Invalidate clears session from whichever user holds it. Unknown sessions
// are ignored.
func (a *Account) Invalidate(ctx context.Context, session string) error {
	if session == "" {
		return nil
	}

	if err := a.userStore.ClearSession(ctx, session); err != nil {
		a.logger.Error("Account service: failed to clear session",
			"error", err.Error())
		return fmt.Errorf("failed to clear session: %w", err)
	}

	a.logger.Debug("Account service: session cleared")

	return nil
}
