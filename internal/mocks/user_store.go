package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/keepsake-server/internal/model"
)

// UserStore is a mock type for the model.UserStore interface.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	ret := _m.Called(ctx, username)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetBySession(ctx context.Context, session string) (model.User, error) {
	ret := _m.Called(ctx, session)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) SetSession(ctx context.Context, username, session string) error {
	ret := _m.Called(ctx, username, session)
	return ret.Error(0)
}

func (_m *UserStore) ClearSession(ctx context.Context, session string) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

func (_m *UserStore) PushQuote(ctx context.Context, session string, quote model.Quote) (model.UpdateResult, error) {
	ret := _m.Called(ctx, session, quote)
	return ret.Get(0).(model.UpdateResult), ret.Error(1)
}

func (_m *UserStore) PullQuote(ctx context.Context, session, quoteID string) (model.UpdateResult, error) {
	ret := _m.Called(ctx, session, quoteID)
	return ret.Get(0).(model.UpdateResult), ret.Error(1)
}

func (_m *UserStore) PushExperience(ctx context.Context, session string, experience model.Experience) (model.UpdateResult, error) {
	ret := _m.Called(ctx, session, experience)
	return ret.Get(0).(model.UpdateResult), ret.Error(1)
}

func (_m *UserStore) PullExperience(ctx context.Context, session, experienceID string) (model.UpdateResult, error) {
	ret := _m.Called(ctx, session, experienceID)
	return ret.Get(0).(model.UpdateResult), ret.Error(1)
}

func (_m *UserStore) PatchExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.UpdateResult, error) {
	ret := _m.Called(ctx, session, experienceID, patch)
	return ret.Get(0).(model.UpdateResult), ret.Error(1)
}

// NewUserStore creates a new instance of UserStore. It also registers a
// cleanup function to assert the mocks expectations.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
