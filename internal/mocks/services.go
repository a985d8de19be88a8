package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/keepsake-server/internal/model"
)

// AccountService is a mock type for the account operations used by handlers.
type AccountService struct {
	mock.Mock
}

func (_m *AccountService) Register(ctx context.Context, username, password string) (string, error) {
	ret := _m.Called(ctx, username, password)
	return ret.String(0), ret.Error(1)
}

func (_m *AccountService) Authenticate(ctx context.Context, username, password string) (string, error) {
	ret := _m.Called(ctx, username, password)
	return ret.String(0), ret.Error(1)
}

func (_m *AccountService) ValidateSession(ctx context.Context, session string) (model.User, error) {
	ret := _m.Called(ctx, session)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *AccountService) Invalidate(ctx context.Context, session string) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

// NewAccountService creates a new instance of AccountService. It also
// registers a cleanup function to assert the mocks expectations.
func NewAccountService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountService {
	m := &AccountService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// ListsService is a mock type for the list operations used by handlers.
type ListsService struct {
	mock.Mock
}

func (_m *ListsService) ListQuotes(ctx context.Context, session string) ([]model.Quote, model.Outcome, error) {
	ret := _m.Called(ctx, session)

	var r0 []model.Quote
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Quote)
	}
	return r0, ret.Get(1).(model.Outcome), ret.Error(2)
}

func (_m *ListsService) ListExperiences(ctx context.Context, session string) ([]model.Experience, model.Outcome, error) {
	ret := _m.Called(ctx, session)

	var r0 []model.Experience
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Experience)
	}
	return r0, ret.Get(1).(model.Outcome), ret.Error(2)
}

func (_m *ListsService) AddQuote(ctx context.Context, session string, quote model.Quote) (model.Outcome, error) {
	ret := _m.Called(ctx, session, quote)
	return ret.Get(0).(model.Outcome), ret.Error(1)
}

func (_m *ListsService) RemoveQuote(ctx context.Context, session, quoteID string) (model.Outcome, error) {
	ret := _m.Called(ctx, session, quoteID)
	return ret.Get(0).(model.Outcome), ret.Error(1)
}

func (_m *ListsService) AddExperience(ctx context.Context, session string, experience model.Experience) (model.Outcome, error) {
	ret := _m.Called(ctx, session, experience)
	return ret.Get(0).(model.Outcome), ret.Error(1)
}

func (_m *ListsService) RemoveExperience(ctx context.Context, session, experienceID string) (model.Outcome, error) {
	ret := _m.Called(ctx, session, experienceID)
	return ret.Get(0).(model.Outcome), ret.Error(1)
}

func (_m *ListsService) EditExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.Outcome, error) {
	ret := _m.Called(ctx, session, experienceID, patch)
	return ret.Get(0).(model.Outcome), ret.Error(1)
}

// NewListsService creates a new instance of ListsService. It also registers
// a cleanup function to assert the mocks expectations.
func NewListsService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ListsService {
	m := &ListsService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
