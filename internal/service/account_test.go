package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keepsake-server/internal/mocks"
	"github.com/dtroode/keepsake-server/internal/model"
	"github.com/dtroode/keepsake-server/internal/testutil"
)

func TestAccount_Register_NewUser(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewUserStore(t)
	tokens := mocks.NewTokenGenerator(t)

	userStore.On("GetByUsername", mock.Anything, "alice").Return(model.User{}, model.ErrNotFound)
	tokens.On("Generate").Return("AbCdE12345", nil)
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Username == "alice" && u.Password == "pw" && u.Session == "AbCdE12345" && len(u.Quotes) == 0
	})).Return(model.User{}, nil)

	a := NewAccount(userStore, tokens, testutil.MakeNoopLogger())

	session, err := a.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "AbCdE12345", session)
}

func TestAccount_Register_ExistingUser(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewUserStore(t)
	tokens := mocks.NewTokenGenerator(t)

	userStore.On("GetByUsername", mock.Anything, "alice").Return(model.User{Username: "alice"}, nil)

	a := NewAccount(userStore, tokens, testutil.MakeNoopLogger())

	session, err := a.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, model.ErrAccountExists)
	assert.Empty(t, session)
}

func TestAccount_Register_AcceptsEmptyCredentials(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewUserStore(t)
	tokens := mocks.NewTokenGenerator(t)

	userStore.On("GetByUsername", mock.Anything, "").Return(model.User{}, model.ErrNotFound)
	tokens.On("Generate").Return("0123456789", nil)
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, nil)

	a := NewAccount(userStore, tokens, testutil.MakeNoopLogger())

	session, err := a.Register(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", session)
}

func TestAccount_Register_StoreErrors(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name  string
		setup func(*mocks.UserStore, *mocks.TokenGenerator)
	}{
		{
			name: "lookup fails",
			setup: func(us *mocks.UserStore, _ *mocks.TokenGenerator) {
				us.On("GetByUsername", mock.Anything, "bob").Return(model.User{}, boom)
			},
		},
		{
			name: "insert fails",
			setup: func(us *mocks.UserStore, tg *mocks.TokenGenerator) {
				us.On("GetByUsername", mock.Anything, "bob").Return(model.User{}, model.ErrNotFound)
				tg.On("Generate").Return("tok", nil)
				us.On("Create", mock.Anything, mock.Anything).Return(model.User{}, boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewUserStore(t)
			tokens := mocks.NewTokenGenerator(t)
			tt.setup(userStore, tokens)

			a := NewAccount(userStore, tokens, testutil.MakeNoopLogger())

			_, err := a.Register(context.Background(), "bob", "pw")
			require.ErrorIs(t, err, boom)
			assert.NotErrorIs(t, err, model.ErrAccountExists)
		})
	}
}

func TestAccount_Authenticate(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		lookupUser  model.User
		lookupErr   error
		expectToken bool
		wantErr     error
	}{
		{
			name:      "unknown user",
			password:  "pw",
			lookupErr: model.ErrNotFound,
			wantErr:   model.ErrAccountNotFound,
		},
		{
			name:       "wrong password",
			password:   "nope",
			lookupUser: model.User{Username: "alice", Password: "pw", Session: "old"},
			wantErr:    model.ErrWrongPassword,
		},
		{
			name:       "password comparison is exact",
			password:   "PW",
			lookupUser: model.User{Username: "alice", Password: "pw"},
			wantErr:    model.ErrWrongPassword,
		},
		{
			name:        "success replaces session",
			password:    "pw",
			lookupUser:  model.User{Username: "alice", Password: "pw", Session: "old"},
			expectToken: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewUserStore(t)
			tokens := mocks.NewTokenGenerator(t)

			userStore.On("GetByUsername", mock.Anything, "alice").Return(tt.lookupUser, tt.lookupErr)
			if tt.expectToken {
				tokens.On("Generate").Return("NewToken01", nil)
				userStore.On("SetSession", mock.Anything, "alice", "NewToken01").Return(nil)
			}

			a := NewAccount(userStore, tokens, testutil.MakeNoopLogger())

			session, err := a.Authenticate(context.Background(), "alice", tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "NewToken01", session)
		})
	}
}

func TestAccount_ValidateSession(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewUserStore(t)

	userStore.On("GetBySession", mock.Anything, "good").Return(model.User{Username: "alice", Session: "good"}, nil)
	userStore.On("GetBySession", mock.Anything, "never-issued").Return(model.User{}, model.ErrNotFound)

	a := NewAccount(userStore, mocks.NewTokenGenerator(t), testutil.MakeNoopLogger())

	user, err := a.ValidateSession(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = a.ValidateSession(ctx, "never-issued")
	require.ErrorIs(t, err, model.ErrSessionNotFound)

	_, err = a.ValidateSession(ctx, "")
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestAccount_Invalidate(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewUserStore(t)

	userStore.On("ClearSession", mock.Anything, "tok").Return(nil)

	a := NewAccount(userStore, mocks.NewTokenGenerator(t), testutil.MakeNoopLogger())

	require.NoError(t, a.Invalidate(ctx, "tok"))
	require.NoError(t, a.Invalidate(ctx, ""))
	userStore.AssertNumberOfCalls(t, "ClearSession", 1)
}
