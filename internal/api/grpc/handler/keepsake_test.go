package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/keepsake-server/internal/api/endpoint"
	grpcctx "github.com/dtroode/keepsake-server/internal/api/grpc/context"
	"github.com/dtroode/keepsake-server/internal/mocks"
	"github.com/dtroode/keepsake-server/internal/model"
	"github.com/dtroode/keepsake-server/internal/testutil"
)

func newKeepsake(t *testing.T) (*Keepsake, *mocks.AccountService, *mocks.ListsService) {
	t.Helper()
	account := mocks.NewAccountService(t)
	lists := mocks.NewListsService(t)
	lg := testutil.MakeNoopLogger()
	return NewKeepsake(endpoint.New(account, lists, lg), grpcctx.NewManager(), lg), account, lists
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestKeepsake_Register(t *testing.T) {
	t.Parallel()

	h, account, _ := newKeepsake(t)
	account.On("Register", mock.Anything, "alice", "pw").Return("AbCdEf1234", nil).Once()
	account.On("Register", mock.Anything, "alice", "pw").Return("", model.ErrAccountExists).Once()

	in := mustStruct(t, map[string]any{"username": "alice", "password": "pw"})

	out, err := h.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"code": float64(0),
		"data": map[string]any{"account": "AbCdEf1234"},
	}, out.AsMap())

	out, err = h.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"code": float64(1),
		"data": map[string]any{"reason": "Account already exists"},
	}, out.AsMap())
}

func TestKeepsake_SessionFromMetadata(t *testing.T) {
	t.Parallel()

	h, _, lists := newKeepsake(t)
	lists.On("ListQuotes", mock.Anything, "meta000000").
		Return([]model.Quote{{ID: "a", Text: "t", Author: "x"}}, model.OutcomeUnchanged, nil).Once()
	lists.On("ListQuotes", mock.Anything, "body000000").
		Return(nil, model.OutcomeUnauthorized, nil).Once()

	ctx := grpcctx.NewManager().SetSessionToContext(context.Background(), "meta000000")

	out, err := h.ListQuotes(ctx, mustStruct(t, map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": "a", "text": "t", "author": "x"}},
		out.AsMap()["data"].(map[string]any)["quotes"])

	out, err = h.ListQuotes(ctx, mustStruct(t, map[string]any{"session": "body000000"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out.AsMap()["data"])
}

func TestKeepsake_Mutations(t *testing.T) {
	t.Parallel()

	h, _, lists := newKeepsake(t)
	patch := model.ExperiencePatch{Tried: true, DateTried: "2024-01-01", Notes: "ok"}

	lists.On("AddQuote", mock.Anything, "tok", model.Quote{ID: "q", Text: "t", Author: "a"}).Return(model.OutcomeChanged, nil)
	lists.On("RemoveQuote", mock.Anything, "tok", "q").Return(model.OutcomeUnchanged, nil)
	lists.On("AddExperience", mock.Anything, "tok", model.Experience{ID: "e", Text: "x", Category: "c"}).Return(model.OutcomeChanged, nil)
	lists.On("RemoveExperience", mock.Anything, "tok", "e").Return(model.OutcomeChanged, nil)
	lists.On("EditExperience", mock.Anything, "tok", "e", patch).Return(model.OutcomeUnauthorized, nil)

	ctx := context.Background()
	calls := []struct {
		fn func(context.Context, *structpb.Struct) (*structpb.Struct, error)
		in map[string]any
	}{
		{h.AddQuote, map[string]any{"session": "tok", "quote": map[string]any{"id": "q", "text": "t", "author": "a"}}},
		{h.RemoveQuote, map[string]any{"session": "tok", "id": "q"}},
		{h.AddExperience, map[string]any{"session": "tok", "experience": map[string]any{"id": "e", "text": "x", "category": "c"}}},
		{h.RemoveExperience, map[string]any{"session": "tok", "id": "e"}},
		{h.EditExperience, map[string]any{"session": "tok", "id": "e", "tried": true, "dateTried": "2024-01-01", "notes": "ok"}},
	}

	for _, c := range calls {
		out, err := c.fn(ctx, mustStruct(t, c.in))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"code": float64(0), "data": map[string]any{}}, out.AsMap())
	}
}

func TestKeepsake_Failures(t *testing.T) {
	t.Parallel()

	h, account, _ := newKeepsake(t)
	account.On("Invalidate", mock.Anything, "tok").Return(errors.New("down"))

	_, err := h.Logout(context.Background(), mustStruct(t, map[string]any{"session": "tok"}))
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = h.Login(context.Background(), mustStruct(t, map[string]any{"username": 42.0}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
