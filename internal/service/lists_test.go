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

func TestLists_ListQuotes(t *testing.T) {
	quotes := []model.Quote{{ID: "b", Text: "t2", Author: "y"}, {ID: "a", Text: "t", Author: "x"}}

	tests := []struct {
		name        string
		session     string
		user        model.User
		lookupErr   error
		want        []model.Quote
		wantOutcome model.Outcome
		wantErr     bool
	}{
		{
			name:        "owner with quotes",
			session:     "tok",
			user:        model.User{Username: "alice", Quotes: quotes},
			want:        quotes,
			wantOutcome: model.OutcomeUnchanged,
		},
		{
			name:        "owner without quotes",
			session:     "tok",
			user:        model.User{Username: "alice"},
			wantOutcome: model.OutcomeUnchanged,
		},
		{
			name:        "unknown session",
			session:     "tok",
			lookupErr:   model.ErrNotFound,
			wantOutcome: model.OutcomeUnauthorized,
		},
		{
			name:        "store failure",
			session:     "tok",
			lookupErr:   errors.New("down"),
			wantOutcome: model.OutcomeUnauthorized,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewUserStore(t)
			userStore.On("GetBySession", mock.Anything, tt.session).Return(tt.user, tt.lookupErr)

			s := NewLists(userStore, testutil.MakeNoopLogger())

			got, outcome, err := s.ListQuotes(context.Background(), tt.session)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestLists_ListExperiences(t *testing.T) {
	userStore := mocks.NewUserStore(t)
	exps := []model.Experience{{ID: "e1", Text: "skydiving", Category: "adventure"}}
	userStore.On("GetBySession", mock.Anything, "tok").Return(model.User{Experiences: exps}, nil)

	s := NewLists(userStore, testutil.MakeNoopLogger())

	got, outcome, err := s.ListExperiences(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, exps, got)
	assert.Equal(t, model.OutcomeUnchanged, outcome)

	got, outcome, err = s.ListExperiences(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, model.OutcomeUnauthorized, outcome)
}

func TestLists_Mutations(t *testing.T) {
	quote := model.Quote{ID: "q1", Text: "t", Author: "a"}
	exp := model.Experience{ID: "e1", Text: "t", Category: "c"}
	patch := model.ExperiencePatch{Tried: true, DateTried: "2024-01-01", Notes: "ok"}

	calls := []struct {
		name   string
		method string
		args   []any
		run    func(*Lists) (model.Outcome, error)
	}{
		{
			name:   "add quote",
			method: "PushQuote",
			args:   []any{mock.Anything, "tok", quote},
			run: func(s *Lists) (model.Outcome, error) {
				return s.AddQuote(context.Background(), "tok", quote)
			},
		},
		{
			name:   "remove quote",
			method: "PullQuote",
			args:   []any{mock.Anything, "tok", "q1"},
			run: func(s *Lists) (model.Outcome, error) {
				return s.RemoveQuote(context.Background(), "tok", "q1")
			},
		},
		{
			name:   "add experience",
			method: "PushExperience",
			args:   []any{mock.Anything, "tok", exp},
			run: func(s *Lists) (model.Outcome, error) {
				return s.AddExperience(context.Background(), "tok", exp)
			},
		},
		{
			name:   "remove experience",
			method: "PullExperience",
			args:   []any{mock.Anything, "tok", "e1"},
			run: func(s *Lists) (model.Outcome, error) {
				return s.RemoveExperience(context.Background(), "tok", "e1")
			},
		},
		{
			name:   "edit experience",
			method: "PatchExperience",
			args:   []any{mock.Anything, "tok", "e1", patch},
			run: func(s *Lists) (model.Outcome, error) {
				return s.EditExperience(context.Background(), "tok", "e1", patch)
			},
		},
	}

	results := []struct {
		name        string
		res         model.UpdateResult
		err         error
		wantOutcome model.Outcome
		wantErr     bool
	}{
		{name: "no user", res: model.UpdateResult{}, wantOutcome: model.OutcomeUnauthorized},
		{name: "no item", res: model.UpdateResult{Matched: 1}, wantOutcome: model.OutcomeUnchanged},
		{name: "changed", res: model.UpdateResult{Matched: 1, Modified: 1}, wantOutcome: model.OutcomeChanged},
		{name: "store error", err: errors.New("down"), wantOutcome: model.OutcomeUnauthorized, wantErr: true},
	}

	for _, c := range calls {
		for _, r := range results {
			t.Run(c.name+"/"+r.name, func(t *testing.T) {
				userStore := mocks.NewUserStore(t)
				userStore.On(c.method, c.args...).Return(r.res, r.err)

				outcome, err := c.run(NewLists(userStore, testutil.MakeNoopLogger()))
				if r.wantErr {
					require.Error(t, err)
				} else {
					require.NoError(t, err)
				}
				assert.Equal(t, r.wantOutcome, outcome)
			})
		}
	}
}

func TestLists_EmptySessionSkipsStore(t *testing.T) {
	userStore := mocks.NewUserStore(t)
	s := NewLists(userStore, testutil.MakeNoopLogger())

	outcome, err := s.AddQuote(context.Background(), "", model.Quote{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, outcome)

	outcome, err = s.RemoveExperience(context.Background(), "", "a")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, outcome)
}
