package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keepsake-server/internal/model"
)

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_EmptySession(t *testing.T) {
	// no pool: any query would panic
	repo := NewUserRepository(&Connection{})
	ctx := context.Background()

	_, err := repo.GetBySession(ctx, "")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, repo.ClearSession(ctx, ""))

	res, err := repo.PushQuote(ctx, "", model.Quote{ID: "q"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, res.Outcome())

	res, err = repo.PatchExperience(ctx, "", "e", model.ExperiencePatch{Tried: true})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, res.Outcome())
}

func TestListQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "push prepends",
			query: pushQuery(quotesColumn),
			want:  []string{"SET quotes = jsonb_build_array($2::jsonb) || owner.items", "FOR UPDATE"},
		},
		{
			name:  "pull keeps order",
			query: pullQuery(experiencesColumn),
			want:  []string{"SET experiences = COALESCE(", "WITH ORDINALITY", "ORDER BY t.ord", "IS DISTINCT FROM $2::text"},
		},
		{
			name:  "patch merges fields",
			query: patchQuery(experiencesColumn),
			want:  []string{"t.e || $3::jsonb", "RETURNING (SELECT count(*)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, fragment := range tt.want {
				assert.Contains(t, tt.query, fragment)
			}
			assert.NotContains(t, tt.query, "%!")
		})
	}
}

func TestMarshalList(t *testing.T) {
	raw, err := marshalList[model.Quote](nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	raw, err = marshalList([]model.Quote{{ID: "1", Text: "t", Author: "a"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","text":"t","author":"a"}]`, string(raw))
}
