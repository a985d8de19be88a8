// Package storetest holds behaviour checks shared by every model.UserStore
// implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keepsake-server/internal/model"
)

// Run exercises store returned by newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) model.UserStore) {
	t.Helper()

	t.Run("create and lookup", func(t *testing.T) {
		testCreateAndLookup(t, newStore(t))
	})
	t.Run("session overwrite and clear", func(t *testing.T) {
		testSessions(t, newStore(t))
	})
	t.Run("quotes newest first", func(t *testing.T) {
		testQuoteOrdering(t, newStore(t))
	})
	t.Run("pull keeps relative order", func(t *testing.T) {
		testPullQuote(t, newStore(t))
	})
	t.Run("experience patch", func(t *testing.T) {
		testPatchExperience(t, newStore(t))
	})
	t.Run("pull experience idempotent", func(t *testing.T) {
		testPullExperienceIdempotent(t, newStore(t))
	})
	t.Run("unknown session matches nothing", func(t *testing.T) {
		testUnknownSession(t, newStore(t))
	})
	t.Run("lists are independent", func(t *testing.T) {
		testIndependentLists(t, newStore(t))
	})
}

func seed(t *testing.T, store model.UserStore, username, session string) {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err := store.Create(context.Background(), model.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  "pw-" + username,
		Session:   session,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

func testCreateAndLookup(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "AAAAAAAAAA")

	byName, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", byName.Username)
	assert.Equal(t, "pw-alice", byName.Password)
	assert.Equal(t, "AAAAAAAAAA", byName.Session)
	assert.Empty(t, byName.Quotes)
	assert.Empty(t, byName.Experiences)

	bySession, err := store.GetBySession(ctx, "AAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, "alice", bySession.Username)

	_, err = store.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = store.GetBySession(ctx, "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func testSessions(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "first00000")

	require.NoError(t, store.SetSession(ctx, "alice", "second0000"))

	_, err := store.GetBySession(ctx, "first00000")
	assert.ErrorIs(t, err, model.ErrNotFound)

	u, err := store.GetBySession(ctx, "second0000")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	require.NoError(t, store.ClearSession(ctx, "second0000"))
	_, err = store.GetBySession(ctx, "second0000")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// clearing an unknown session is a no-op
	require.NoError(t, store.ClearSession(ctx, "second0000"))

	u, err = store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, u.Session)
}

func testQuoteOrdering(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "tok")

	res, err := store.PushQuote(ctx, "tok", model.Quote{ID: "a", Text: "t", Author: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.UpdateResult{Matched: 1, Modified: 1}, res)

	_, err = store.PushQuote(ctx, "tok", model.Quote{ID: "b", Text: "t2", Author: "y"})
	require.NoError(t, err)

	u, err := store.GetBySession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []model.Quote{
		{ID: "b", Text: "t2", Author: "y"},
		{ID: "a", Text: "t", Author: "x"},
	}, u.Quotes)
}

func testPullQuote(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "tok")

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.PushQuote(ctx, "tok", model.Quote{ID: id})
		require.NoError(t, err)
	}

	res, err := store.PullQuote(ctx, "tok", "b")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeChanged, res.Outcome())

	u, err := store.GetBySession(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, u.Quotes, 2)
	assert.Equal(t, "c", u.Quotes[0].ID)
	assert.Equal(t, "a", u.Quotes[1].ID)
}

func testPatchExperience(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "tok")

	_, err := store.PushExperience(ctx, "tok", model.Experience{ID: "e1", Text: "skydiving", Category: "adventure"})
	require.NoError(t, err)
	_, err = store.PushExperience(ctx, "tok", model.Experience{ID: "e2", Text: "sushi", Category: "food"})
	require.NoError(t, err)

	res, err := store.PatchExperience(ctx, "tok", "e1", model.ExperiencePatch{Tried: true, DateTried: "2024-01-01", Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeChanged, res.Outcome())

	res, err = store.PatchExperience(ctx, "tok", "missing", model.ExperiencePatch{Tried: true})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnchanged, res.Outcome())

	u, err := store.GetBySession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []model.Experience{
		{ID: "e2", Text: "sushi", Category: "food"},
		{ID: "e1", Text: "skydiving", Category: "adventure", Tried: true, DateTried: "2024-01-01", Notes: "ok"},
	}, u.Experiences)
}

func testPullExperienceIdempotent(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "tok")

	_, err := store.PushExperience(ctx, "tok", model.Experience{ID: "e1"})
	require.NoError(t, err)

	res, err := store.PullExperience(ctx, "tok", "missing")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnchanged, res.Outcome())

	res, err = store.PullExperience(ctx, "tok", "e1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeChanged, res.Outcome())

	res, err = store.PullExperience(ctx, "tok", "e1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnchanged, res.Outcome())

	u, err := store.GetBySession(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, u.Experiences)
}

func testUnknownSession(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "tok")

	res, err := store.PushQuote(ctx, "other", model.Quote{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, res.Outcome())

	res, err = store.PatchExperience(ctx, "other", "a", model.ExperiencePatch{})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, res.Outcome())

	res, err = store.PullQuote(ctx, "", "a")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnauthorized, res.Outcome())

	u, err := store.GetBySession(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, u.Quotes)
}

func testIndependentLists(t *testing.T, store model.UserStore) {
	ctx := context.Background()
	seed(t, store, "alice", "tok-alice")
	seed(t, store, "bob", "tok-bob")

	_, err := store.PushQuote(ctx, "tok-alice", model.Quote{ID: "same"})
	require.NoError(t, err)
	_, err = store.PushExperience(ctx, "tok-bob", model.Experience{ID: "same"})
	require.NoError(t, err)

	res, err := store.PullQuote(ctx, "tok-bob", "same")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeUnchanged, res.Outcome())

	alice, err := store.GetBySession(ctx, "tok-alice")
	require.NoError(t, err)
	assert.Len(t, alice.Quotes, 1)
	assert.Empty(t, alice.Experiences)

	bob, err := store.GetBySession(ctx, "tok-bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Quotes)
	assert.Len(t, bob.Experiences, 1)
}
