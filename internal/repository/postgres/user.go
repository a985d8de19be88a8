package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/keepsake-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const (
	quotesColumn      = "quotes"
	experiencesColumn = "experiences"
)

const selectUser = `SELECT id, username, password, COALESCE(session, ''), quotes, experiences, created_at, updated_at
	FROM users`

// ownerCTE locks the oldest user holding session $1.
const ownerCTE = `WITH owner AS (
	SELECT id, %[1]s AS items FROM users
	WHERE session = $1
	ORDER BY created_at
	LIMIT 1
	FOR UPDATE
)`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := selectUser + ` WHERE username = $1 ORDER BY created_at LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetBySession(ctx context.Context, session string) (model.User, error) {
	if session == "" {
		return model.User{}, model.ErrNotFound
	}

	query := selectUser + ` WHERE session = $1 ORDER BY created_at LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, session))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by session: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	quotes, err := marshalList(user.Quotes)
	if err != nil {
		return model.User{}, err
	}
	experiences, err := marshalList(user.Experiences)
	if err != nil {
		return model.User{}, err
	}

	query := `INSERT INTO users (id, username, password, session, quotes, experiences, created_at, updated_at)
			  VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
			  RETURNING id, username, password, COALESCE(session, ''), quotes, experiences, created_at, updated_at`

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Password, user.Session, quotes, experiences,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) SetSession(ctx context.Context, username, session string) error {
	query := `UPDATE users SET session = NULLIF($2, ''), updated_at = now()
			  WHERE id = (SELECT id FROM users WHERE username = $1 ORDER BY created_at LIMIT 1)`

	if _, err := r.db.Exec(ctx, query, username, session); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearSession(ctx context.Context, session string) error {
	if session == "" {
		return nil
	}

	query := `UPDATE users SET session = NULL, updated_at = now() WHERE session = $1`

	if _, err := r.db.Exec(ctx, query, session); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *UserRepository) PushQuote(ctx context.Context, session string, quote model.Quote) (model.UpdateResult, error) {
	return r.push(ctx, quotesColumn, session, quote)
}

func (r *UserRepository) PullQuote(ctx context.Context, session, quoteID string) (model.UpdateResult, error) {
	return r.mutate(ctx, pullQuery(quotesColumn), session, quoteID)
}

func (r *UserRepository) PushExperience(ctx context.Context, session string, experience model.Experience) (model.UpdateResult, error) {
	return r.push(ctx, experiencesColumn, session, experience)
}

func (r *UserRepository) PullExperience(ctx context.Context, session, experienceID string) (model.UpdateResult, error) {
	return r.mutate(ctx, pullQuery(experiencesColumn), session, experienceID)
}

func (r *UserRepository) PatchExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.UpdateResult, error) {
	fields, err := json.Marshal(patch)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to encode experience patch: %w", err)
	}
	return r.mutate(ctx, patchQuery(experiencesColumn), session, experienceID, fields)
}

func (r *UserRepository) push(ctx context.Context, column, session string, item any) (model.UpdateResult, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to encode %s item: %w", column, err)
	}
	return r.mutate(ctx, pushQuery(column), session, raw)
}

// mutate runs a single-row update that returns the number of modified items.
// No returned row means no user owns the session.
func (r *UserRepository) mutate(ctx context.Context, query, session string, args ...any) (model.UpdateResult, error) {
	if session == "" {
		return model.UpdateResult{}, nil
	}

	var modified int64
	err := r.db.QueryRow(ctx, query, append([]any{session}, args...)...).Scan(&modified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UpdateResult{}, nil
		}
		return model.UpdateResult{}, fmt.Errorf("failed to update user lists: %w", err)
	}

	return model.UpdateResult{Matched: 1, Modified: modified}, nil
}

func pushQuery(column string) string {
	return fmt.Sprintf(ownerCTE+`
UPDATE users u
SET %[1]s = jsonb_build_array($2::jsonb) || owner.items, updated_at = now()
FROM owner
WHERE u.id = owner.id
RETURNING 1::bigint`, column)
}

func pullQuery(column string) string {
	return fmt.Sprintf(ownerCTE+`
UPDATE users u
SET %[1]s = COALESCE((
		SELECT jsonb_agg(t.e ORDER BY t.ord)
		FROM jsonb_array_elements(owner.items) WITH ORDINALITY AS t(e, ord)
		WHERE t.e->>'id' IS DISTINCT FROM $2::text
	), '[]'::jsonb),
	updated_at = now()
FROM owner
WHERE u.id = owner.id
RETURNING (SELECT count(*) FROM jsonb_array_elements(owner.items) AS m(e) WHERE m.e->>'id' = $2::text)`, column)
}

func patchQuery(column string) string {
	return fmt.Sprintf(ownerCTE+`
UPDATE users u
SET %[1]s = COALESCE((
		SELECT jsonb_agg(CASE WHEN t.e->>'id' = $2::text THEN t.e || $3::jsonb ELSE t.e END ORDER BY t.ord)
		FROM jsonb_array_elements(owner.items) WITH ORDINALITY AS t(e, ord)
	), '[]'::jsonb),
	updated_at = now()
FROM owner
WHERE u.id = owner.id
RETURNING (SELECT count(*) FROM jsonb_array_elements(owner.items) AS m(e) WHERE m.e->>'id' = $2::text)`, column)
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user        model.User
		quotes      []byte
		experiences []byte
	)
	err := row.Scan(
		&user.ID, &user.Username, &user.Password, &user.Session,
		&quotes, &experiences, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	if err := json.Unmarshal(quotes, &user.Quotes); err != nil {
		return model.User{}, fmt.Errorf("failed to decode quotes: %w", err)
	}
	if err := json.Unmarshal(experiences, &user.Experiences); err != nil {
		return model.User{}, fmt.Errorf("failed to decode experiences: %w", err)
	}

	return user, nil
}

func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return raw, nil
}
