// Package objectstore keeps user documents as JSON objects in a model.Storage
// bucket, with a small per-session index object pointing at the owner.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/keepsake-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const (
	usersPrefix    = "users/"
	sessionsPrefix = "sessions/"
)

type userDocument struct {
	ID          uuid.UUID          `json:"id"`
	Username    string             `json:"username"`
	Password    string             `json:"password"`
	Session     string             `json:"session,omitempty"`
	Quotes      []model.Quote      `json:"quotes"`
	Experiences []model.Experience `json:"experiences"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// UserRepository serializes writers with a mutex, so it is only safe when a
// single process owns the bucket.
type UserRepository struct {
	mu      sync.Mutex
	storage model.Storage
}

func NewUserRepository(storage model.Storage) *UserRepository {
	return &UserRepository{storage: storage}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	doc, err := r.load(ctx, username)
	if err != nil {
		return model.User{}, err
	}
	return doc.toModel(), nil
}

func (r *UserRepository) GetBySession(ctx context.Context, session string) (model.User, error) {
	doc, err := r.resolve(ctx, session)
	if err != nil {
		return model.User{}, err
	}
	return doc.toModel(), nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := toDocument(user)
	if err := r.save(ctx, doc); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if doc.Session != "" {
		if err := r.index(ctx, doc.Session, doc.Username); err != nil {
			return model.User{}, fmt.Errorf("failed to create user: %w", err)
		}
	}
	return doc.toModel(), nil
}

func (r *UserRepository) SetSession(ctx context.Context, username, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	previous := doc.Session
	doc.Session = session
	doc.UpdatedAt = time.Now()
	if err := r.save(ctx, doc); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	if session != "" {
		if err := r.index(ctx, session, username); err != nil {
			return fmt.Errorf("failed to set session: %w", err)
		}
	}
	if previous != "" && previous != session {
		if err := r.storage.Delete(ctx, sessionKey(previous)); err != nil {
			return fmt.Errorf("failed to drop previous session: %w", err)
		}
	}
	return nil
}

func (r *UserRepository) ClearSession(ctx context.Context, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.resolve(ctx, session)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	doc.Session = ""
	doc.UpdatedAt = time.Now()
	if err := r.save(ctx, doc); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := r.storage.Delete(ctx, sessionKey(session)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *UserRepository) PushQuote(ctx context.Context, session string, quote model.Quote) (model.UpdateResult, error) {
	return r.update(ctx, session, func(d *userDocument) int64 {
		d.Quotes = slices.Insert(d.Quotes, 0, quote)
		return 1
	})
}

func (r *UserRepository) PullQuote(ctx context.Context, session, quoteID string) (model.UpdateResult, error) {
	return r.update(ctx, session, func(d *userDocument) int64 {
		before := len(d.Quotes)
		d.Quotes = slices.DeleteFunc(d.Quotes, func(q model.Quote) bool { return q.ID == quoteID })
		return int64(before - len(d.Quotes))
	})
}

func (r *UserRepository) PushExperience(ctx context.Context, session string, experience model.Experience) (model.UpdateResult, error) {
	return r.update(ctx, session, func(d *userDocument) int64 {
		d.Experiences = slices.Insert(d.Experiences, 0, experience)
		return 1
	})
}

func (r *UserRepository) PullExperience(ctx context.Context, session, experienceID string) (model.UpdateResult, error) {
	return r.update(ctx, session, func(d *userDocument) int64 {
		before := len(d.Experiences)
		d.Experiences = slices.DeleteFunc(d.Experiences, func(e model.Experience) bool { return e.ID == experienceID })
		return int64(before - len(d.Experiences))
	})
}

func (r *UserRepository) PatchExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.UpdateResult, error) {
	return r.update(ctx, session, func(d *userDocument) int64 {
		var n int64
		for i := range d.Experiences {
			if d.Experiences[i].ID == experienceID {
				d.Experiences[i] = patch.Apply(d.Experiences[i])
				n++
			}
		}
		return n
	})
}

func (r *UserRepository) update(ctx context.Context, session string, fn func(d *userDocument) int64) (model.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.resolve(ctx, session)
	if errors.Is(err, model.ErrNotFound) {
		return model.UpdateResult{}, nil
	}
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	res := model.UpdateResult{Matched: 1, Modified: fn(&doc)}
	if res.Modified == 0 {
		return res, nil
	}

	doc.UpdatedAt = time.Now()
	if err := r.save(ctx, doc); err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to save user: %w", err)
	}
	return res, nil
}

// resolve follows the session index to its user. An index entry whose user
// no longer carries the session is treated as missing.
func (r *UserRepository) resolve(ctx context.Context, session string) (userDocument, error) {
	if session == "" {
		return userDocument{}, model.ErrNotFound
	}

	raw, err := r.read(ctx, sessionKey(session))
	if err != nil {
		return userDocument{}, err
	}

	doc, err := r.load(ctx, string(raw))
	if err != nil {
		return userDocument{}, err
	}
	if doc.Session != session {
		return userDocument{}, model.ErrNotFound
	}
	return doc, nil
}

func (r *UserRepository) load(ctx context.Context, username string) (userDocument, error) {
	raw, err := r.read(ctx, userKey(username))
	if err != nil {
		return userDocument{}, err
	}

	var doc userDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return userDocument{}, fmt.Errorf("failed to decode user %q: %w", username, err)
	}
	return doc, nil
}

func (r *UserRepository) read(ctx context.Context, key string) ([]byte, error) {
	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return raw, nil
}

func (r *UserRepository) save(ctx context.Context, doc userDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return r.storage.Upload(ctx, userKey(doc.Username), bytes.NewReader(raw), int64(len(raw)))
}

func (r *UserRepository) index(ctx context.Context, session, username string) error {
	return r.storage.Upload(ctx, sessionKey(session), bytes.NewReader([]byte(username)), int64(len(username)))
}

func userKey(username string) string {
	return usersPrefix + url.PathEscape(username) + ".json"
}

func sessionKey(session string) string {
	return sessionsPrefix + url.PathEscape(session)
}

func toDocument(u model.User) userDocument {
	return userDocument{
		ID:          u.ID,
		Username:    u.Username,
		Password:    u.Password,
		Session:     u.Session,
		Quotes:      slices.Clone(u.Quotes),
		Experiences: slices.Clone(u.Experiences),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (d userDocument) toModel() model.User {
	return model.User{
		ID:          d.ID,
		Username:    d.Username,
		Password:    d.Password,
		Session:     d.Session,
		Quotes:      d.Quotes,
		Experiences: d.Experiences,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
