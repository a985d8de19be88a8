package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dtroode/keepsake-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps user documents in process memory. Documents are
// kept in insertion order so duplicate usernames resolve to the oldest one,
// like a collection scan would.
type UserRepository struct {
	sync.RWMutex
	users []*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (model.User, error) {
	r.RLock()
	defer r.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetBySession(_ context.Context, session string) (model.User, error) {
	r.RLock()
	defer r.RUnlock()

	if u := r.bySession(session); u != nil {
		return clone(u), nil
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.Lock()
	defer r.Unlock()

	stored := clone(&user)
	r.users = append(r.users, &stored)
	return clone(&stored), nil
}

func (r *UserRepository) SetSession(_ context.Context, username, session string) error {
	r.Lock()
	defer r.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			u.Session = session
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *UserRepository) ClearSession(_ context.Context, session string) error {
	r.Lock()
	defer r.Unlock()

	if u := r.bySession(session); u != nil {
		u.Session = ""
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *UserRepository) PushQuote(_ context.Context, session string, quote model.Quote) (model.UpdateResult, error) {
	return r.update(session, func(u *model.User) int64 {
		u.Quotes = slices.Insert(u.Quotes, 0, quote)
		return 1
	}), nil
}

func (r *UserRepository) PullQuote(_ context.Context, session, quoteID string) (model.UpdateResult, error) {
	return r.update(session, func(u *model.User) int64 {
		before := len(u.Quotes)
		u.Quotes = slices.DeleteFunc(u.Quotes, func(q model.Quote) bool { return q.ID == quoteID })
		return int64(before - len(u.Quotes))
	}), nil
}

func (r *UserRepository) PushExperience(_ context.Context, session string, experience model.Experience) (model.UpdateResult, error) {
	return r.update(session, func(u *model.User) int64 {
		u.Experiences = slices.Insert(u.Experiences, 0, experience)
		return 1
	}), nil
}

func (r *UserRepository) PullExperience(_ context.Context, session, experienceID string) (model.UpdateResult, error) {
	return r.update(session, func(u *model.User) int64 {
		before := len(u.Experiences)
		u.Experiences = slices.DeleteFunc(u.Experiences, func(e model.Experience) bool { return e.ID == experienceID })
		return int64(before - len(u.Experiences))
	}), nil
}

func (r *UserRepository) PatchExperience(_ context.Context, session, experienceID string, patch model.ExperiencePatch) (model.UpdateResult, error) {
	return r.update(session, func(u *model.User) int64 {
		var n int64
		for i := range u.Experiences {
			if u.Experiences[i].ID == experienceID {
				u.Experiences[i] = patch.Apply(u.Experiences[i])
				n++
			}
		}
		return n
	}), nil
}

func (r *UserRepository) update(session string, fn func(u *model.User) int64) model.UpdateResult {
	r.Lock()
	defer r.Unlock()

	u := r.bySession(session)
	if u == nil {
		return model.UpdateResult{}
	}

	res := model.UpdateResult{Matched: 1, Modified: fn(u)}
	if res.Modified > 0 {
		u.UpdatedAt = time.Now()
	}
	return res
}

// bySession must be called with the lock held.
func (r *UserRepository) bySession(session string) *model.User {
	if session == "" {
		return nil
	}
	for _, u := range r.users {
		if u.Session == session {
			return u
		}
	}
	return nil
}

func clone(u *model.User) model.User {
	c := *u
	c.Quotes = slices.Clone(u.Quotes)
	c.Experiences = slices.Clone(u.Experiences)
	return c
}
