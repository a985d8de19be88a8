package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user documents.
//
// Lookups by username or session return ErrNotFound when nothing matches.
// Mutations addressed by session report how many documents matched and how
// many were modified instead of failing on zero matches.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetBySession(ctx context.Context, session string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	SetSession(ctx context.Context, username, session string) error
	ClearSession(ctx context.Context, session string) error

	PushQuote(ctx context.Context, session string, quote Quote) (UpdateResult, error)
	PullQuote(ctx context.Context, session, quoteID string) (UpdateResult, error)
	PushExperience(ctx context.Context, session string, experience Experience) (UpdateResult, error)
	PullExperience(ctx context.Context, session, experienceID string) (UpdateResult, error)
	PatchExperience(ctx context.Context, session, experienceID string, patch ExperiencePatch) (UpdateResult, error)
}

// User is a registered account together with its embedded lists.
type User struct {
	ID          uuid.UUID    `json:"-"`
	Username    string       `json:"username"`
	Password    string       `json:"password"`
	Session     string       `json:"session,omitempty"`
	Quotes      []Quote      `json:"quotes,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Quote is a saved quotation. ID is supplied by the client.
type Quote struct {
	ID     string `json:"id" bson:"id"`
	Text   string `json:"text" bson:"text"`
	Author string `json:"author" bson:"author"`
}

// Experience is something the user wants to try, or already tried.
type Experience struct {
	ID        string `json:"id" bson:"id"`
	Text      string `json:"text" bson:"text"`
	Category  string `json:"category" bson:"category"`
	Tried     bool   `json:"tried" bson:"tried"`
	DateTried string `json:"dateTried" bson:"dateTried"`
	Notes     string `json:"notes" bson:"notes"`
}

// ExperiencePatch holds the only experience fields that can be edited in place.
type ExperiencePatch struct {
	Tried     bool   `json:"tried" bson:"tried"`
	DateTried string `json:"dateTried" bson:"dateTried"`
	Notes     string `json:"notes" bson:"notes"`
}

// Apply returns e with the patched fields overwritten.
func (p ExperiencePatch) Apply(e Experience) Experience {
	e.Tried = p.Tried
	e.DateTried = p.DateTried
	e.Notes = p.Notes
	return e
}
