package envelope

import "github.com/dtroode/keepsake-server/internal/model"

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionRequest is the body of every session-only call.
type SessionRequest struct {
	Session string `json:"session"`
}

type AddQuoteRequest struct {
	Session string      `json:"session"`
	Quote   model.Quote `json:"quote"`
}

type AddExperienceRequest struct {
	Session    string           `json:"session"`
	Experience model.Experience `json:"experience"`
}

type RemoveRequest struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

type EditExperienceRequest struct {
	Session   string `json:"session"`
	ID        string `json:"id"`
	Tried     bool   `json:"tried"`
	DateTried string `json:"dateTried"`
	Notes     string `json:"notes"`
}

func (r EditExperienceRequest) Patch() model.ExperiencePatch {
	return model.ExperiencePatch{
		Tried:     r.Tried,
		DateTried: r.DateTried,
		Notes:     r.Notes,
	}
}

// PickSession returns the session sent in the body, falling back to the one
// carried by transport headers.
func PickSession(body, header string) string {
	if body != "" {
		return body
	}
	return header
}
