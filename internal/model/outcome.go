package model

// UpdateResult reports what a session-addressed mutation touched.
type UpdateResult struct {
	// Matched is the number of user documents owning the session.
	Matched int64
	// Modified is non-zero when list items were inserted, removed or patched.
	Modified int64
}

// Outcome classifies a list operation. Transports report all of them as
// success; the distinction exists for logging and tests.
type Outcome int

const (
	// OutcomeUnauthorized means the session matched no user.
	OutcomeUnauthorized Outcome = iota
	// OutcomeUnchanged means the user matched but no item did.
	OutcomeUnchanged
	// OutcomeChanged means at least one item was written.
	OutcomeChanged
)

// Outcome converts the store counters into an Outcome.
func (r UpdateResult) Outcome() Outcome {
	switch {
	case r.Matched == 0:
		return OutcomeUnauthorized
	case r.Modified == 0:
		return OutcomeUnchanged
	default:
		return OutcomeChanged
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeChanged:
		return "changed"
	default:
		return "unknown"
	}
}
