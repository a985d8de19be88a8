// Package envelope holds the wire shapes shared by the HTTP and gRPC
// transports: the {code, data} response and the request bodies.
package envelope

import (
	"errors"

	"github.com/dtroode/keepsake-server/internal/model"
)

// Response codes. Domain failures use small positive codes, -1 marks an
// infrastructure fault.
const (
	CodeOK          = 0
	CodeUnavailable = -1
)

// Failure reasons reported in data.reason.
const (
	ReasonAccountExists      = "Account already exists"
	ReasonAccountNotFound    = "Account does not exist"
	ReasonWrongPassword      = "Wrong password"
	ReasonSessionNotFound    = "Session not registered"
	ReasonServiceUnavailable = "service unavailable"
)

type Response struct {
	Code int            `json:"code"`
	Data map[string]any `json:"data"`
}

// OK wraps data in a success response. A nil map is sent as {}.
func OK(data map[string]any) Response {
	if data == nil {
		data = map[string]any{}
	}
	return Response{Code: CodeOK, Data: data}
}

func Fail(code int, reason string) Response {
	return Response{Code: code, Data: map[string]any{"reason": reason}}
}

// Unavailable is the body sent alongside a transport-level failure.
func Unavailable() Response {
	return Fail(CodeUnavailable, ReasonServiceUnavailable)
}

// FromError maps a domain error to its failure response. ok is false when
// err is not a domain outcome and must be treated as an infrastructure fault.
func FromError(err error) (resp Response, ok bool) {
	switch {
	case errors.Is(err, model.ErrAccountExists):
		return Fail(1, ReasonAccountExists), true
	case errors.Is(err, model.ErrAccountNotFound):
		return Fail(1, ReasonAccountNotFound), true
	case errors.Is(err, model.ErrWrongPassword):
		return Fail(2, ReasonWrongPassword), true
	case errors.Is(err, model.ErrSessionNotFound):
		return Fail(1, ReasonSessionNotFound), true
	default:
		return Unavailable(), false
	}
}
