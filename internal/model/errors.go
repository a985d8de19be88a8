package model

import "errors"

var (
	// ErrNotFound is returned by stores when no document matches a lookup.
	ErrNotFound = errors.New("not found")

	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account does not exist")
	ErrWrongPassword   = errors.New("wrong password")
	ErrSessionNotFound = errors.New("session not registered")
)
