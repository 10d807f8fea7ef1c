package session

import "errors"

var (
	// ErrNotFound indicates no session exists for the requested path.
	ErrNotFound = errors.New("session not found")
)
