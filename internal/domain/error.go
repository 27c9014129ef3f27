package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrSessionNotFound = errors.New("chat session not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrNoActiveSession = errors.New("no active session selected")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyMessage    = errors.New("message is required")
)
