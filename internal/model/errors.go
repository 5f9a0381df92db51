package model

import "errors"

// Common errors used across the application
var (
	// Transport errors
	ErrAuthFailed   = errors.New("rcon authentication rejected")
	ErrNotConnected = errors.New("rcon session not connected")

	// Registry / store errors
	ErrPlayerNotFound = errors.New("player not found")

	// Action errors
	ErrEmptyMessage   = errors.New("message body is empty")
	ErrEmptyTarget    = errors.New("target player is empty")
	ErrSlotOutOfRange = errors.New("schedule slot index out of range")

	// Server-control errors
	ErrServerControlDisabled = errors.New("server container control is not configured")
)
