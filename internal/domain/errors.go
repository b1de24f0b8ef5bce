package domain

import "errors"

// Sentinel errors shared across layers. Transport maps them onto HTTP statuses;
// services wrap them with context via fmt.Errorf("...: %w", err).
var (
	// ErrInvalidInput signals a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken signals a signup with an already registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound signals a missing resource or one owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrProviderNotConfigured signals a missing AI provider API key.
	ErrProviderNotConfigured = errors.New("ai provider not configured")
	// ErrProviderUnavailable signals an AI provider call failure.
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	// ErrMalformedSuggestion signals unparseable model output, distinct from
	// ErrProviderUnavailable so clients can message the user differently.
	ErrMalformedSuggestion = errors.New("ai returned a malformed response")
)
