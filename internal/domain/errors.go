package domain

import "errors"

var (
	// ErrAuth is returned when the identity provider is unreachable or rejects
	// the anonymous sign-in. Fatal to session start.
	ErrAuth = errors.New("anonymous sign-in failed")
	// ErrFetch is returned on a failed read of the question pool or ranking.
	// Surfaced inline; the caller may re-trigger the action.
	ErrFetch = errors.New("backend read failed")
	// ErrWrite is returned when the score record could not be inserted.
	// Non-fatal; the flow continues to the ranking view.
	ErrWrite = errors.New("score write failed")
	// ErrDataUnavailable means the question pool was fetched successfully but
	// is empty. Terminal for the session, distinct from ErrFetch.
	ErrDataUnavailable = errors.New("question pool is empty")
	// ErrBadIntent is returned when a user intent arrives in a phase that does
	// not accept it. Session state is left untouched.
	ErrBadIntent = errors.New("intent not allowed in current phase")
)
