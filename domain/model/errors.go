package model

import "errors"

// Sentinel errors for the scheduling domain. Callers match with errors.Is;
// wrapping sites use fmt.Errorf("...: %w", err) so context is preserved.
var (
	// ErrAuthExpired means the stored channel credential could not be refreshed.
	ErrAuthExpired = errors.New("auth expired")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrChannelNotFound means no connected channel matches the request.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrForbidden means the entity exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrRemoteUnavailable means a transient platform/network failure; aggregate
	// operations degrade to local fallback instead of surfacing it.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrDuplicateJobID means a job with the same id already exists.
	ErrDuplicateJobID = errors.New("duplicate job id")

	// ErrValidation means a malformed schedule request, rejected before side effects.
	ErrValidation = errors.New("validation error")
)
