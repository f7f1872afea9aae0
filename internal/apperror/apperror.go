// Package apperror defines the application's error taxonomy.
//
// Every failure in this application falls into one of a small set of
// categories, each represented by a sentinel error. Code that produces a
// failure wraps the sentinel in an *AppError carrying a human-readable
// message; code that handles a failure branches with errors.Is against the
// sentinel. Handlers map the categories to HTTP status codes, the feed
// service maps them to "touch local state or not" decisions.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks an operation that never completed: the request
	// could not be sent, the connection dropped, or the response body
	// failed to decode. The caller has no result to work with.
	ErrTransport = errors.New("transport failure")

	// ErrJoin marks a post whose userId has no matching user in the
	// fetched user set. The whole assembly batch is aborted.
	ErrJoin = errors.New("join failure")

	// ErrRejected marks a mutation the upstream answered with a non-2xx
	// status. The local card set must not change.
	ErrRejected = errors.New("rejected by upstream")

	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// AppError pairs a sentinel with a message fit for a log line or an API
// error body. Optional Field names the offending input.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable description
	Field   string // optional: input field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Transport wraps a failed round trip against the upstream API.
// op names the operation, e.g. "list users".
func Transport(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrTransport, err),
		Message: fmt.Sprintf("%s did not complete: %v", op, err),
	}
}

// Join reports a post referencing an author absent from the user set.
func Join(postID, userID int) *AppError {
	return &AppError{
		Err:     ErrJoin,
		Message: fmt.Sprintf("post %d references unknown user %d", postID, userID),
	}
}

// UnknownAuthor reports an author absent from the fetched user set before
// any post exists to name — the create-flow counterpart of Join.
func UnknownAuthor(userID int) *AppError {
	return &AppError{
		Err:     ErrJoin,
		Message: fmt.Sprintf("author %d is not in the fetched user set", userID),
		Field:   "userId",
	}
}

// Rejected reports a mutation the upstream refused with the given status.
func Rejected(op string, status int) *AppError {
	return &AppError{
		Err:     ErrRejected,
		Message: fmt.Sprintf("%s rejected with status %d", op, status),
	}
}

func NotFound(resource string, id int) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
