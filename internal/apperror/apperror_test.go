package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "Transport wraps ErrTransport",
			err:       Transport("list users", errors.New("connection refused")),
			target:    ErrTransport,
			wantMatch: true,
		},
		{
			name:      "Join wraps ErrJoin",
			err:       Join(10, 99),
			target:    ErrJoin,
			wantMatch: true,
		},
		{
			name:      "UnknownAuthor wraps ErrJoin",
			err:       UnknownAuthor(99),
			target:    ErrJoin,
			wantMatch: true,
		},
		{
			name:      "Rejected wraps ErrRejected",
			err:       Rejected("delete post", 500),
			target:    ErrRejected,
			wantMatch: true,
		},
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("card", 10),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("id", "card id must be numeric"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Join does NOT match ErrTransport",
			err:       Join(10, 99),
			target:    ErrTransport,
			wantMatch: false,
		},
		{
			name:      "Rejected does NOT match ErrNotFound",
			err:       Rejected("update post", 404),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "Join message names both identifiers",
			err:         Join(10, 99),
			wantMessage: "post 10 references unknown user 99",
		},
		{
			name:        "UnknownAuthor names only the author",
			err:         UnknownAuthor(99),
			wantMessage: "author 99 is not in the fetched user set",
		},
		{
			name:        "Rejected message includes operation and status",
			err:         Rejected("delete post", 500),
			wantMessage: "delete post rejected with status 500",
		},
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("card", 10),
			wantMessage: "card not found with id 10",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("id", "card id must be numeric"),
			wantMessage: "card id must be numeric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestTransportPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transport("list posts", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the original cause in %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("errors.Is should find ErrTransport in %v", err)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("title", "title is required")

	if err.Field != "title" {
		t.Errorf("Field = %q, want %q", err.Field, "title")
	}
}
