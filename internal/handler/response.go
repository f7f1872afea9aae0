package handler

// Response helpers shared by all API endpoints. Every error body has the
// same two-field shape so the page script can always read error/message,
// whatever the status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rkovalev/cardwall/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable category, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must go out before the body; after Encode starts
// writing there is nothing left to change.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an application error to its HTTP status and sends the
// standard error body.
//
// The upstream-facing categories all land on 502: from the browser's point
// of view this server is a gateway to the real resource, and the operation
// failed on the far side of it. The card set was left untouched in those
// cases, so the page script keeps the document as it is and shows a notice.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrRejected):
			status = http.StatusBadGateway
			errorType = "upstream_rejected"
		case errors.Is(err, apperror.ErrTransport):
			status = http.StatusBadGateway
			errorType = "upstream_unreachable"
		case errors.Is(err, apperror.ErrJoin):
			status = http.StatusBadGateway
			errorType = "join_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — generic 500, no internals leaked to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
