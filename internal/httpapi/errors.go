package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/luarss/cea-live/internal/apperr"
)

// errorBody is the JSON shape every failed request receives, keyed by
// the apperr.Error's machine-readable code rather than its category so
// clients can branch on specific failures.
type errorBody struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	} `json:"error"`
}

// statusForError maps an apperr.Category to the one HTTP status that
// category ever produces, so the mapping can't drift per endpoint.
func statusForError(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch apperr.CategoryOf(err) {
	case apperr.CategoryInvalidArgument:
		return http.StatusBadRequest
	case apperr.CategoryNotFound:
		return http.StatusNotFound
	case apperr.CategoryTimeout:
		return http.StatusGatewayTimeout
	case apperr.CategoryNotModified:
		return http.StatusNotModified
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as the standard JSON error body at the
// status its category maps to.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperr.ErrQueryBudgetExceeded.Wrap(err)
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.ErrInternal.Wrap(err)
	}

	var body errorBody
	body.Error.Code = appErr.Code
	body.Error.Message = appErr.Message
	body.Error.Details = appErr.Details

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForError(appErr))
	_ = json.NewEncoder(w).Encode(body)
}

// apperrInternalFrom wraps a recovered panic value as an internal
// error for recoverMiddleware.
func apperrInternalFrom(rec interface{}) error {
	return apperr.ErrInternal.Wrap(fmt.Errorf("panic: %v", rec))
}
