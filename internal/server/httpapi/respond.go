package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/and161185/msgdesk/internal/errs"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors onto HTTP status codes and a single
// human-readable notice.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor keeps the sentinel-to-status mapping in one place.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrEmptyBody), errors.Is(err, errs.ErrNameNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrWrongSecret), errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNotAuthorized),
		errors.Is(err, errs.ErrBanned),
		errors.Is(err, errs.ErrSenderBanned),
		errors.Is(err, errs.ErrRecipientBanned),
		errors.Is(err, errs.ErrCannotBanAdmin):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
