package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/msgdesk/internal/errs"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.ErrEmptyBody, http.StatusBadRequest},
		{errs.ErrNameNotAllowed, http.StatusBadRequest},
		{errs.ErrNameTaken, http.StatusConflict},
		{errs.ErrNotFound, http.StatusNotFound},
		{errs.ErrWrongSecret, http.StatusUnauthorized},
		{errs.ErrUnauthenticated, http.StatusUnauthorized},
		{errs.ErrNotAuthorized, http.StatusForbidden},
		{errs.ErrBanned, http.StatusForbidden},
		{errs.ErrSenderBanned, http.StatusForbidden},
		{errs.ErrRecipientBanned, http.StatusForbidden},
		{errs.ErrCannotBanAdmin, http.StatusForbidden},
		{errs.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, statusFor(c.err), "err=%v", c.err)
	}
}
