package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/token"
)

// ErrForbidden is returned when a valid token belongs to someone other than
// the identity the request asks about.
var ErrForbidden = errors.New("forbidden: token does not match requested email")

// Verifier resolves a bearer token to the email it was issued for.
type Verifier interface {
	Verify(raw string) (string, error)
}

// Authorize decides whether a request with the given headers may read data
// belonging to claimedEmail. It returns nil, token.ErrMissingToken,
// token.ErrInvalidToken or ErrForbidden and has no side effects.
func Authorize(h http.Header, claimedEmail string, v Verifier) error {
	raw, err := token.FromHeader(h)
	if err != nil {
		return err
	}
	email, err := v.Verify(raw)
	if err != nil {
		return err
	}
	if normalizeEmail(email) != normalizeEmail(claimedEmail) {
		return ErrForbidden
	}
	return nil
}

// RequireIdentity runs Authorize against the "email" query parameter before
// the wrapped handler. Failures stop the request with 401 or 403.
func RequireIdentity(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := Authorize(r.Header, r.URL.Query().Get("email"), v)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrForbidden):
				writeError(w, http.StatusForbidden, "forbidden access")
			case errors.Is(err, token.ErrMissingToken):
				writeError(w, http.StatusUnauthorized, "unauthorized access: missing token")
			default:
				writeError(w, http.StatusUnauthorized, "unauthorized access: invalid token")
			}
		})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
