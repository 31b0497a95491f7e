package token

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	svc := NewService("secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		tok, err := svc.Issue("alice@x.com")
		require.NoError(t, err)

		email, err := svc.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "alice@x.com", email)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Verify("")
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewService("other", time.Hour).Issue("alice@x.com")
		require.NoError(t, err)

		_, err = svc.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewService("secret", time.Hour)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := old.Issue("alice@x.com")
		require.NoError(t, err)

		_, err = svc.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expires after one hour", func(t *testing.T) {
		issuedAt := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
		s := NewService("secret", 0)
		s.now = func() time.Time { return issuedAt }
		tok, err := s.Issue("alice@x.com")
		require.NoError(t, err)

		s.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
		_, err = s.Verify(tok)
		require.NoError(t, err)

		s.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
		_, err = s.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		claims := &Claims{
			Email: "alice@x.com",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer", header: "Bearer abc", want: "abc"},
		{name: "lower case scheme", header: "bearer abc", want: "abc"},
		{name: "absent", header: "", wantErr: ErrMissingToken},
		{name: "empty token", header: "Bearer  ", wantErr: ErrMissingToken},
		{name: "basic scheme", header: "Basic abc", wantErr: ErrInvalidToken},
		{name: "no scheme", header: "abc", wantErr: ErrInvalidToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set("Authorization", tc.header)
			}
			got, err := FromHeader(h)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
