// Package token issues and verifies signed bearer tokens that bind a caller
// to an email address.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims embeds the caller's email next to the registered JWT claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service signs tokens with a shared HMAC secret. It holds no mutable state.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a Service. A non-positive ttl defaults to one hour.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for email expiring after the configured ttl.
func (s *Service) Issue(email string) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns the embedded email.
func (s *Service) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingToken
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

// FromHeader extracts the token from an "Authorization: Bearer <token>" header.
func FromHeader(h http.Header) (string, error) {
	auth := strings.TrimSpace(h.Get("Authorization"))
	if auth == "" {
		return "", ErrMissingToken
	}
	scheme, raw, _ := strings.Cut(auth, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidToken
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingToken
	}
	return raw, nil
}
