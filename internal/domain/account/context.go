package account

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

type tokenKey struct{}

// WithToken stores the caller's bearer token on the request context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, strings.TrimSpace(token))
}

// TokenFromContext returns the bearer token stored by WithToken.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// ContextTokenSource reads the token from the request context on every call
// and rejects JWTs whose exp claim has already passed.
type ContextTokenSource struct {
	now func() time.Time
}

// NewContextTokenSource constructs the default TokenSource.
func NewContextTokenSource() *ContextTokenSource {
	return &ContextTokenSource{now: time.Now}
}

// Token implements TokenSource.
func (s *ContextTokenSource) Token(ctx context.Context) (string, error) {
	token := TokenFromContext(ctx)
	if token == "" {
		return "", apperrors.Wrap(apperrors.CodeMissingToken, "No auth token provided", nil)
	}
	if exp, ok := unverifiedExpiry(token); ok && !exp.After(s.now()) {
		return "", apperrors.Wrap(apperrors.CodeMissingToken, "Auth token expired", nil)
	}
	return token, nil
}

// unverifiedExpiry peeks at the exp claim without checking the signature; the
// backend that receives the token remains responsible for verifying it.
func unverifiedExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

var _ TokenSource = (*ContextTokenSource)(nil)
