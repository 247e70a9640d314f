package account

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Repository loads users and their credit balance.
type Repository interface {
	GetByID(ctx context.Context, id int64) (User, bool, error)
}

// JWTResolver verifies HS256 tokens issued by the CMS with a shared secret and
// loads the user record from a local repository.
type JWTResolver struct {
	secret []byte
	repo   Repository
	logger *slog.Logger
}

// NewJWTResolver constructs a JWTResolver.
func NewJWTResolver(secret string, repo Repository, logger *slog.Logger) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		repo:   repo,
		logger: logger.With("component", "account.jwt"),
	}
}

// CurrentUser implements Resolver.
func (r *JWTResolver) CurrentUser(ctx context.Context, token string) (User, bool, error) {
	if strings.TrimSpace(token) == "" {
		return User{}, false, nil
	}
	claims, err := r.parse(token)
	if err != nil {
		r.logger.Debug("token rejected", "error", err)
		return User{}, false, nil
	}
	return r.repo.GetByID(ctx, claims.UserID)
}

func (r *JWTResolver) parse(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, fmt.Errorf("token invalid")
	}
	userID := claims.UserID
	if userID == 0 && claims.Subject != "" {
		if id, convErr := strconv.ParseInt(claims.Subject, 10, 64); convErr == nil {
			userID = id
		}
	}
	if userID <= 0 {
		return Claims{}, fmt.Errorf("token has no user id")
	}
	return Claims{UserID: userID}, nil
}

// tokenClaims matches the Strapi users-permissions payload ({"id": 1}).
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id"`
}

var _ Resolver = (*JWTResolver)(nil)
