package account

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

const testSecret = "test-secret"

func TestContextTokenSource(t *testing.T) {
	src := NewContextTokenSource()

	_, err := src.Token(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingToken))

	_, err = src.Token(WithToken(context.Background(), "   "))
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingToken))

	token, err := src.Token(WithToken(context.Background(), "opaque-token"))
	require.NoError(t, err)
	require.Equal(t, "opaque-token", token)

	live := signToken(t, testSecret, jwt.MapClaims{"id": 7, "exp": time.Now().Add(time.Hour).Unix()})
	token, err = src.Token(WithToken(context.Background(), live))
	require.NoError(t, err)
	require.Equal(t, live, token)
}

func TestContextTokenSource_ExpiredMidPipeline(t *testing.T) {
	now := time.Now()
	token := signToken(t, testSecret, jwt.MapClaims{"id": 7, "exp": now.Add(time.Minute).Unix()})
	src := &ContextTokenSource{now: func() time.Time { return now }}
	ctx := WithToken(context.Background(), token)

	_, err := src.Token(ctx)
	require.NoError(t, err)

	src.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = src.Token(ctx)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingToken))
	require.Equal(t, "Auth token expired", apperrors.MessageOf(err))
}

func TestJWTResolver(t *testing.T) {
	repo := &stubRepo{users: map[int64]User{7: {ID: 7, Username: "ana", Credits: 3}}}
	resolver := NewJWTResolver(testSecret, repo, newTestLogger())
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name      string
		token     string
		wantFound bool
	}{
		{name: "valid id claim", token: signToken(t, testSecret, jwt.MapClaims{"id": 7, "exp": future}), wantFound: true},
		{name: "subject fallback", token: signToken(t, testSecret, jwt.MapClaims{"sub": "7", "exp": future}), wantFound: true},
		{name: "wrong secret", token: signToken(t, "other", jwt.MapClaims{"id": 7, "exp": future})},
		{name: "expired", token: signToken(t, testSecret, jwt.MapClaims{"id": 7, "exp": time.Now().Add(-time.Minute).Unix()})},
		{name: "missing exp", token: signToken(t, testSecret, jwt.MapClaims{"id": 7})},
		{name: "unknown user", token: signToken(t, testSecret, jwt.MapClaims{"id": 99, "exp": future})},
		{name: "garbage", token: "not-a-jwt"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			user, found, err := resolver.CurrentUser(context.Background(), tt.token)
			require.NoError(t, err)
			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				require.Equal(t, 3, user.Credits)
			}
		})
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRepo struct {
	users map[int64]User
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := s.users[id]
	return user, ok, nil
}
