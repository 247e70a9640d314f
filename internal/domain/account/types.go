package account

import "context"

// User is the current-user view the summarizer needs from the auth collaborator.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Credits  int    `json:"credits"`
}

// Resolver resolves the user behind a bearer token. found is false when the
// token does not identify a user; err is reserved for infrastructure failures.
type Resolver interface {
	CurrentUser(ctx context.Context, token string) (user User, found bool, err error)
}

// TokenSource returns the bearer token to use for an outbound write.
// Implementations must re-read the token on every call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Claims are extracted from a locally verified JWT.
type Claims struct {
	UserID int64
}
