package ratelimit

import "context"

// Store decides whether one more request for key fits the configured budget.
type Store interface {
	Allow(ctx context.Context, key string) (bool, error)
}
