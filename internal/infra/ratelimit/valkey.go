package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore is a fixed one-minute window counter shared by every replica.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewValkeyStore admits requestsPerMinute+burst requests per key per minute.
func NewValkeyStore(client valkey.Client, prefix string, requestsPerMinute, burst int) *ValkeyStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &ValkeyStore{
		client: client,
		prefix: prefix,
		limit:  int64(requestsPerMinute + burst),
		window: time.Minute,
		now:    time.Now,
	}
}

// Allow implements Store.
func (s *ValkeyStore) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := s.windowKey(key)
	results := s.client.DoMulti(ctx,
		s.client.B().Incr().Key(windowKey).Build(),
		s.client.B().Expire().Key(windowKey).Seconds(int64(s.window/time.Second)).Build(),
	)
	count, err := results[0].AsInt64()
	if err != nil {
		return false, err
	}
	if err := results[1].Error(); err != nil {
		return false, err
	}
	return count <= s.limit, nil
}

func (s *ValkeyStore) windowKey(key string) string {
	window := s.now().Unix() / int64(s.window/time.Second)
	return s.prefix + ":" + key + ":" + strconv.FormatInt(window, 10)
}

var _ Store = (*ValkeyStore)(nil)
