package numbering

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/facture/pkg/errors"
)

// DefaultRedisPrefix prefixes the per-year counter keys.
const DefaultRedisPrefix = "facture:seq:"

// RedisSequencer keeps one INCR counter per year, so several machines can
// share a numbering.
type RedisSequencer struct {
	client *redis.Client
	prefix string
}

// NewRedisSequencer wraps an existing client.
func NewRedisSequencer(client *redis.Client, prefix string) *RedisSequencer {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSequencer{client: client, prefix: prefix}
}

// DialRedis connects to addr and checks the connection with PING.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisSequencer, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", addr)
	}
	return NewRedisSequencer(client, prefix), nil
}

// Key returns the counter key of year.
func (s *RedisSequencer) Key(year int) string {
	return s.prefix + strconv.Itoa(year)
}

// Next implements Sequencer.
func (s *RedisSequencer) Next(ctx context.Context, year int) (int, error) {
	n, err := s.client.Incr(ctx, s.Key(year)).Result()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNetwork, err, "increment %s", s.Key(year))
	}
	return int(n), nil
}

// Close closes the underlying client.
func (s *RedisSequencer) Close() error {
	return s.client.Close()
}
