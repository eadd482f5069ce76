package rate

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is an [AttemptStore] backed by Redis sorted sets, for
// deployments that share limiter state across processes. Every operation
// fails open: a Redis error is logged through warn and treated as "no data",
// so a backend outage can never lock a user out or crash a sign-in path.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	warn   func(msg string, args ...any)
	seq    atomic.Uint64
}

// NewRedisStore creates a Redis-backed attempt store. A nil warn discards
// diagnostics.
func NewRedisStore(client redis.UniversalClient, prefix string, warn func(string, ...any)) *RedisStore {
	if prefix == "" {
		prefix = "sgn"
	}
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		warn:   warn,
	}
}

func (s *RedisStore) attemptsKey(key string) string {
	return s.prefix + ":att:" + key
}

func (s *RedisStore) cooldownKey(key string) string {
	return s.prefix + ":cd:" + key
}

func (s *RedisStore) Attempts(ctx context.Context, key string, since time.Time) []time.Time {
	members, err := s.redis.ZRangeByScore(ctx, s.attemptsKey(key), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixNano(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		s.warn("goSignin: redis attempt read failed", "error", err)
		return nil
	}

	out := make([]time.Time, 0, len(members))
	for _, m := range members {
		nanos, err := strconv.ParseInt(memberTimestamp(m), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, time.Unix(0, nanos))
	}
	return out
}

func (s *RedisStore) AddAttempt(ctx context.Context, key string, at, keepSince time.Time) {
	rkey := s.attemptsKey(key)
	// Sequence suffix keeps members unique when two attempts land on the
	// same nanosecond.
	member := strconv.FormatInt(at.UnixNano(), 10) + "#" + strconv.FormatUint(s.seq.Add(1), 10)

	pipe := s.redis.TxPipeline()
	pipe.ZAdd(ctx, rkey, redis.Z{Score: float64(at.UnixNano()), Member: member})
	pipe.ZRemRangeByScore(ctx, rkey, "-inf", "("+strconv.FormatInt(keepSince.UnixNano(), 10))
	pipe.Expire(ctx, rkey, 2*at.Sub(keepSince))
	if _, err := pipe.Exec(ctx); err != nil {
		s.warn("goSignin: redis attempt write failed", "error", err)
	}
}

func (s *RedisStore) ClearAttempts(ctx context.Context, key string) {
	if err := s.redis.Del(ctx, s.attemptsKey(key)).Err(); err != nil {
		s.warn("goSignin: redis attempt clear failed", "error", err)
	}
}

func (s *RedisStore) Cooldown(ctx context.Context, key string) (time.Time, bool) {
	val, err := s.redis.Get(ctx, s.cooldownKey(key)).Result()
	if err != nil {
		if err != redis.Nil {
			s.warn("goSignin: redis cooldown read failed", "error", err)
		}
		return time.Time{}, false
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, nanos), true
}

func (s *RedisStore) SetCooldown(ctx context.Context, key string, until time.Time) {
	ttl := time.Until(until)
	if ttl <= 0 {
		ttl = time.Second
	}
	err := s.redis.Set(ctx, s.cooldownKey(key), strconv.FormatInt(until.UnixNano(), 10), ttl).Err()
	if err != nil {
		s.warn("goSignin: redis cooldown write failed", "error", err)
	}
}

func (s *RedisStore) ClearCooldown(ctx context.Context, key string) {
	if err := s.redis.Del(ctx, s.cooldownKey(key)).Err(); err != nil {
		s.warn("goSignin: redis cooldown clear failed", "error", err)
	}
}

func memberTimestamp(member string) string {
	for i := 0; i < len(member); i++ {
		if member[i] == '#' {
			return member[:i]
		}
	}
	return member
}
