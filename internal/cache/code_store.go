package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore keeps pending verification codes and per-phone send counters.
// Values expire on their own; nothing here survives a cache flush.
type CodeStore interface {
	PutCode(ctx context.Context, phone string, code int, ttl time.Duration) error
	GetCode(ctx context.Context, phone string) (int, bool, error)
	DeleteCode(ctx context.Context, phone string) error
	IncrAttempts(ctx context.Context, phone string, window time.Duration) (int64, error)
	GetAttempts(ctx context.Context, phone string) (int64, error)
	ClearAttempts(ctx context.Context, phone string) error
}

const (
	codeKeyPrefix     = "verification"
	attemptsKeyPrefix = "sms_attempts"
)

// incrAttemptsScript bumps the counter and starts the window on the
// first increment only, so the window stays anchored at the first send.
var incrAttemptsScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count
`)

func hashPhone(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:])
}

func codeKey(phone string) string {
	return fmt.Sprintf("%s:%s", codeKeyPrefix, hashPhone(phone))
}

func attemptsKey(phone string) string {
	return fmt.Sprintf("%s:%s", attemptsKeyPrefix, hashPhone(phone))
}

// RedisCodeStore stores codes in redis under the configured prefix.
type RedisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore wraps the global redis client.
func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) PutCode(ctx context.Context, phone string, code int, ttl time.Duration) error {
	return s.client.Set(ctx, buildKey(codeKey(phone)), strconv.Itoa(code), ttl).Err()
}

func (s *RedisCodeStore) GetCode(ctx context.Context, phone string) (int, bool, error) {
	val, err := s.client.Get(ctx, buildKey(codeKey(phone))).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	code, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt verification code value: %w", err)
	}
	return code, true, nil
}

func (s *RedisCodeStore) DeleteCode(ctx context.Context, phone string) error {
	return s.client.Del(ctx, buildKey(codeKey(phone))).Err()
}

func (s *RedisCodeStore) IncrAttempts(ctx context.Context, phone string, window time.Duration) (int64, error) {
	seconds := int64(window / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	res, err := incrAttemptsScript.Run(ctx, s.client, []string{buildKey(attemptsKey(phone))}, seconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := res.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected attempts script result: %v", res)
	}
	return count, nil
}

func (s *RedisCodeStore) GetAttempts(ctx context.Context, phone string) (int64, error) {
	val, err := s.client.Get(ctx, buildKey(attemptsKey(phone))).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt attempts counter value: %w", err)
	}
	return count, nil
}

func (s *RedisCodeStore) ClearAttempts(ctx context.Context, phone string) error {
	return s.client.Del(ctx, buildKey(attemptsKey(phone))).Err()
}
