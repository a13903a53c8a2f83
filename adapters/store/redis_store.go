package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// RedisStore is a NonceStore backed by redis for multi-instance deployments.
// Single-key commands give the per-address atomicity the handshake needs;
// expiry is delegated to redis TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a RedisStore with the given nonce TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "asiqtix:nonce:",
	}
}

// Issue generates a fresh nonce for the address, overwriting any prior entry.
func (s *RedisStore) Issue(ctx context.Context, address string) (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}

	key := s.prefix + core.NormalizeAddress(address)
	if err := s.client.Set(ctx, key, nonce, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nonce, nil
}

// Peek returns the live nonce for the address.
func (s *RedisStore) Peek(ctx context.Context, address string) (string, error) {
	key := s.prefix + core.NormalizeAddress(address)

	nonce, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", core.ErrNonceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nonce, nil
}

// Consume deletes the entry for the address. Idempotent.
func (s *RedisStore) Consume(ctx context.Context, address string) error {
	key := s.prefix + core.NormalizeAddress(address)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}

// consumeIfMatchScript deletes the key only when it still holds the expected
// value. Running as a script keeps the compare and delete atomic across
// instances sharing the store.
var consumeIfMatchScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ConsumeIfMatch deletes the entry only when its live nonce equals nonce,
// reporting whether the delete happened.
func (s *RedisStore) ConsumeIfMatch(ctx context.Context, address, nonce string) (bool, error) {
	key := s.prefix + core.NormalizeAddress(address)

	n, err := consumeIfMatchScript.Run(ctx, s.client, []string{key}, nonce).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return n == 1, nil
}

var _ ports.NonceStore = (*RedisStore)(nil)
