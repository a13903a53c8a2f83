package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// nonceBytes is the entropy of each issued nonce.
const nonceBytes = 16

type nonceRecord struct {
	nonce     string
	expiresAt time.Time
}

// MemoryStore is an in-process NonceStore for single-instance deployments
// and tests. Expired entries are purged lazily on Peek and by an optional
// background sweep.
type MemoryStore struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]nonceRecord
}

// NewMemoryStore creates a MemoryStore with the given nonce TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]nonceRecord),
	}
}

// Issue generates a fresh nonce for the address, overwriting any prior entry.
func (s *MemoryStore) Issue(ctx context.Context, address string) (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[core.NormalizeAddress(address)] = nonceRecord{
		nonce:     nonce,
		expiresAt: s.now().Add(s.ttl),
	}
	return nonce, nil
}

// Peek returns the live nonce for the address. Expired entries are deleted
// and reported as absent.
func (s *MemoryStore) Peek(ctx context.Context, address string) (string, error) {
	key := core.NormalizeAddress(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[key]
	if !ok {
		return "", core.ErrNonceNotFound
	}
	if !s.now().Before(rec.expiresAt) {
		delete(s.entries, key)
		return "", core.ErrNonceNotFound
	}
	return rec.nonce, nil
}

// Consume deletes the entry for the address. Idempotent.
func (s *MemoryStore) Consume(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, core.NormalizeAddress(address))
	return nil
}

// ConsumeIfMatch deletes the entry only when its live nonce equals nonce.
// Compare and delete happen under the lock, so one of any set of concurrent
// callers wins and the rest see false.
func (s *MemoryStore) ConsumeIfMatch(ctx context.Context, address, nonce string) (bool, error) {
	key := core.NormalizeAddress(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[key]
	if !ok || !s.now().Before(rec.expiresAt) || rec.nonce != nonce {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// StartSweep purges expired entries every interval until ctx is done. The
// sweep holds the lock only while scanning, so foreground calls are never
// blocked beyond normal mutex contention.
func (s *MemoryStore) StartSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *MemoryStore) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, rec := range s.entries {
		if !now.Before(rec.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func generateNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var _ ports.NonceStore = (*MemoryStore)(nil)
