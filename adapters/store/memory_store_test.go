package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kurooo23/AsiqTIX/core"
)

const testAddr = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func TestIssueThenPeek(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	nonce, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)
	assert.Len(t, nonce, nonceBytes*2)

	got, err := s.Peek(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, nonce, got)

	// Lookup is case-insensitive on the address.
	got, err = s.Peek(ctx, core.NormalizeAddress(testAddr))
	require.NoError(t, err)
	assert.Equal(t, nonce, got)
}

func TestReissueReplaces(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	first, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	second, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := s.Peek(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestConsumeIsIdempotent(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	_, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	require.NoError(t, s.Consume(ctx, testAddr))
	require.NoError(t, s.Consume(ctx, testAddr))

	_, err = s.Peek(ctx, testAddr)
	assert.ErrorIs(t, err, core.ErrNonceNotFound)
}

func TestExpiredNonceIsAbsent(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(time.Minute) }

	_, err = s.Peek(ctx, testAddr)
	assert.ErrorIs(t, err, core.ErrNonceNotFound)

	// The expired entry was purged on access.
	s.mu.Lock()
	_, ok := s.entries[core.NormalizeAddress(testAddr)]
	s.mu.Unlock()
	assert.False(t, ok)
}

func TestSweepPurgesExpired(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	s.sweep()

	s.mu.Lock()
	remaining := len(s.entries)
	s.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestPeekUnknownAddress(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	_, err := s.Peek(context.Background(), testAddr)
	assert.ErrorIs(t, err, core.ErrNonceNotFound)
}

func TestConsumeIfMatch(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	nonce, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	// A wrong value leaves the entry untouched.
	ok, err := s.ConsumeIfMatch(ctx, testAddr, "not-the-nonce")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Peek(ctx, testAddr)
	require.NoError(t, err)
	assert.Equal(t, nonce, got)

	// The matching value deletes it, exactly once.
	ok, err = s.ConsumeIfMatch(ctx, testAddr, nonce)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ConsumeIfMatch(ctx, testAddr, nonce)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Peek(ctx, testAddr)
	assert.ErrorIs(t, err, core.ErrNonceNotFound)
}

func TestConsumeIfMatchExpired(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }

	nonce, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }

	ok, err := s.ConsumeIfMatch(ctx, testAddr, nonce)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsumeIfMatchConcurrent(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	nonce, err := s.Issue(ctx, testAddr)
	require.NoError(t, err)

	const callers = 16
	wins := make(chan bool, callers)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < callers; i++ {
		go func() {
			start.Wait()
			ok, err := s.ConsumeIfMatch(ctx, testAddr, nonce)
			assert.NoError(t, err)
			wins <- ok
		}()
	}
	start.Done()

	var winners int
	for i := 0; i < callers; i++ {
		if <-wins {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
