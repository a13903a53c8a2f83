package siwe

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kurooo23/AsiqTIX/adapters/store"
	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/internal/eth"
	"github.com/Kurooo23/AsiqTIX/ports"
)

type wallet struct {
	key     *ecdsa.PrivateKey
	address string
}

func newWallet(t *testing.T) wallet {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return wallet{
		key:     key,
		address: core.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex()),
	}
}

func (w wallet) sign(t *testing.T, message string) string {
	t.Helper()

	sig, err := crypto.Sign(eth.PersonalHash([]byte(message)), w.key)
	require.NoError(t, err)
	sig[64] += 27 // wallet-style recovery id
	return hexutil.Encode(sig)
}

func buildMessage(domain, address, nonce string, chainID int64) string {
	msg := fmt.Sprintf("%s wants you to sign in with your Ethereum account:\n%s\n\nSign in to AsiqTIX.\n",
		domain, address)
	msg += fmt.Sprintf("\nURI: https://%s\nVersion: 1", domain)
	if chainID != 0 {
		msg += fmt.Sprintf("\nChain ID: %d", chainID)
	}
	msg += fmt.Sprintf("\nNonce: %s\nIssued At: %s", nonce, time.Now().UTC().Format(time.RFC3339))
	return msg
}

func setup(t *testing.T) (*store.MemoryStore, *Verifier, wallet) {
	t.Helper()

	nonces := store.NewMemoryStore(5 * time.Minute)
	verifier := NewVerifier(nonces, "app.asiqtix.io", 137)
	return nonces, verifier, newWallet(t)
}

func TestVerifySuccess(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	address, chainID, err := verifier.Verify(ctx, message, w.sign(t, message))
	require.NoError(t, err)
	assert.Equal(t, w.address, address)
	assert.EqualValues(t, 137, chainID)

	// The nonce was consumed.
	_, err = nonces.Peek(ctx, w.address)
	assert.ErrorIs(t, err, core.ErrNonceNotFound)
}

func TestVerifyReplayFails(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	signature := w.sign(t, message)

	_, _, err = verifier.Verify(ctx, message, signature)
	require.NoError(t, err)

	_, _, err = verifier.Verify(ctx, message, signature)
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

// rendezvousStore holds every Peek until all expected callers have peeked,
// so concurrent verifies all pass the nonce check before any may consume.
type rendezvousStore struct {
	ports.NonceStore
	peeked *sync.WaitGroup
}

func (s *rendezvousStore) Peek(ctx context.Context, address string) (string, error) {
	nonce, err := s.NonceStore.Peek(ctx, address)
	s.peeked.Done()
	s.peeked.Wait()
	return nonce, err
}

func TestVerifyConcurrentSubmissionsMintOneSession(t *testing.T) {
	nonces := store.NewMemoryStore(5 * time.Minute)
	w := newWallet(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	var peeked sync.WaitGroup
	peeked.Add(2)
	verifier := NewVerifier(&rendezvousStore{NonceStore: nonces, peeked: &peeked}, "app.asiqtix.io", 137)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	signature := w.sign(t, message)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, _, err := verifier.Verify(ctx, message, signature)
			results <- err
		}()
	}

	var successes int
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, core.ErrInvalidNonce)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestVerifyStaleNonceAfterReissue(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	old, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	// A second issue invalidates the first nonce.
	_, err = nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, old, 137)
	_, _, err = verifier.Verify(ctx, message, w.sign(t, message))
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

func TestVerifyAddressMismatch(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	other := newWallet(t)
	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	// Message claims w's address but is signed by another key.
	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	_, _, err = verifier.Verify(ctx, message, other.sign(t, message))
	assert.ErrorIs(t, err, core.ErrAddressMismatch)

	// No side effect: the nonce is still live.
	got, err := nonces.Peek(ctx, w.address)
	require.NoError(t, err)
	assert.Equal(t, nonce, got)
}

func TestVerifySignatureOverDifferentMessage(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	signature := w.sign(t, message+" tampered")

	_, _, err = verifier.Verify(ctx, message, signature)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrInvalidNonce)
}

func TestVerifyGarbageSignature(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	_, _, err = verifier.Verify(ctx, message, "0x1234")
	assert.ErrorIs(t, err, core.ErrBadSignature)
}

func TestVerifyDomainMismatch(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("evil.example.com", w.address, nonce, 137)
	_, _, err = verifier.Verify(ctx, message, w.sign(t, message))
	assert.ErrorIs(t, err, core.ErrDomainMismatch)
}

func TestVerifyChainMismatch(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 1)
	_, _, err = verifier.Verify(ctx, message, w.sign(t, message))
	assert.ErrorIs(t, err, core.ErrDomainMismatch)
}

func TestVerifyExpiredMessage(t *testing.T) {
	nonces, verifier, w := setup(t)
	ctx := context.Background()

	nonce, err := nonces.Issue(ctx, w.address)
	require.NoError(t, err)

	message := buildMessage("app.asiqtix.io", w.address, nonce, 137)
	message += "\nExpiration Time: " + time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)

	_, _, err = verifier.Verify(ctx, message, w.sign(t, message))
	assert.ErrorIs(t, err, core.ErrMessageExpired)

	// Failure before consumption leaves the nonce for a retry.
	got, err := nonces.Peek(ctx, w.address)
	require.NoError(t, err)
	assert.Equal(t, nonce, got)
}

func TestVerifyMalformedMessage(t *testing.T) {
	_, verifier, w := setup(t)

	_, _, err := verifier.Verify(context.Background(), "no useful fields here", w.sign(t, "no useful fields here"))
	assert.ErrorIs(t, err, core.ErrMalformedMessage)
}
