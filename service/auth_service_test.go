package service

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kurooo23/AsiqTIX/adapters/siwe"
	"github.com/Kurooo23/AsiqTIX/adapters/store"
	"github.com/Kurooo23/AsiqTIX/adapters/tokenizer"
	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/internal/eth"
)

// fakeAdmins is an in-memory AdminRegistry for tests.
type fakeAdmins struct {
	members map[string]bool
}

func newFakeAdmins(addresses ...string) *fakeAdmins {
	f := &fakeAdmins{members: make(map[string]bool)}
	for _, a := range addresses {
		f.members[core.NormalizeAddress(a)] = true
	}
	return f
}

func (f *fakeAdmins) IsAdmin(ctx context.Context, address string) (bool, error) {
	return f.members[core.NormalizeAddress(address)], nil
}

func (f *fakeAdmins) Add(ctx context.Context, address, note string) error {
	f.members[core.NormalizeAddress(address)] = true
	return nil
}

func (f *fakeAdmins) Remove(ctx context.Context, address string) error {
	delete(f.members, core.NormalizeAddress(address))
	return nil
}

func (f *fakeAdmins) List(ctx context.Context) ([]core.Admin, error) {
	var out []core.Admin
	for addr := range f.members {
		out = append(out, core.Admin{Address: addr})
	}
	return out, nil
}

func newAuthService(admins *fakeAdmins) *AuthService {
	nonces := store.NewMemoryStore(5 * time.Minute)
	verifier := siwe.NewVerifier(nonces, "app.asiqtix.io", 0)
	tk := tokenizer.NewJWTTokenizer([]byte("test-secret"), time.Hour)
	return NewAuthService(nonces, verifier, tk, admins)
}

func testWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, core.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func signMessage(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()

	sig, err := crypto.Sign(eth.PersonalHash([]byte(message)), key)
	require.NoError(t, err)
	sig[64] += 27
	return hexutil.Encode(sig)
}

func loginMessage(address, nonce string) string {
	return fmt.Sprintf(
		"app.asiqtix.io wants you to sign in with your Ethereum account:\n%s\n\nSign in to AsiqTIX.\n\nURI: https://app.asiqtix.io\nVersion: 1\nNonce: %s\nIssued At: %s",
		address, nonce, time.Now().UTC().Format(time.RFC3339))
}

func TestRequestNonceRejectsBadAddress(t *testing.T) {
	svc := newAuthService(newFakeAdmins())

	_, err := svc.RequestNonce(context.Background(), "0x123")
	assert.ErrorIs(t, err, core.ErrInvalidAddress)

	_, err = svc.RequestNonce(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestHandshakeCustomer(t *testing.T) {
	svc := newAuthService(newFakeAdmins())
	ctx := context.Background()
	key, address := testWallet(t)

	nonce, err := svc.RequestNonce(ctx, address)
	require.NoError(t, err)
	require.NotEmpty(t, nonce)

	message := loginMessage(address, nonce)
	identity, token, err := svc.Login(ctx, message, signMessage(t, key, message))
	require.NoError(t, err)
	assert.Equal(t, address, identity.Address)
	assert.Equal(t, []string{core.RoleCustomer}, identity.Roles)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity.Address, got.Address)
	assert.Equal(t, identity.Roles, got.Roles)
}

func TestHandshakeAdminRole(t *testing.T) {
	ctx := context.Background()
	key, address := testWallet(t)
	svc := newAuthService(newFakeAdmins(address))

	nonce, err := svc.RequestNonce(ctx, address)
	require.NoError(t, err)

	message := loginMessage(address, nonce)
	identity, _, err := svc.Login(ctx, message, signMessage(t, key, message))
	require.NoError(t, err)
	assert.Equal(t, []string{core.RoleAdmin}, identity.Roles)
	assert.True(t, identity.IsAdmin())
}

func TestHandshakeReplayRejected(t *testing.T) {
	svc := newAuthService(newFakeAdmins())
	ctx := context.Background()
	key, address := testWallet(t)

	nonce, err := svc.RequestNonce(ctx, address)
	require.NoError(t, err)

	message := loginMessage(address, nonce)
	signature := signMessage(t, key, message)

	_, _, err = svc.Login(ctx, message, signature)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, message, signature)
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

func TestHandshakeSecondNonceInvalidatesFirst(t *testing.T) {
	svc := newAuthService(newFakeAdmins())
	ctx := context.Background()
	key, address := testWallet(t)

	first, err := svc.RequestNonce(ctx, address)
	require.NoError(t, err)
	_, err = svc.RequestNonce(ctx, address)
	require.NoError(t, err)

	message := loginMessage(address, first)
	_, _, err = svc.Login(ctx, message, signMessage(t, key, message))
	assert.ErrorIs(t, err, core.ErrInvalidNonce)
}

func TestAllowListChangeDoesNotAffectIssuedSession(t *testing.T) {
	ctx := context.Background()
	key, address := testWallet(t)
	admins := newFakeAdmins(address)
	svc := newAuthService(admins)

	nonce, err := svc.RequestNonce(ctx, address)
	require.NoError(t, err)

	message := loginMessage(address, nonce)
	_, token, err := svc.Login(ctx, message, signMessage(t, key, message))
	require.NoError(t, err)

	// Dropping the address from the allow-list leaves the live session admin.
	require.NoError(t, admins.Remove(ctx, address))

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}
