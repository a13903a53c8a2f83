package siwe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kurooo23/AsiqTIX/core"
)

const fullMessage = `app.asiqtix.io wants you to sign in with your Ethereum account:
0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B

Sign in to AsiqTIX.

URI: https://app.asiqtix.io
Version: 1
Chain ID: 137
Nonce: 32891756f0a1b2c3
Issued At: 2026-08-30T10:00:00Z
Expiration Time: 2026-08-30T10:05:00Z`

func TestParseFullMessage(t *testing.T) {
	msg, err := Parse(fullMessage)
	require.NoError(t, err)

	assert.Equal(t, "app.asiqtix.io", msg.Domain)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", msg.Address)
	assert.Equal(t, "https://app.asiqtix.io", msg.URI)
	assert.Equal(t, "1", msg.Version)
	assert.EqualValues(t, 137, msg.ChainID)
	assert.Equal(t, "32891756f0a1b2c3", msg.Nonce)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), msg.IssuedAt)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 5, 0, 0, time.UTC), msg.ExpirationTime)
	assert.Equal(t, fullMessage, msg.Raw)
}

func TestParseLiteMessage(t *testing.T) {
	raw := "Login to AsiqTIX with wallet 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B\nNonce: deadbeef00112233"

	msg, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", msg.Address)
	assert.Equal(t, "deadbeef00112233", msg.Nonce)
	assert.Empty(t, msg.Domain)
	assert.Zero(t, msg.ChainID)
}

func TestParseMissingNonce(t *testing.T) {
	_, err := Parse("sign in as 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	assert.ErrorIs(t, err, core.ErrMalformedMessage)
}

func TestParseMissingAddress(t *testing.T) {
	_, err := Parse("please sign in\nNonce: deadbeef00112233")
	assert.ErrorIs(t, err, core.ErrMalformedMessage)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, core.ErrMalformedMessage)
}
