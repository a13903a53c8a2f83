package ports

import (
	"context"

	"github.com/Kurooo23/AsiqTIX/core"
)

// Tokenizer converts verified identities to and from session credentials.
type Tokenizer interface {
	// Issue produces a signed, time-bounded token embedding the identity.
	Issue(identity core.Identity) (string, error)

	// Verify parses and validates a token, returning the embedded identity.
	// Fails with core.ErrInvalidToken for malformed, tampered or expired input.
	Verify(token string) (core.Identity, error)
}

// SignatureVerifier checks a raw sign-in message and signature against the
// nonce on record and, on success, consumes the nonce and returns the proven
// address plus any chain identifier from the message. Every failure path
// leaves the nonce untouched.
type SignatureVerifier interface {
	Verify(ctx context.Context, message, signature string) (address string, chainID int64, err error)
}
