package ports

import "context"

// NonceStore issues and tracks single-use sign-in challenges keyed by wallet
// address. Implementations must keep at most one live nonce per address and
// treat expired entries as absent.
type NonceStore interface {
	// Issue generates a fresh nonce for the address, replacing any prior one.
	Issue(ctx context.Context, address string) (string, error)

	// Peek returns the live nonce for the address, or core.ErrNonceNotFound
	// when none exists or the stored entry has expired.
	Peek(ctx context.Context, address string) (string, error)

	// Consume deletes the entry for the address. Idempotent.
	Consume(ctx context.Context, address string) error

	// ConsumeIfMatch deletes the entry for the address only when the live
	// nonce equals the given value, reporting whether the delete happened.
	// The compare and delete are atomic, so concurrent callers presenting
	// the same nonce see at most one true result.
	ConsumeIfMatch(ctx context.Context, address, nonce string) (bool, error)
}
