package core

import "errors"

var (
	// ErrInvalidAddress is returned when a wallet address is not 0x + 40 hex digits.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrMalformedMessage is returned when a sign-in message is missing required fields.
	ErrMalformedMessage = errors.New("malformed sign-in message")

	// ErrBadSignature is returned when signature recovery fails for the submitted message.
	ErrBadSignature = errors.New("bad signature")

	// ErrAddressMismatch is returned when the recovered signer differs from the claimed address.
	ErrAddressMismatch = errors.New("address mismatch")

	// ErrInvalidNonce is returned when the nonce is absent, expired or does not match.
	ErrInvalidNonce = errors.New("invalid or expired nonce")

	// ErrDomainMismatch is returned when the message is bound to a different domain or chain.
	ErrDomainMismatch = errors.New("domain mismatch")

	// ErrMessageExpired is returned when the sign-in message's own validity window has passed.
	ErrMessageExpired = errors.New("sign-in message expired")

	// ErrNonceNotFound is returned by a nonce store when no live nonce exists for an address.
	ErrNonceNotFound = errors.New("nonce not found")

	// ErrInvalidToken is returned for malformed, tampered or expired session tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStoreOperationFailed is returned when an underlying store is unavailable.
	ErrStoreOperationFailed = errors.New("store operation failed")

	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")
)
