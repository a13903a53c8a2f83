package siwe

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Kurooo23/AsiqTIX/core"
	"github.com/Kurooo23/AsiqTIX/internal/eth"
	"github.com/Kurooo23/AsiqTIX/ports"
)

// Verifier checks sign-in messages against the nonce store. When Domain or
// ChainID are set, messages carrying those fields must match them.
type Verifier struct {
	nonces  ports.NonceStore
	domain  string
	chainID int64
	now     func() time.Time
}

// NewVerifier creates a Verifier bound to the given nonce store and optional
// expected domain and chain id.
func NewVerifier(nonces ports.NonceStore, domain string, chainID int64) *Verifier {
	return &Verifier{
		nonces:  nonces,
		domain:  domain,
		chainID: chainID,
		now:     time.Now,
	}
}

// Verify validates message and signature and, on full success, consumes the
// nonce and returns the proven address with any chain id from the message.
// Each check short-circuits; no failure path touches the nonce.
func (v *Verifier) Verify(ctx context.Context, message, signature string) (string, int64, error) {
	msg, err := Parse(message)
	if err != nil {
		return "", 0, err
	}

	recovered, err := eth.RecoverAddress([]byte(message), signature)
	if err != nil {
		return "", 0, core.ErrBadSignature
	}
	if recovered == (common.Address{}) || !core.IsValidAddress(recovered.Hex()) {
		return "", 0, core.ErrBadSignature
	}

	address := core.NormalizeAddress(recovered.Hex())
	if address != msg.Address {
		return "", 0, core.ErrAddressMismatch
	}

	stored, err := v.nonces.Peek(ctx, address)
	if err != nil {
		if errors.Is(err, core.ErrNonceNotFound) {
			return "", 0, core.ErrInvalidNonce
		}
		return "", 0, err
	}
	if stored != msg.Nonce {
		return "", 0, core.ErrInvalidNonce
	}

	if v.domain != "" && msg.Domain != "" && msg.Domain != v.domain {
		return "", 0, core.ErrDomainMismatch
	}
	if v.chainID != 0 && msg.ChainID != 0 && msg.ChainID != v.chainID {
		return "", 0, core.ErrDomainMismatch
	}

	now := v.now()
	if !msg.ExpirationTime.IsZero() && !now.Before(msg.ExpirationTime) {
		return "", 0, core.ErrMessageExpired
	}
	if !msg.IssuedAt.IsZero() && msg.IssuedAt.After(now.Add(5*time.Minute)) {
		// Issued-at far in the future means broken client clocks or replay prep.
		return "", 0, core.ErrMessageExpired
	}

	// The compare-and-delete is the authoritative single-use check; the
	// earlier Peek only rejects cheap failures without burning the nonce.
	ok, err := v.nonces.ConsumeIfMatch(ctx, address, msg.Nonce)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		return "", 0, core.ErrInvalidNonce
	}

	return address, msg.ChainID, nil
}

var _ ports.SignatureVerifier = (*Verifier)(nil)
