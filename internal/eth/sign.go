// Package eth wraps the go-ethereum primitives needed to verify
// personal_sign (EIP-191) signatures produced by browser wallets.
package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the expected byte length of a wallet signature (r || s || v).
const SignatureLength = 65

// PersonalHash returns the EIP-191 hash wallets sign for personal_sign:
// keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
func PersonalHash(msg []byte) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	return crypto.Keccak256([]byte(prefixed))
}

// RecoverAddress recovers the address that produced a personal_sign signature
// over msg. The signature is hex-encoded with either a 0/1 or 27/28 recovery id.
func RecoverAddress(msg []byte, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}

	// Wallets emit V as 27/28; crypto.SigToPub expects 0/1.
	v := sig[SignatureLength-1]
	if v == 27 || v == 28 {
		sig = append(append([]byte{}, sig[:SignatureLength-1]...), v-27)
	}

	pub, err := crypto.SigToPub(PersonalHash(msg), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}
