package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, msg []byte) (string, string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(PersonalHash(msg), key)
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(key.PublicKey)
	return addr.Hex(), hexutil.Encode(sig)
}

func TestRecoverAddress(t *testing.T) {
	msg := []byte("asiqtix login test")
	addr, sig := signPersonal(t, msg)

	recovered, err := RecoverAddress(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, recovered.Hex())
}

func TestRecoverAddressWalletV(t *testing.T) {
	// Browser wallets report V as 27/28 rather than 0/1.
	msg := []byte("asiqtix login test")
	addr, sigHex := signPersonal(t, msg)

	sig, err := hexutil.Decode(sigHex)
	require.NoError(t, err)
	sig[64] += 27

	recovered, err := RecoverAddress(msg, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, addr, recovered.Hex())
}

func TestRecoverAddressDifferentMessage(t *testing.T) {
	addr, sig := signPersonal(t, []byte("the message that was signed"))

	recovered, err := RecoverAddress([]byte("a different message"), sig)
	if err == nil {
		// Recovery over different bytes yields some other address, never the signer.
		assert.NotEqual(t, addr, recovered.Hex())
	}
}

func TestRecoverAddressRejectsGarbage(t *testing.T) {
	_, err := RecoverAddress([]byte("msg"), "not-hex")
	assert.Error(t, err)

	_, err = RecoverAddress([]byte("msg"), "0x0102")
	assert.Error(t, err)
}
