package wallet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/mugen-go/pkg/config"
	"github.com/Layr-Labs/mugen-go/pkg/types"
)

const devnetMnemonic = "test test test test test test test test test test test junk"

func TestDefaultRegistry_KeysMatchAddresses(t *testing.T) {
	registry := DefaultRegistry()
	require.Len(t, registry.Accounts(), 10)

	for _, account := range registry.Accounts() {
		signer, err := NewPrivateKeySigner(account.PrivateKey)
		require.NoError(t, err)
		assert.Equal(t, account.Address, signer.Address(), "registry entry %s", account.Address.Hex())
	}
}

func TestResolve_Local(t *testing.T) {
	tests := []struct {
		name        string
		selector    string
		expectedErr error
	}{
		{
			name:     "checksummed address",
			selector: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		},
		{
			name:     "lowercase address",
			selector: strings.ToLower("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		},
		{
			name:        "unknown address",
			selector:    "0x0000000000000000000000000000000000000001",
			expectedErr: types.ErrCredentialNotFound,
		},
		{
			name:        "raw key is not accepted locally",
			selector:    "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
			expectedErr: types.ErrCredentialNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer, err := Resolve(tt.selector, config.NetworkTargetLocal)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, signer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signer.Address().Hex())
		})
	}
}

func TestResolve_Remote(t *testing.T) {
	t.Run("raw key with prefix", func(t *testing.T) {
		signer, err := Resolve("0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", config.NetworkTargetRemote)
		require.NoError(t, err)
		assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signer.Address().Hex())
	})

	t.Run("raw key without prefix", func(t *testing.T) {
		signer, err := Resolve("59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", config.NetworkTargetRemote)
		require.NoError(t, err)
		assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signer.Address().Hex())
	})

	t.Run("seed phrase", func(t *testing.T) {
		signer, err := Resolve(devnetMnemonic, config.NetworkTargetRemote)
		require.NoError(t, err)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", signer.Address().Hex())
	})

	t.Run("invalid seed phrase", func(t *testing.T) {
		_, err := Resolve("one two three four five six", config.NetworkTargetRemote)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid seed phrase")
	})

	t.Run("garbage key", func(t *testing.T) {
		_, err := Resolve("not-a-key", config.NetworkTargetRemote)
		require.Error(t, err)
	})
}

func TestSeedPhraseSigner_SecondAccount(t *testing.T) {
	signer, err := NewSeedPhraseSignerAtPath(devnetMnemonic, "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signer.Address().Hex())
}

func TestSeedPhraseSigner_MatchesRegistry(t *testing.T) {
	for i, account := range DefaultRegistry().Accounts()[:4] {
		signer, err := NewSeedPhraseSignerAtPath(devnetMnemonic, fmt.Sprintf("m/44'/60'/0'/0/%d", i))
		require.NoError(t, err)
		assert.Equal(t, account.Address, signer.Address(), "account %d", i)
	}
}

func TestSeedPhraseSigner_InvalidPath(t *testing.T) {
	_, err := NewSeedPhraseSignerAtPath(devnetMnemonic, "m/not/a/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid derivation path")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, config.CredentialKindRegistry, Classify(devnetMnemonic, config.NetworkTargetLocal))
	assert.Equal(t, config.CredentialKindSeedPhrase, Classify(devnetMnemonic, config.NetworkTargetRemote))
	assert.Equal(t, config.CredentialKindRawKey, Classify("0xabc", config.NetworkTargetRemote))
	// exactly five words is still a raw key
	assert.Equal(t, config.CredentialKindRawKey, Classify("a b c d e", config.NetworkTargetRemote))
}

func TestPrivateKeySigner_SignHashRecovers(t *testing.T) {
	signer, err := NewPrivateKeySigner(DefaultRegistry().ServiceAccount().PrivateKey)
	require.NoError(t, err)

	hash := crypto.Keccak256([]byte("mugen"))
	sig, err := signer.SignHash(hash)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	require.Contains(t, []byte{27, 28}, sig[64])

	raw := make([]byte, 65)
	copy(raw, sig)
	raw[64] -= 27
	pub, err := crypto.SigToPub(hash, raw)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))
}
