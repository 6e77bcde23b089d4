package wallet

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/Layr-Labs/mugen-go/pkg/config"
	"github.com/Layr-Labs/mugen-go/pkg/types"
)

// seedPhraseMinWords is the word count above which a remote selector is read as a mnemonic.
const seedPhraseMinWords = 5

// Signer produces signatures over 32-byte digests on behalf of one address.
type Signer interface {
	Address() common.Address

	// SignHash returns a 65-byte [R || S || V] signature with V in {27, 28}.
	SignHash(hash []byte) ([]byte, error)
}

// PrivateKeySigner signs with an in-memory secp256k1 key.
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

var _ Signer = (*PrivateKeySigner)(nil)

// NewPrivateKeySigner parses a hex private key, with or without 0x prefix.
func NewPrivateKeySigner(privateKey string) (*PrivateKeySigner, error) {
	privateKey = strings.TrimPrefix(strings.TrimSpace(privateKey), "0x")
	if privateKey == "" {
		return nil, errors.New("private key cannot be empty")
	}
	key, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return newSignerFromKey(key), nil
}

// NewSeedPhraseSigner derives the first account (m/44'/60'/0'/0/0) of a BIP-39 mnemonic.
func NewSeedPhraseSigner(mnemonic string) (*PrivateKeySigner, error) {
	return NewSeedPhraseSignerAtPath(mnemonic, accounts.DefaultBaseDerivationPath.String())
}

func NewSeedPhraseSignerAtPath(mnemonic string, derivationPath string) (*PrivateKeySigner, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, errors.Wrap(err, "invalid seed phrase")
	}
	path, err := accounts.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid derivation path %s", derivationPath)
	}
	key, err := deriveKey(seed, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive key at %s", derivationPath)
	}
	return newSignerFromKey(key), nil
}

func newSignerFromKey(key *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

func (s *PrivateKeySigner) SignHash(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// PrivateKeyHex exposes the key for transaction signers. Never log the result.
func (s *PrivateKeySigner) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(s.key))
}

// Classify reports how selector will be interpreted for the target network.
func Classify(selector string, target config.NetworkTarget) config.CredentialKind {
	switch target {
	case config.NetworkTargetRemote:
		if len(strings.Fields(selector)) > seedPhraseMinWords {
			return config.CredentialKindSeedPhrase
		}
		return config.CredentialKindRawKey
	default:
		return config.CredentialKindRegistry
	}
}

// Resolve turns a wallet selector into a Signer. On the local network the selector
// must be a registry address; on the remote network it is a raw key or a mnemonic.
func Resolve(selector string, target config.NetworkTarget) (Signer, error) {
	return ResolveWithRegistry(selector, target, DefaultRegistry())
}

func ResolveWithRegistry(selector string, target config.NetworkTarget, registry *Registry) (Signer, error) {
	switch kind := Classify(selector, target); kind {
	case config.CredentialKindRegistry:
		account, ok := registry.Lookup(selector)
		if !ok {
			return nil, errors.Wrapf(types.ErrCredentialNotFound, "no private key found for wallet address %s", selector)
		}
		return NewPrivateKeySigner(account.PrivateKey)
	case config.CredentialKindSeedPhrase:
		return NewSeedPhraseSigner(selector)
	case config.CredentialKindRawKey:
		return NewPrivateKeySigner(selector)
	default:
		return nil, errors.Errorf("unsupported credential kind %s", kind)
	}
}
