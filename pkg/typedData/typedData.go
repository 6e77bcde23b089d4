package typedData

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/Layr-Labs/mugen-go/pkg/config"
)

const (
	DomainName    = "Cartesi"
	DomainVersion = "0.1.0"
	PrimaryType   = "CartesiMessage"
)

// MaxGasPrice is the fixed gas price ceiling declared in every message. It is not
// compared with live gas prices.
var MaxGasPrice = big.NewInt(10)

type Domain struct {
	Name              string
	Version           string
	ChainId           *big.Int
	VerifyingContract common.Address
}

type Message struct {
	App         common.Address
	Nonce       uint64
	MaxGasPrice *big.Int
	Data        string
}

// TypedMessage is the EIP-712 structure signed for every relayed input. Build a new
// one per submission.
type TypedMessage struct {
	Domain  Domain
	Message Message
}

// Types returns the EIP-712 type definitions of a CartesiMessage.
func Types() apitypes.Types {
	return apitypes.Types{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		PrimaryType: {
			{Name: "app", Type: "address"},
			{Name: "nonce", Type: "uint64"},
			{Name: "max_gas_price", Type: "uint128"},
			{Name: "data", Type: "bytes"},
		},
	}
}

// Build assembles the message for app with the nonce issued by the authority and the
// already encoded payload. The verifying contract is always the zero address.
func Build(app common.Address, nonce uint64, data string, chainId uint64) *TypedMessage {
	return &TypedMessage{
		Domain: Domain{
			Name:              DomainName,
			Version:           DomainVersion,
			ChainId:           new(big.Int).SetUint64(chainId),
			VerifyingContract: common.Address{},
		},
		Message: Message{
			App:         app,
			Nonce:       nonce,
			MaxGasPrice: new(big.Int).Set(MaxGasPrice),
			Data:        data,
		},
	}
}

func (m *TypedMessage) ToApiTypes() apitypes.TypedData {
	return apitypes.TypedData{
		Types:       Types(),
		PrimaryType: PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              m.Domain.Name,
			Version:           m.Domain.Version,
			ChainId:           (*math.HexOrDecimal256)(m.Domain.ChainId),
			VerifyingContract: m.Domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"app":           m.Message.App.Hex(),
			"nonce":         new(big.Int).SetUint64(m.Message.Nonce),
			"max_gas_price": m.Message.MaxGasPrice,
			"data":          m.Message.Data,
		},
	}
}

// Hash returns the domain separated EIP-712 digest to sign.
func (m *TypedMessage) Hash() ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(m.ToApiTypes())
	if err != nil {
		return nil, fmt.Errorf("failed to hash typed data: %w", err)
	}
	return hash, nil
}

// EncodePayload turns user input into the hex payload carried in Message.Data.
// UTF-8 text is hex encoded; hex input is passed through with a 0x prefix added when
// missing.
func EncodePayload(encoding config.InputEncoding, input string) (string, error) {
	switch encoding {
	case config.InputEncodingUtf8:
		return hexutil.Encode([]byte(input)), nil
	case config.InputEncodingHex:
		if strings.HasPrefix(input, "0x") {
			return input, nil
		}
		return "0x" + input, nil
	default:
		return "", fmt.Errorf("unsupported input encoding %s", encoding)
	}
}
