package decoder

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	destination = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	sender      = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	receiver    = common.HexToAddress("0xABCD000000000000000000000000000000001234")
)

func nestedCall(t *testing.T, id string, values ...interface{}) []byte {
	t.Helper()
	sel, ok := selectors[id]
	require.True(t, ok, "selector %s", id)
	packed, err := sel.Args.Pack(values...)
	require.NoError(t, err)
	selector, err := hex.DecodeString(id)
	require.NoError(t, err)
	return append(selector, packed...)
}

func voucher(t *testing.T, value int64, nested []byte) []byte {
	t.Helper()
	payload, err := outputsABI.Pack("Voucher", destination, big.NewInt(value), nested)
	require.NoError(t, err)
	return payload
}

func TestSelectors_MatchSignatures(t *testing.T) {
	for _, sel := range Selectors() {
		t.Run(sel.Name, func(t *testing.T) {
			assert.Equal(t, sel.Id, hex.EncodeToString(crypto.Keccak256([]byte(sel.Name))[:4]))
		})
	}
	assert.Len(t, Selectors(), 8)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		payload  func(t *testing.T) []byte
		expected string
	}{
		{
			name: "erc20 transfer",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "a9059cbb", receiver, big.NewInt(1000)))
			},
			expected: "Erc20 Transfer - Amount: 1000 - Address: " + receiver.Hex(),
		},
		{
			name: "erc721 transfer",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "42842e0e", sender, receiver, big.NewInt(7)))
			},
			expected: "Erc721 Transfer - Id: 7 - Address: " + receiver.Hex(),
		},
		{
			name: "erc1155 single transfer",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "f242432a", sender, receiver, big.NewInt(3), big.NewInt(50)))
			},
			expected: "Erc1155 Single Transfer - Id: 3 Amount: 50 - Address: " + receiver.Hex(),
		},
		{
			name: "erc1155 batch transfer",
			payload: func(t *testing.T) []byte {
				ids := []*big.Int{big.NewInt(1), big.NewInt(2)}
				amounts := []*big.Int{big.NewInt(10), big.NewInt(20)}
				return voucher(t, 0, nestedCall(t, "2eb2c2d6", sender, receiver, ids, amounts))
			},
			expected: "Erc1155 Batch Transfer - Ids: 1,2 Amounts: 10,20 - Address: " + receiver.Hex(),
		},
		{
			name: "erc721 mint with uri",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "d0def521", receiver, "ipfs://token"))
			},
			expected: "Mint Erc721 - String: ipfs://token - Address: " + receiver.Hex(),
		},
		{
			name: "string value containing placeholders is kept verbatim",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "d0def521", receiver, "token-{2}-{3}-{0}"))
			},
			expected: "Mint Erc721 - String: token-{2}-{3}-{0} - Address: " + receiver.Hex(),
		},
		{
			name: "erc721 mintTo",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "755edd17", receiver))
			},
			expected: "Mint Erc721 - Address: " + receiver.Hex(),
		},
		{
			name: "erc721 mint",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "6a627842", receiver))
			},
			expected: "Mint Erc721 - Address: " + receiver.Hex(),
		},
		{
			name: "safe mint",
			payload: func(t *testing.T) []byte {
				return voucher(t, 0, nestedCall(t, "a1448194", receiver, big.NewInt(42)))
			},
			expected: "Safe Mint Erc20 TokenId: 42 to Address: " + receiver.Hex(),
		},
		{
			name: "unknown selector",
			payload: func(t *testing.T) []byte {
				return voucher(t, 5, []byte{0xde, 0xad, 0xbe, 0xef, 0x01})
			},
			expected: "Unknown execution to destination: " + destination.Hex() + " with value: 5",
		},
		{
			name: "nested call too short",
			payload: func(t *testing.T) []byte {
				return voucher(t, 1000000000000000000, []byte{0xa9, 0x05, 0x9c, 0xbb})
			},
			expected: "Unknown execution to destination: " + destination.Hex() + " with value: 1000000000000000000",
		},
		{
			name: "known selector with malformed arguments",
			payload: func(t *testing.T) []byte {
				return voucher(t, 2, []byte{0xa9, 0x05, 0x9c, 0xbb, 0x00, 0x01})
			},
			expected: "Unknown execution to destination: " + destination.Hex() + " with value: 2",
		},
		{
			name: "notice has no destination",
			payload: func(t *testing.T) []byte {
				payload, err := outputsABI.Pack("Notice", []byte("hi"))
				require.NoError(t, err)
				return payload
			},
			expected: "Unknown execution to destination: 0x6869 with value: none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tt.payload(t)
			desc, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, desc)

			// pure: same input, same output
			again, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, desc, again)
		})
	}
}

func TestDecode_InvalidOuterCall(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "short", payload: []byte{0x01, 0x02}},
		{name: "unknown output type", payload: []byte{0x01, 0x02, 0x03, 0x04, 0x05}},
		{name: "truncated voucher", payload: voucher(t, 1, []byte{0x01})[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			require.Error(t, err)
		})
	}
}
