package main

import (
	"bytes"
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/mugen-go/internal/tests"
	"github.com/Layr-Labs/mugen-go/pkg/config"
	"github.com/Layr-Labs/mugen-go/pkg/session"
	"github.com/Layr-Labs/mugen-go/pkg/types"
)

const senderAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

var receiver = common.HexToAddress("0xABCD000000000000000000000000000000001234")

func transferVoucher(t *testing.T, amount int64) string {
	t.Helper()
	newType := func(s string) abi.Type {
		typ, err := abi.NewType(s, "", nil)
		require.NoError(t, err)
		return typ
	}

	transferArgs := abi.Arguments{{Type: newType("address")}, {Type: newType("uint256")}}
	transfer, err := transferArgs.Pack(receiver, big.NewInt(amount))
	require.NoError(t, err)
	transfer = append(crypto.Keccak256([]byte("transfer(address,uint256)"))[:4], transfer...)

	voucherArgs := abi.Arguments{{Type: newType("address")}, {Type: newType("uint256")}, {Type: newType("bytes")}}
	voucher, err := voucherArgs.Pack(common.HexToAddress("0x92C6bcA388E99d6B304f1Af3c3Cd749Ff0b591e2"), big.NewInt(0), transfer)
	require.NoError(t, err)
	return hexutil.Encode(append(crypto.Keccak256([]byte("Voucher(address,uint256,bytes)"))[:4], voucher...))
}

func runCLI(args ...string) (int, string) {
	var out bytes.Buffer
	code := run(append([]string{"mugen"}, args...), &out)
	return code, out.String()
}

func TestRun_NoCommand(t *testing.T) {
	code, out := runCLI()
	assert.Equal(t, session.ExitFailure, code)
	assert.Contains(t, out, "USAGE")
	assert.Contains(t, out, "❌ no command given")
}

func TestRun_UnknownCommand(t *testing.T) {
	code, out := runCLI("deploy")
	assert.Equal(t, session.ExitFailure, code)
	assert.Contains(t, out, `❌ unknown command "deploy"`)
}

func TestRun_Version(t *testing.T) {
	code, out := runCLI("--version")
	assert.Equal(t, session.ExitSuccess, code)
	assert.Contains(t, out, version)
	assert.NotContains(t, out, "✅")
}

func TestRun_Send(t *testing.T) {
	node := tests.NewFakeNode(t)
	node.SetNonce(senderAddress, config.DefaultAppAddress, 4)

	code, out := runCLI("--node-url", node.URL(""), "send", "--wallet", senderAddress, "--input", "hello")
	require.Equal(t, session.ExitSuccess, code, out)
	assert.Contains(t, out, "Input submitted: 0x")
	assert.Contains(t, out, "✅ Done")

	submissions := node.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, "0x68656c6c6f", submissions[0].TypedData.Message.Data)
	assert.Equal(t, uint64(4), submissions[0].TypedData.Message.Nonce)
	assert.Equal(t, uint64(31337), submissions[0].TypedData.Domain.ChainId)
}

func TestRun_SendHexInput(t *testing.T) {
	node := tests.NewFakeNode(t)

	code, out := runCLI("--node-url", node.URL(""), "send", "--wallet", senderAddress, "--input-type", "Hex", "--input", "deadbeef")
	require.Equal(t, session.ExitSuccess, code, out)

	submissions := node.Submissions()
	require.Len(t, submissions, 1)
	assert.Equal(t, "0xdeadbeef", submissions[0].TypedData.Message.Data)
}

func TestRun_SendFailures(t *testing.T) {
	t.Run("unknown wallet", func(t *testing.T) {
		node := tests.NewFakeNode(t)
		code, out := runCLI("--node-url", node.URL(""), "send", "--wallet", "0x0000000000000000000000000000000000000001", "--input", "hello")
		assert.Equal(t, session.ExitFailure, code)
		assert.Contains(t, out, "credential not found")
		assert.Equal(t, 0, node.NonceCalls())
	})

	t.Run("nonce authority down", func(t *testing.T) {
		node := tests.NewFakeNode(t)
		node.SetStatus("/nonce", http.StatusServiceUnavailable)
		code, out := runCLI("--node-url", node.URL(""), "send", "--wallet", senderAddress, "--input", "hello")
		assert.Equal(t, session.ExitFailure, code)
		assert.Contains(t, out, "status 503")
		assert.Empty(t, node.Submissions())
	})

	t.Run("bad input type", func(t *testing.T) {
		node := tests.NewFakeNode(t)
		code, out := runCLI("--node-url", node.URL(""), "send", "--wallet", senderAddress, "--input-type", "Base64", "--input", "aGk=")
		assert.Equal(t, session.ExitFailure, code)
		assert.Contains(t, out, "unsupported input type")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		code, out := runCLI("--app-address", "nope", "send", "--wallet", senderAddress, "--input", "hello")
		assert.Equal(t, session.ExitFailure, code)
		assert.Contains(t, out, "appAddress")
	})
}

func TestRun_Vouchers(t *testing.T) {
	node := tests.NewFakeNode(t)
	node.Outputs = []*types.Output{
		{Index: 0, Payload: transferVoucher(t, 1000)},
		{Index: 1, Payload: transferVoucher(t, 5)},
	}
	node.OutputLookup = func(index uint64, _ int) *types.Output {
		return &types.Output{
			Index: types.Uint64(index),
			Proof: &types.Proof{OutputIndex: types.Uint64(index), OutputHashesSiblings: []string{common.Hash{1}.Hex()}},
		}
	}
	rpc := tests.NewFakeRPC(t, 31337)

	code, out := runCLI("--node-url", node.URL(""), "--rpc-url", rpc.URL(), "vouchers")
	require.Equal(t, session.ExitSuccess, code, out)
	assert.Contains(t, out, "[1] Erc20 Transfer - Amount: 5 - Address: "+receiver.Hex())
	assert.Contains(t, out, "[0] Erc20 Transfer - Amount: 1000 - Address: "+receiver.Hex())
	assert.Contains(t, out, "proof: ready")
	assert.Less(t, bytes.Index([]byte(out), []byte("[1]")), bytes.Index([]byte(out), []byte("[0]")))
}

func TestRun_ExecuteWithoutVouchers(t *testing.T) {
	node := tests.NewFakeNode(t)
	rpc := tests.NewFakeRPC(t, 31337)

	code, out := runCLI("--node-url", node.URL(""), "--rpc-url", rpc.URL(), "execute")
	assert.Equal(t, session.ExitSuccess, code, out)
	assert.Contains(t, out, "No pending vouchers")
}

func TestRun_ExecuteUnknownIndex(t *testing.T) {
	node := tests.NewFakeNode(t)
	node.Outputs = []*types.Output{{Index: 0, Payload: transferVoucher(t, 1)}}
	node.OutputLookup = func(index uint64, _ int) *types.Output {
		return &types.Output{
			Index: types.Uint64(index),
			Proof: &types.Proof{OutputIndex: types.Uint64(index), OutputHashesSiblings: []string{common.Hash{1}.Hex()}},
		}
	}
	rpc := tests.NewFakeRPC(t, 31337)

	code, out := runCLI("--node-url", node.URL(""), "--rpc-url", rpc.URL(), "execute", "--output-index", "7")
	assert.Equal(t, session.ExitFailure, code)
	assert.Contains(t, out, "unknown output index")
}

func TestRun_IndexerUnavailable(t *testing.T) {
	node := tests.NewFakeNode(t)
	node.SetStatus("/graphql", http.StatusNotFound)
	rpc := tests.NewFakeRPC(t, 31337)

	code, out := runCLI("--node-url", node.URL(""), "--rpc-url", rpc.URL(), "vouchers")
	assert.Equal(t, session.ExitFailure, code)
	assert.Contains(t, out, "indexer unavailable")
}

func TestResolveServiceKey(t *testing.T) {
	key, err := resolveServiceKey("")
	require.NoError(t, err)
	assert.Equal(t, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", key)

	key, err = resolveServiceKey("0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")
	require.NoError(t, err)
	assert.Equal(t, "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", key)

	key, err = resolveServiceKey("test test test test test test test test test test test junk")
	require.NoError(t, err)
	assert.Equal(t, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", key)

	_, err = resolveServiceKey("one two three four five six")
	assert.ErrorContains(t, err, "invalid seed phrase")
}
