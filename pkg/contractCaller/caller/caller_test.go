package caller

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/mugen-go/internal/tests"
	"github.com/Layr-Labs/mugen-go/pkg/bindings/IApplication"
	"github.com/Layr-Labs/mugen-go/pkg/bindings/IInputBox"
)

var (
	testInputBox = common.HexToAddress("0x593E5BCf894D6829Dd26D0810DA7F064406aebB6")
	testApp      = common.HexToAddress("0xab7528bb862fb57e8a2bcd567a2e929a0be56a5e")
)

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

func newReadOnlyCaller(t *testing.T, rpc *tests.FakeRPC) *ContractCaller {
	t.Helper()
	client, err := ethclient.Dial(rpc.URL())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	cc, err := NewContractCaller(client, nil, testInputBox, zaptest.NewLogger(t))
	require.NoError(t, err)
	return cc
}

func TestBindings_Selectors(t *testing.T) {
	inputBox, err := IInputBox.IInputBoxMetaData.GetAbi()
	require.NoError(t, err)
	application, err := IApplication.IApplicationMetaData.GetAbi()
	require.NoError(t, err)

	tests := []struct {
		name      string
		abi       *abi.ABI
		method    string
		signature string
	}{
		{"addInput", inputBox, "addInput", "addInput(address,bytes)"},
		{"getNumberOfInputs", inputBox, "getNumberOfInputs", "getNumberOfInputs(address)"},
		{"executeOutput", application, "executeOutput", "executeOutput(bytes,(uint64,bytes32[]))"},
		{"validateOutput", application, "validateOutput", "validateOutput(bytes,(uint64,bytes32[]))"},
		{"wasOutputExecuted", application, "wasOutputExecuted", "wasOutputExecuted(uint256)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, ok := tt.abi.Methods[tt.method]
			require.True(t, ok)
			assert.Equal(t, selector(tt.signature), method.ID)
		})
	}
}

func TestBindings_PackExecuteOutput(t *testing.T) {
	application, err := IApplication.IApplicationMetaData.GetAbi()
	require.NoError(t, err)

	proof := IApplication.OutputValidityProof{
		OutputIndex:          4,
		OutputHashesSiblings: [][32]byte{{1}, {2}},
	}
	data, err := application.Pack("executeOutput", []byte{0xca, 0xfe}, proof)
	require.NoError(t, err)
	assert.Equal(t, selector("executeOutput(bytes,(uint64,bytes32[]))"), data[:4])

	args, err := application.Methods["executeOutput"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, []byte{0xca, 0xfe}, args[0])
}

func TestNewContractCaller_ValidationErrors(t *testing.T) {
	rpc := tests.NewFakeRPC(t, 31337)
	client, err := ethclient.Dial(rpc.URL())
	require.NoError(t, err)
	defer client.Close()

	_, err = NewContractCaller(nil, nil, testInputBox, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "ethclient is required")

	_, err = NewContractCaller(client, nil, testInputBox, nil)
	assert.ErrorContains(t, err, "logger is required")

	_, err = NewContractCaller(client, nil, common.Address{}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "input box address is required")
}

func TestWasOutputExecuted(t *testing.T) {
	rpc := tests.NewFakeRPC(t, 31337)
	cc := newReadOnlyCaller(t, rpc)

	rpc.SetCallResult(common.LeftPadBytes([]byte{1}, 32))
	executed, err := cc.WasOutputExecuted(context.Background(), testApp, 9)
	require.NoError(t, err)
	assert.True(t, executed)

	rpc.SetCallResult(make([]byte, 32))
	executed, err = cc.WasOutputExecuted(context.Background(), testApp, 9)
	require.NoError(t, err)
	assert.False(t, executed)

	calls := rpc.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "0xab7528bb862fb57e8a2bcd567a2e929a0be56a5e", calls[0].To)
	assert.Equal(t, selector("wasOutputExecuted(uint256)"), calls[0].Data[:4])
	assert.Equal(t, common.LeftPadBytes(big.NewInt(9).Bytes(), 32), calls[0].Data[4:])
}

func TestGetNumberOfInputs(t *testing.T) {
	rpc := tests.NewFakeRPC(t, 31337)
	cc := newReadOnlyCaller(t, rpc)

	rpc.SetCallResult(common.LeftPadBytes(big.NewInt(12).Bytes(), 32))
	count, err := cc.GetNumberOfInputs(context.Background(), testApp)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), count)

	calls := rpc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "0x593e5bcf894d6829dd26d0810da7f064406aebb6", calls[0].To)
	assert.Equal(t, selector("getNumberOfInputs(address)"), calls[0].Data[:4])
}

func TestTransactionsRequireSigner(t *testing.T) {
	rpc := tests.NewFakeRPC(t, 31337)
	cc := newReadOnlyCaller(t, rpc)

	_, err := cc.AddInput(context.Background(), testApp, []byte("warp"))
	assert.ErrorContains(t, err, "no transaction signer configured")

	_, err = cc.ExecuteOutput(context.Background(), testApp, []byte{0x01}, IApplication.OutputValidityProof{})
	assert.ErrorContains(t, err, "no transaction signer configured")
}
