package contractCaller

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/mugen-go/pkg/bindings/IApplication"
)

// AddedInput records one AddInput call on the stub.
type AddedInput struct {
	App     common.Address
	Payload []byte
}

// ExecutedOutput records one ExecuteOutput call on the stub.
type ExecutedOutput struct {
	App    common.Address
	Output []byte
	Proof  IApplication.OutputValidityProof
}

// MockContractCallerStub is an in-memory IContractCaller for tests. Inputs and
// executions are recorded; FailAddInputAt makes the n-th AddInput call (1-based) fail.
type MockContractCallerStub struct {
	mu sync.Mutex

	FailAddInputAt int
	ExecuteErr     error
	ValidateErr    error

	inputs   []AddedInput
	executed map[uint64]bool
	outputs  []ExecutedOutput
	block    int64
}

var _ IContractCaller = (*MockContractCallerStub)(nil)

func NewMockContractCallerStub() *MockContractCallerStub {
	return &MockContractCallerStub{executed: make(map[uint64]bool)}
}

func (m *MockContractCallerStub) AddInput(ctx context.Context, app common.Address, payload []byte) (*ethTypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAddInputAt > 0 && len(m.inputs)+1 == m.FailAddInputAt {
		return nil, fmt.Errorf("add input %d reverted", m.FailAddInputAt)
	}
	m.inputs = append(m.inputs, AddedInput{App: app, Payload: append([]byte(nil), payload...)})
	return m.receipt(payload), nil
}

func (m *MockContractCallerStub) GetNumberOfInputs(ctx context.Context, app common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count uint64
	for _, in := range m.inputs {
		if in.App == app {
			count++
		}
	}
	return count, nil
}

func (m *MockContractCallerStub) ExecuteOutput(ctx context.Context, app common.Address, output []byte, proof IApplication.OutputValidityProof) (*ethTypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExecuteErr != nil {
		return nil, m.ExecuteErr
	}
	if m.executed[proof.OutputIndex] {
		return nil, fmt.Errorf("output %d already executed", proof.OutputIndex)
	}
	m.executed[proof.OutputIndex] = true
	m.outputs = append(m.outputs, ExecutedOutput{App: app, Output: output, Proof: proof})
	return m.receipt(output), nil
}

func (m *MockContractCallerStub) WasOutputExecuted(ctx context.Context, app common.Address, outputIndex uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executed[outputIndex], nil
}

func (m *MockContractCallerStub) ValidateOutput(ctx context.Context, app common.Address, output []byte, proof IApplication.OutputValidityProof) error {
	return m.ValidateErr
}

// MarkExecuted flags an output index as already executed on chain.
func (m *MockContractCallerStub) MarkExecuted(outputIndex uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executed[outputIndex] = true
}

func (m *MockContractCallerStub) Inputs() []AddedInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AddedInput, len(m.inputs))
	copy(out, m.inputs)
	return out
}

func (m *MockContractCallerStub) Executions() []ExecutedOutput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExecutedOutput, len(m.outputs))
	copy(out, m.outputs)
	return out
}

// receipt fabricates a mined receipt. Callers hold m.mu.
func (m *MockContractCallerStub) receipt(data []byte) *ethTypes.Receipt {
	m.block++
	return &ethTypes.Receipt{
		Status:      ethTypes.ReceiptStatusSuccessful,
		TxHash:      crypto.Keccak256Hash(big.NewInt(m.block).Bytes(), data),
		BlockNumber: big.NewInt(m.block),
	}
}
