package contractCaller

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/Layr-Labs/mugen-go/pkg/bindings/IApplication"
)

type IContractCaller interface {
	// AddInput sends payload to the InputBox for app and waits for inclusion.
	AddInput(
		ctx context.Context,
		app common.Address,
		payload []byte,
	) (*ethereumTypes.Receipt, error)

	GetNumberOfInputs(ctx context.Context, app common.Address) (uint64, error)

	// ExecuteOutput submits an output and its validity proof to the application.
	ExecuteOutput(
		ctx context.Context,
		app common.Address,
		output []byte,
		proof IApplication.OutputValidityProof,
	) (*ethereumTypes.Receipt, error)

	WasOutputExecuted(ctx context.Context, app common.Address, outputIndex uint64) (bool, error)

	// ValidateOutput checks the proof against the application without sending a transaction.
	ValidateOutput(
		ctx context.Context,
		app common.Address,
		output []byte,
		proof IApplication.OutputValidityProof,
	) error
}
