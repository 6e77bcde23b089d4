package caller

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Layr-Labs/mugen-go/pkg/bindings/IApplication"
)

// ExecuteOutput submits an output with its validity proof to the application contract
func (cc *ContractCaller) ExecuteOutput(
	ctx context.Context,
	app common.Address,
	output []byte,
	proof IApplication.OutputValidityProof,
) (*types.Receipt, error) {
	application, err := IApplication.NewIApplication(app, cc.ethclient)
	if err != nil {
		return nil, fmt.Errorf("failed to create application contract instance: %w", err)
	}

	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction options: %w", err)
	}

	tx, err := application.ExecuteOutput(txOpts, output, proof)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction for executing output %d: %w", proof.OutputIndex, err)
	}

	cc.logger.Sugar().Infow("Executing output",
		"app", app.Hex(),
		"outputIndex", proof.OutputIndex,
		"siblings", len(proof.OutputHashesSiblings),
	)

	return cc.signAndSendTransaction(ctx, tx, "ExecuteOutput")
}

func (cc *ContractCaller) WasOutputExecuted(ctx context.Context, app common.Address, outputIndex uint64) (bool, error) {
	application, err := IApplication.NewIApplication(app, cc.ethclient)
	if err != nil {
		return false, fmt.Errorf("failed to create application contract instance: %w", err)
	}

	executed, err := application.WasOutputExecuted(&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(outputIndex))
	if err != nil {
		return false, fmt.Errorf("failed to check output %d: %w", outputIndex, err)
	}
	return executed, nil
}

func (cc *ContractCaller) ValidateOutput(
	ctx context.Context,
	app common.Address,
	output []byte,
	proof IApplication.OutputValidityProof,
) error {
	application, err := IApplication.NewIApplication(app, cc.ethclient)
	if err != nil {
		return fmt.Errorf("failed to create application contract instance: %w", err)
	}
	if err := application.ValidateOutput(&bind.CallOpts{Context: ctx}, output, proof); err != nil {
		return fmt.Errorf("output %d failed validation: %w", proof.OutputIndex, err)
	}
	return nil
}
