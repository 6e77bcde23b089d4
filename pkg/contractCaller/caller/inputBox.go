package caller

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// AddInput sends payload to the InputBox for app and waits for the transaction to be mined
func (cc *ContractCaller) AddInput(
	ctx context.Context,
	app common.Address,
	payload []byte,
) (*types.Receipt, error) {
	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction options: %w", err)
	}

	tx, err := cc.inputBox.AddInput(txOpts, app, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction for adding input to %s: %w", app.Hex(), err)
	}

	cc.logger.Sugar().Debugw("Adding input",
		"inputBox", cc.inputBoxAddress.Hex(),
		"app", app.Hex(),
		"payload", hexutil.Encode(payload),
	)

	return cc.signAndSendTransaction(ctx, tx, "AddInput")
}

func (cc *ContractCaller) GetNumberOfInputs(ctx context.Context, app common.Address) (uint64, error) {
	count, err := cc.inputBox.GetNumberOfInputs(&bind.CallOpts{Context: ctx}, app)
	if err != nil {
		return 0, fmt.Errorf("failed to get number of inputs: %w", err)
	}
	if !count.IsUint64() {
		return 0, fmt.Errorf("number of inputs %s overflows uint64", count.String())
	}
	return count.Uint64(), nil
}
