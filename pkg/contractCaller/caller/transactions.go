package caller

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
)

// buildTransactionOpts returns options that build a signed transaction without
// broadcasting it; signAndSendTransaction sends and awaits it.
func (cc *ContractCaller) buildTransactionOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if cc.signer == nil {
		return nil, fmt.Errorf("no transaction signer configured")
	}
	opts, err := cc.signer.GetTransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.NoSend = true
	return opts, nil
}

func (cc *ContractCaller) signAndSendTransaction(ctx context.Context, tx *ethereumTypes.Transaction, operation string) (*ethereumTypes.Receipt, error) {
	cc.logger.Sugar().Infow("Sending transaction",
		"operation", operation,
		"from", cc.signer.GetFromAddress().Hex(),
		"to", tx.To().Hex(),
		"nonce", tx.Nonce(),
		"gas", tx.Gas(),
	)

	receipt, err := cc.signer.SignAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%s transaction failed: %w", operation, err)
	}

	cc.logger.Sugar().Debugw("Transaction mined",
		"operation", operation,
		"txHash", receipt.TxHash.Hex(),
		"block", receipt.BlockNumber.Uint64(),
	)
	return receipt, nil
}
