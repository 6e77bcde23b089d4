package transactionSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// ChainBackend is the part of an RPC client the signer needs.
type ChainBackend interface {
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// PrivateKeySigner implements ITransactionSigner with an in-memory key
type PrivateKeySigner struct {
	backend     ChainBackend
	logger      *zap.Logger
	chainID     *big.Int
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
}

// NewPrivateKeySigner creates a signer for the hex encoded key. The chain id is read
// from the backend once.
func NewPrivateKeySigner(privateKey string, backend ChainBackend, logger *zap.Logger) (*PrivateKeySigner, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	chainID, err := backend.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &PrivateKeySigner{
		backend:     backend,
		logger:      logger,
		chainID:     chainID,
		privateKey:  key,
		fromAddress: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// GetTransactOpts returns options that sign but do not send; SignAndSendTransaction
// broadcasts the result.
func (s *PrivateKeySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.privateKey, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.NoSend = true
	return opts, nil
}

// SignAndSendTransaction sends a transaction built with GetTransactOpts and waits for
// it to be mined. A reverted transaction is an error.
func (s *PrivateKeySigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	signedTx := tx
	if !isSigned(tx) {
		var err error
		signedTx, err = types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.privateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to sign transaction: %w", err)
		}
	}

	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	s.logger.Sugar().Infow("SignAndSendTransaction: transaction sent",
		zap.String("txHash", signedTx.Hash().Hex()),
		zap.Uint64("nonce", signedTx.Nonce()),
	)

	receipt, err := bind.WaitMined(ctx, s.backend, signedTx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction receipt: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		s.logger.Sugar().Errorw("SignAndSendTransaction: transaction failed",
			zap.String("txHash", receipt.TxHash.Hex()),
			zap.Uint64("status", receipt.Status),
			zap.Uint64("gasUsed", receipt.GasUsed),
		)
		return nil, fmt.Errorf("transaction %s failed with status %d", receipt.TxHash.Hex(), receipt.Status)
	}

	s.logger.Sugar().Infow("SignAndSendTransaction: transaction succeeded",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed),
		zap.Uint64("blockNumber", receipt.BlockNumber.Uint64()),
	)
	return receipt, nil
}

// GetFromAddress returns the address that will be used for signing
func (s *PrivateKeySigner) GetFromAddress() common.Address {
	return s.fromAddress
}

func isSigned(tx *types.Transaction) bool {
	_, r, s := tx.RawSignatureValues()
	return r != nil && s != nil && (r.Sign() != 0 || s.Sign() != 0)
}
