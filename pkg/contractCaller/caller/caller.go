package caller

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/Layr-Labs/mugen-go/pkg/bindings/IInputBox"
	"github.com/Layr-Labs/mugen-go/pkg/contractCaller"
	"github.com/Layr-Labs/mugen-go/pkg/transactionSigner"
)

var _ contractCaller.IContractCaller = (*ContractCaller)(nil)

type ContractCaller struct {
	ethclient *ethclient.Client
	logger    *zap.Logger
	signer    transactionSigner.ITransactionSigner

	inputBoxAddress common.Address
	inputBox        *IInputBox.IInputBox
}

func NewContractCaller(
	ethclient *ethclient.Client,
	signer transactionSigner.ITransactionSigner,
	inputBoxAddress common.Address,
	logger *zap.Logger,
) (*ContractCaller, error) {
	if ethclient == nil {
		return nil, fmt.Errorf("ethclient is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if inputBoxAddress == (common.Address{}) {
		return nil, fmt.Errorf("input box address is required")
	}

	inputBox, err := IInputBox.NewIInputBox(inputBoxAddress, ethclient)
	if err != nil {
		return nil, fmt.Errorf("failed to create input box contract instance: %w", err)
	}

	return &ContractCaller{
		ethclient:       ethclient,
		logger:          logger,
		signer:          signer,
		inputBoxAddress: inputBoxAddress,
		inputBox:        inputBox,
	}, nil
}
