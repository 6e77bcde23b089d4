// Package IInputBox is a Go binding around the rollups InputBox contract. Only the
// methods used by mugen are bound.
package IInputBox

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// IInputBoxMetaData contains all meta data concerning the IInputBox contract.
var IInputBoxMetaData = &bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"addInput\",\"inputs\":[{\"name\":\"appContract\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"payload\",\"type\":\"bytes\",\"internalType\":\"bytes\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bytes32\",\"internalType\":\"bytes32\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"getNumberOfInputs\",\"inputs\":[{\"name\":\"appContract\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"event\",\"name\":\"InputAdded\",\"inputs\":[{\"name\":\"appContract\",\"type\":\"address\",\"indexed\":true,\"internalType\":\"address\"},{\"name\":\"index\",\"type\":\"uint256\",\"indexed\":true,\"internalType\":\"uint256\"},{\"name\":\"input\",\"type\":\"bytes\",\"indexed\":false,\"internalType\":\"bytes\"}],\"anonymous\":false}]",
}

// IInputBox is a Go binding around an Ethereum contract.
type IInputBox struct {
	IInputBoxCaller     // Read-only binding to the contract
	IInputBoxTransactor // Write-only binding to the contract
}

// IInputBoxCaller is a read-only Go binding around an Ethereum contract.
type IInputBoxCaller struct {
	contract *bind.BoundContract
}

// IInputBoxTransactor is a write-only Go binding around an Ethereum contract.
type IInputBoxTransactor struct {
	contract *bind.BoundContract
}

// NewIInputBox creates a new instance of IInputBox, bound to a specific deployed contract.
func NewIInputBox(address common.Address, backend bind.ContractBackend) (*IInputBox, error) {
	contract, err := bindIInputBox(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &IInputBox{IInputBoxCaller: IInputBoxCaller{contract: contract}, IInputBoxTransactor: IInputBoxTransactor{contract: contract}}, nil
}

// bindIInputBox binds a generic wrapper to an already deployed contract.
func bindIInputBox(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := IInputBoxMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, filterer), nil
}

// GetNumberOfInputs is a free data retrieval call.
//
// Solidity: function getNumberOfInputs(address appContract) view returns(uint256)
func (_IInputBox *IInputBoxCaller) GetNumberOfInputs(opts *bind.CallOpts, appContract common.Address) (*big.Int, error) {
	var out []interface{}
	err := _IInputBox.contract.Call(opts, &out, "getNumberOfInputs", appContract)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// AddInput is a paid mutator transaction.
//
// Solidity: function addInput(address appContract, bytes payload) returns(bytes32)
func (_IInputBox *IInputBoxTransactor) AddInput(opts *bind.TransactOpts, appContract common.Address, payload []byte) (*types.Transaction, error) {
	return _IInputBox.contract.Transact(opts, "addInput", appContract, payload)
}
