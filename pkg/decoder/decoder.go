// Package decoder turns voucher payloads into short human readable descriptions.
package decoder

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// UnknownTemplate describes outputs whose nested call is absent or not in the table.
const UnknownTemplate = "Unknown execution to destination: {0} with value: {1}"

// missingArg is rendered for template positions the outer call does not provide.
const missingArg = "none"

const outputsABIJson = `[
	{"type":"function","name":"Voucher","stateMutability":"nonpayable","inputs":[
		{"name":"destination","type":"address"},
		{"name":"value","type":"uint256"},
		{"name":"payload","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"DelegateCallVoucher","stateMutability":"nonpayable","inputs":[
		{"name":"destination","type":"address"},
		{"name":"payload","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"Notice","stateMutability":"nonpayable","inputs":[
		{"name":"payload","type":"bytes"}],"outputs":[]}
]`

// Selector is one row of the dispatch table.
type Selector struct {
	// Id is the lowercase hex function selector without 0x.
	Id       string
	Name     string
	Args     abi.Arguments
	Template string
}

var (
	outputsABI abi.ABI
	selectors  map[string]*Selector
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(outputsABIJson))
	if err != nil {
		panic(fmt.Sprintf("failed to parse outputs ABI: %v", err))
	}
	outputsABI = parsed

	selectors = make(map[string]*Selector)
	register := func(id, name, template string, argTypes ...string) {
		selectors[id] = &Selector{Id: id, Name: name, Args: mustArguments(argTypes...), Template: template}
	}
	register("a9059cbb", "transfer(address,uint256)",
		"Erc20 Transfer - Amount: {1} - Address: {0}", "address", "uint256")
	register("42842e0e", "safeTransferFrom(address,address,uint256)",
		"Erc721 Transfer - Id: {2} - Address: {1}", "address", "address", "uint256")
	register("f242432a", "safeTransferFrom(address,address,uint256,uint256,bytes)",
		"Erc1155 Single Transfer - Id: {2} Amount: {3} - Address: {1}", "address", "address", "uint256", "uint256")
	register("2eb2c2d6", "safeBatchTransferFrom(address,address,uint256[],uint256[],bytes)",
		"Erc1155 Batch Transfer - Ids: {2} Amounts: {3} - Address: {1}", "address", "address", "uint256[]", "uint256[]")
	register("d0def521", "mint(address,string)",
		"Mint Erc721 - String: {1} - Address: {0}", "address", "string")
	register("755edd17", "mintTo(address)",
		"Mint Erc721 - Address: {0}", "address")
	register("6a627842", "mint(address)",
		"Mint Erc721 - Address: {0}", "address")
	register("a1448194", "safeMint(address,uint256)",
		"Safe Mint Erc20 TokenId: {1} to Address: {0}", "address", "uint256")
}

func mustArguments(argTypes ...string) abi.Arguments {
	args := make(abi.Arguments, 0, len(argTypes))
	for _, t := range argTypes {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(fmt.Sprintf("invalid ABI type %s: %v", t, err))
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args
}

// Selectors returns the dispatch table ordered by selector id.
func Selectors() []*Selector {
	out := make([]*Selector, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// Decode describes an output payload. The payload must be a call to one of the
// Outputs functions; an error is only returned when that outer call cannot be decoded.
// Nested calls that are missing, unknown or malformed fall back to UnknownTemplate.
func Decode(payload []byte) (string, error) {
	if len(payload) < 4 {
		return "", fmt.Errorf("payload too short: %d bytes", len(payload))
	}
	method, err := outputsABI.MethodById(payload[:4])
	if err != nil {
		return "", fmt.Errorf("unknown output type 0x%s: %w", hex.EncodeToString(payload[:4]), err)
	}
	args, err := method.Inputs.Unpack(payload[4:])
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", method.Name, err)
	}

	// only Voucher carries a nested call in third position
	if len(args) > 2 {
		if nested, ok := args[2].([]byte); ok && len(nested) > 4 {
			if desc, ok := describeCall(nested); ok {
				return desc, nil
			}
		}
	}
	return DescribeUnknown(args), nil
}

// DescribeUnknown renders the fallback description from the outer call arguments.
func DescribeUnknown(args []interface{}) string {
	return render(UnknownTemplate, args)
}

func describeCall(call []byte) (string, bool) {
	sel, ok := selectors[hex.EncodeToString(call[:4])]
	if !ok {
		return "", false
	}
	values, err := sel.Args.Unpack(call[4:])
	if err != nil {
		return "", false
	}
	return render(sel.Template, values), true
}

func render(template string, values []interface{}) string {
	pairs := make([]string, 0, 20)
	for i := 0; i < 10; i++ {
		value := missingArg
		if i < len(values) {
			value = format(values[i])
		}
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", value)
	}
	// a single Replace pass never rescans substituted values
	return strings.NewReplacer(pairs...).Replace(template)
}

func format(v interface{}) string {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case *big.Int:
		return val.String()
	case []*big.Int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = n.String()
		}
		return strings.Join(parts, ",")
	case []byte:
		return "0x" + hex.EncodeToString(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
