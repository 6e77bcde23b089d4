package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Layr-Labs/mugen-go/pkg/advance"
	"github.com/Layr-Labs/mugen-go/pkg/bindings/IApplication"
	"github.com/Layr-Labs/mugen-go/pkg/decoder"
	"github.com/Layr-Labs/mugen-go/pkg/merkle"
	"github.com/Layr-Labs/mugen-go/pkg/types"
)

// OutputSource is the indexer side of settlement.
type OutputSource interface {
	FetchAll(ctx context.Context) ([]*types.Output, error)
	FetchOne(ctx context.Context, index uint64) (*types.Output, error)
}

// Advancer pushes the chain forward so pending proofs can be computed.
type Advancer interface {
	Advance(ctx context.Context) *advance.Result
}

// Executor submits proven outputs to the application contract.
type Executor interface {
	ExecuteOutput(ctx context.Context, app common.Address, output []byte, proof IApplication.OutputValidityProof) (*ethTypes.Receipt, error)
	WasOutputExecuted(ctx context.Context, app common.Address, outputIndex uint64) (bool, error)
	ValidateOutput(ctx context.Context, app common.Address, output []byte, proof IApplication.OutputValidityProof) error
}

type EngineConfig struct {
	Outputs            OutputSource
	Advancer           Advancer
	Executor           Executor
	ApplicationAddress common.Address
	Logger             *zap.Logger

	// OnTransition, when set, observes every state change of every output.
	OnTransition func(index uint64, state State)
}

// Engine turns indexer outputs into decoded, proven outputs and executes them.
type Engine struct {
	outputs      OutputSource
	advancer     Advancer
	executor     Executor
	app          common.Address
	logger       *zap.Logger
	onTransition func(index uint64, state State)
}

func NewEngine(cfg *EngineConfig) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Outputs == nil {
		return nil, fmt.Errorf("output source is required")
	}
	if cfg.Advancer == nil {
		return nil, fmt.Errorf("advancer is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Engine{
		outputs:      cfg.Outputs,
		advancer:     cfg.Advancer,
		executor:     cfg.Executor,
		app:          cfg.ApplicationAddress,
		logger:       cfg.Logger,
		onTransition: cfg.OnTransition,
	}, nil
}

// Process lists all outputs, decodes each one and obtains its proof. An output whose
// proof is still empty after one chain advance is returned with an empty proof.
// Results are ordered by descending index; equal indices keep listing order.
func (e *Engine) Process(ctx context.Context) ([]*types.DecodedOutput, error) {
	outputs, err := e.outputs.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}

	decoded := make([]*types.DecodedOutput, 0, len(outputs))
	for _, out := range outputs {
		if isEmptyPayload(out.Payload) {
			e.logger.Sugar().Debugw("Skipping output without payload", "index", uint64(out.Index))
			continue
		}

		d, err := e.processOutput(ctx, out)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, d)
	}

	sort.SliceStable(decoded, func(i, j int) bool {
		return decoded[i].Index > decoded[j].Index
	})

	e.logger.Sugar().Infow("Processed outputs",
		"listed", len(outputs),
		"decoded", len(decoded),
	)
	return decoded, nil
}

func (e *Engine) processOutput(ctx context.Context, out *types.Output) (*types.DecodedOutput, error) {
	index := uint64(out.Index)
	e.transition(index, StateFetched)

	d := &types.DecodedOutput{
		Index:       index,
		PayloadHex:  out.Payload,
		Destination: out.Destination,
		Value:       out.Value,
		Input:       out.Input,
		Executed:    out.Executed,
	}
	d.Description = describe(out)
	e.transition(index, StateDecoded)

	e.transition(index, StateProofRequested)
	fetched, err := e.fetchProof(ctx, index)
	if err != nil && isCancelled(err) {
		return nil, err
	}

	if err != nil || fetched.Proof.IsEmpty() {
		e.transition(index, StateProofMissingOnce)

		result := e.advancer.Advance(ctx)
		e.transition(index, StateAdvanceTriggered)
		if result.Err != nil {
			e.logger.Sugar().Warnw("Continuing after partial chain advance",
				"index", index,
				"confirmed", result.Confirmed,
				"requested", result.Requested,
			)
		}

		fetched, err = e.fetchProof(ctx, index)
		if err != nil && isCancelled(err) {
			return nil, err
		}
	}

	if err != nil {
		d.ProofErr = err
	}
	if fetched != nil {
		d.Executed = d.Executed || fetched.Executed
		d.Proof = fetched.Proof
	}

	if d.ProofPending() {
		e.transition(index, StateProofPending)
		return d, nil
	}

	e.transition(index, StateProofReady)
	root, err := outputsRoot(d)
	if err != nil {
		d.ProofErr = err
		e.logger.Sugar().Warnw("Proof siblings are malformed", "index", index, "error", err)
		return d, nil
	}
	d.OutputsRoot = &root
	return d, nil
}

func (e *Engine) fetchProof(ctx context.Context, index uint64) (*types.Output, error) {
	out, err := e.outputs.FetchOne(ctx, index)
	if err != nil {
		e.logger.Sugar().Warnw("Failed to fetch output proof", "index", index, "error", err)
		return nil, err
	}
	return out, nil
}

// Execute submits a decoded output and its proof to the application contract and
// returns the mined transaction hash.
func (e *Engine) Execute(ctx context.Context, out *types.DecodedOutput) (common.Hash, error) {
	if e.executor == nil {
		return common.Hash{}, fmt.Errorf("no executor configured")
	}
	if out == nil {
		return common.Hash{}, fmt.Errorf("output cannot be nil")
	}
	if out.ProofPending() {
		return common.Hash{}, fmt.Errorf("output %d: %w", out.Index, types.ErrProofUnavailable)
	}

	payload, err := hexutil.Decode(out.PayloadHex)
	if err != nil {
		return common.Hash{}, fmt.Errorf("output %d has an invalid payload: %w", out.Index, err)
	}
	siblings, err := out.Proof.Siblings()
	if err != nil {
		return common.Hash{}, fmt.Errorf("output %d has an invalid proof: %w", out.Index, err)
	}

	executed, err := e.executor.WasOutputExecuted(ctx, e.app, out.Index)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to check output %d: %w", out.Index, err)
	}
	if executed {
		return common.Hash{}, fmt.Errorf("output %d: %w", out.Index, types.ErrOutputAlreadyExecuted)
	}

	proofIndex := uint64(out.Proof.OutputIndex)
	if out.OutputsRoot != nil {
		local := &merkle.MerkleProof{
			LeafIndex: proofIndex,
			Leaf:      merkle.HashOutput(payload),
			Proof:     siblings,
		}
		if !merkle.VerifyProof(local, *out.OutputsRoot) {
			return common.Hash{}, fmt.Errorf("output %d: proof does not match outputs root %s", out.Index, out.OutputsRoot.Hex())
		}
	}

	proof := IApplication.OutputValidityProof{
		OutputIndex:          proofIndex,
		OutputHashesSiblings: siblings,
	}
	if err := e.executor.ValidateOutput(ctx, e.app, payload, proof); err != nil {
		return common.Hash{}, err
	}

	receipt, err := e.executor.ExecuteOutput(ctx, e.app, payload, proof)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to execute output %d: %w", out.Index, err)
	}
	e.transition(out.Index, StateSubmitted)

	e.logger.Sugar().Infow("Output executed",
		"index", out.Index,
		"txHash", receipt.TxHash.Hex(),
	)
	return receipt.TxHash, nil
}

// Select returns the first decoded output with the given index.
func Select(outputs []*types.DecodedOutput, index uint64) (*types.DecodedOutput, error) {
	for _, out := range outputs {
		if out.Index == index {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output %d: %w", index, types.ErrUnknownOutputIndex)
}

func (e *Engine) transition(index uint64, state State) {
	e.logger.Sugar().Debugw("Output state", "index", index, "state", state.String())
	if e.onTransition != nil {
		e.onTransition(index, state)
	}
}

// describe falls back to the indexer's destination and value when the payload is
// not a decodable output call.
func describe(out *types.Output) string {
	payload, err := out.PayloadBytes()
	if err == nil {
		if desc, err := decoder.Decode(payload); err == nil {
			return desc
		}
	}

	var args []interface{}
	if out.Destination != "" {
		args = append(args, out.Destination)
		if out.Value != "" {
			args = append(args, out.Value)
		}
	}
	return decoder.DescribeUnknown(args)
}

func outputsRoot(d *types.DecodedOutput) (common.Hash, error) {
	payload, err := hexutil.Decode(d.PayloadHex)
	if err != nil {
		return common.Hash{}, err
	}
	siblings, err := d.Proof.Siblings()
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(merkle.ComputeRoot(merkle.HashOutput(payload), uint64(d.Proof.OutputIndex), siblings)), nil
}

// isCancelled reports errors that end the whole batch rather than one output's proof.
// Indexer failures on a single output only leave that output without a proof.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isEmptyPayload(payload string) bool {
	p := strings.TrimSpace(payload)
	return p == "" || p == "0x" || p == "0X"
}
