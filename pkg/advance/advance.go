package advance

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Layr-Labs/mugen-go/pkg/config"
)

// DefaultPayload is the filler input body, ASCII "warp".
var DefaultPayload = []byte("warp")

// InputAdder submits a single input to the inbox and waits for it to be mined.
type InputAdder interface {
	AddInput(ctx context.Context, app common.Address, payload []byte) (*ethTypes.Receipt, error)
}

// InputCounter is implemented by adders that can read the inbox size.
type InputCounter interface {
	GetNumberOfInputs(ctx context.Context, app common.Address) (uint64, error)
}

type TriggerConfig struct {
	InputAdder         InputAdder
	ApplicationAddress common.Address

	// Count is the number of filler inputs per advance. Zero means config.DefaultAdvanceCount.
	Count int

	// Payload defaults to DefaultPayload.
	Payload []byte

	Logger *zap.Logger
}

// Trigger forces the rollup to close an epoch by sending filler inputs to the inbox.
type Trigger struct {
	inputAdder InputAdder
	app        common.Address
	count      int
	payload    []byte
	logger     *zap.Logger
}

// Result reports how far an advance got. Partial completion is an accepted outcome.
type Result struct {
	Requested int
	Confirmed int
	Receipts  []*ethTypes.Receipt

	// Err is the failure that stopped the loop early, if any.
	Err error
}

// Partial is true when fewer inputs were confirmed than requested.
func (r *Result) Partial() bool {
	return r.Confirmed < r.Requested
}

func NewTrigger(cfg *TriggerConfig) (*Trigger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.InputAdder == nil {
		return nil, fmt.Errorf("input adder is required")
	}
	if cfg.ApplicationAddress == (common.Address{}) {
		return nil, fmt.Errorf("application address is required")
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("count must not be negative")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	count := cfg.Count
	if count == 0 {
		count = config.DefaultAdvanceCount
	}
	payload := cfg.Payload
	if len(payload) == 0 {
		payload = DefaultPayload
	}

	return &Trigger{
		inputAdder: cfg.InputAdder,
		app:        cfg.ApplicationAddress,
		count:      count,
		payload:    payload,
		logger:     cfg.Logger,
	}, nil
}

// Advance sends the filler inputs one at a time, each awaited before the next. The
// first failure ends the loop and is reported in Result.Err.
func (t *Trigger) Advance(ctx context.Context) *Result {
	result := &Result{Requested: t.count}

	for attempt := 1; attempt <= t.count; attempt++ {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		receipt, err := t.inputAdder.AddInput(ctx, t.app, t.payload)
		if err != nil {
			result.Err = fmt.Errorf("filler input %d of %d failed: %w", attempt, t.count, err)
			break
		}
		result.Confirmed++
		result.Receipts = append(result.Receipts, receipt)

		t.logger.Sugar().Debugw("Filler input confirmed",
			"attempt", attempt,
			"of", t.count,
			"txHash", receipt.TxHash.Hex(),
		)
	}

	if result.Err != nil {
		t.logger.Sugar().Warnw("Chain advance stopped early",
			"confirmed", result.Confirmed,
			"requested", result.Requested,
			"error", result.Err,
		)
		return result
	}

	fields := []interface{}{"confirmed", result.Confirmed, "app", t.app.Hex()}
	if counter, ok := t.inputAdder.(InputCounter); ok {
		if total, err := counter.GetNumberOfInputs(ctx, t.app); err == nil {
			fields = append(fields, "inboxInputs", total)
		}
	}
	t.logger.Sugar().Infow("Chain advanced", fields...)
	return result
}
