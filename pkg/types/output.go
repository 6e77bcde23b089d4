package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Uint64 decodes from a JSON number or a decimal/0x-hex string. Indexers disagree on
// whether big integer scalars are sent quoted.
type Uint64 uint64

func (u *Uint64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = unquoted
	}
	var (
		v   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q: %w", s, err)
	}
	*u = Uint64(v)
	return nil
}

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(u), 10)), nil
}

// InputRef identifies the input that produced an output.
type InputRef struct {
	Id      string `json:"id"`
	Index   Uint64 `json:"index"`
	Payload string `json:"payload"`
}

// Proof is the inclusion proof of an output. An empty sibling list means the proof
// has not been computed yet.
type Proof struct {
	OutputIndex          Uint64   `json:"outputIndex"`
	OutputHashesSiblings []string `json:"outputHashesSiblings"`
}

func (p *Proof) IsEmpty() bool {
	return p == nil || len(p.OutputHashesSiblings) == 0
}

// Siblings decodes the sibling hashes into fixed 32-byte values.
func (p *Proof) Siblings() ([][32]byte, error) {
	if p == nil {
		return nil, nil
	}
	siblings := make([][32]byte, len(p.OutputHashesSiblings))
	for i, s := range p.OutputHashesSiblings {
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid sibling hash %d: %w", i, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid sibling hash %d: expected 32 bytes, got %d", i, len(b))
		}
		copy(siblings[i][:], b)
	}
	return siblings, nil
}

// Output is a voucher emitted by the off-chain execution layer.
type Output struct {
	Index       Uint64    `json:"index"`
	Input       *InputRef `json:"input,omitempty"`
	Destination string    `json:"destination"`
	Value       string    `json:"value"`
	Payload     string    `json:"payload"`
	Executed    bool      `json:"executed"`
	Proof       *Proof    `json:"proof,omitempty"`
}

func (o *Output) PayloadBytes() ([]byte, error) {
	return hexutil.Decode(o.Payload)
}

// DecodedOutput is an output annotated with its human readable description and the
// best proof obtained for it.
type DecodedOutput struct {
	Index       uint64    `json:"index"`
	Description string    `json:"description"`
	PayloadHex  string    `json:"payloadHex"`
	Destination string    `json:"destination"`
	Value       string    `json:"value"`
	Input       *InputRef `json:"input,omitempty"`
	Executed    bool      `json:"executed"`
	Proof       *Proof    `json:"proof,omitempty"`

	// OutputsRoot is the outputs merkle root reconstructed from the proof, when present.
	OutputsRoot *common.Hash `json:"outputsRoot,omitempty"`

	// ProofErr holds the last proof fetch error when the proof is still missing.
	ProofErr error `json:"-"`
}

func (d *DecodedOutput) ProofPending() bool {
	return d.Proof.IsEmpty()
}
