package settlement

import "fmt"

// State is the settlement progress of a single output.
type State int

const (
	StateFetched State = iota
	StateDecoded
	StateProofRequested
	StateProofReady
	StateProofMissingOnce
	StateAdvanceTriggered
	// StateProofPending is final for an output whose proof stayed empty after the
	// single advance.
	StateProofPending
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateFetched:
		return "Fetched"
	case StateDecoded:
		return "Decoded"
	case StateProofRequested:
		return "ProofRequested"
	case StateProofReady:
		return "ProofReady"
	case StateProofMissingOnce:
		return "ProofMissingOnce"
	case StateAdvanceTriggered:
		return "AdvanceTriggered"
	case StateProofPending:
		return "ProofPending"
	case StateSubmitted:
		return "Submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
