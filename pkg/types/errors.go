package types

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialNotFound is returned when a registry selector matches no known account.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrIndexerUnavailable is returned when the indexer query endpoint answers 404.
	ErrIndexerUnavailable = errors.New("indexer unavailable")

	// ErrNumericOverflow is returned when a big integer does not fit the wire integer type.
	ErrNumericOverflow = errors.New("numeric value overflows wire integer")

	ErrProofUnavailable      = errors.New("output proof is not available yet")
	ErrOutputAlreadyExecuted = errors.New("output was already executed")
	ErrUnknownOutputIndex    = errors.New("unknown output index")
)

// NetworkError covers transport failures, non-2xx responses and unparsable bodies.
type NetworkError struct {
	Op         string
	Url        string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.Url, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Url, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Url, e.Err)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SigningError wraps a failure of the signing operation itself.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
