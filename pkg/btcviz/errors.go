package btcviz

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
	"github.com/smallyu/go-btc-visual/internal/crypto/hashlock"
	"github.com/smallyu/go-btc-visual/internal/crypto/merkle"
	"github.com/smallyu/go-btc-visual/internal/mining"
)

// Errors returned by the visualizer. Degenerate curve cases are not errors:
// they come back as ok=false or as the point at infinity.
var (
	ErrCryptoUnavailable = hashing.ErrCryptoUnavailable
	ErrIndexOutOfRange   = merkle.ErrIndexOutOfRange
	ErrUnknownCurve      = curves.ErrUnknownCurve
	ErrInvalidScalar     = curves.ErrInvalidScalar
	ErrDifficulty        = mining.ErrDifficulty
	ErrWrongPreimage     = hashlock.ErrWrongPreimage
	ErrExpired           = hashlock.ErrExpired
	ErrNotExpired        = hashlock.ErrNotExpired
	ErrSettled           = hashlock.ErrSettled
	ErrScalarTooLarge    = errors.New("scalar too large for step-by-step multiplication")
	ErrTooManyLeaves     = errors.New("too many merkle leaves")
	ErrNonFinite         = errors.New("curve result overflows float64")
)

// InputError reports a caller-supplied value that an operation rejected.
// The bridges use Field to highlight the offending input.
type InputError struct {
	Op    string
	Field string
	Err   error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: invalid %s", e.Op, e.Field)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError creates a new InputError.
func NewInputError(op, field string, err error) *InputError {
	return &InputError{Op: op, Field: field, Err: err}
}
