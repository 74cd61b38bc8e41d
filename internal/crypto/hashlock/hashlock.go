// Package hashlock models the hash time-locked contract used on the atomic
// swap page: funds move to the counterparty who reveals the SHA-256 preimage
// before the expiry height, or back to the sender afterwards.
package hashlock

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
)

var (
	ErrWrongPreimage = errors.New("hashlock: preimage does not match hash")
	ErrExpired       = errors.New("hashlock: contract expired")
	ErrNotExpired    = errors.New("hashlock: refund before expiry")
	ErrSettled       = errors.New("hashlock: contract already settled")
)

// SecretSize is the length of secrets produced by NewSecret.
const SecretSize = 32

// State of a contract.
type State int

const (
	Locked State = iota
	Claimed
	Refunded
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Claimed:
		return "claimed"
	case Refunded:
		return "refunded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, error) {
	for _, st := range []State{Locked, Claimed, Refunded} {
		if s == st.String() {
			return st, nil
		}
	}
	return 0, fmt.Errorf("hashlock: unknown state %q", s)
}

// HTLC is a single hash time-locked output.
type HTLC struct {
	Hash   [sha256.Size]byte
	Expiry uint32 // block height from which the sender may refund
	State  State

	// Preimage is filled in by a successful claim. On the swap page the
	// other chain's contract is then claimed with it.
	Preimage []byte
}

// NewSecret draws a random preimage.
func NewSecret() ([]byte, error) {
	s := make([]byte, SecretSize)
	if _, err := rand.Read(s); err != nil {
		return nil, err
	}
	return s, nil
}

// New locks to SHA256(secret) until expiry.
func New(secret []byte, expiry uint32) *HTLC {
	return &HTLC{Hash: sha256.Sum256(secret), Expiry: expiry}
}

// NewFromHash locks to a hash published by the counterparty, who alone knows
// the preimage.
func NewFromHash(hash [sha256.Size]byte, expiry uint32) *HTLC {
	return &HTLC{Hash: hash, Expiry: expiry}
}

// Claim settles the contract to the receiver at the given height.
func (c *HTLC) Claim(preimage []byte, height uint32) error {
	if c.State != Locked {
		return ErrSettled
	}
	if height >= c.Expiry {
		return fmt.Errorf("%w at height %d", ErrExpired, c.Expiry)
	}
	sum := sha256.Sum256(preimage)
	if subtle.ConstantTimeCompare(sum[:], c.Hash[:]) != 1 {
		return ErrWrongPreimage
	}
	c.State = Claimed
	c.Preimage = append([]byte(nil), preimage...)
	return nil
}

// Refund returns the funds to the sender once expiry is reached.
func (c *HTLC) Refund(height uint32) error {
	if c.State != Locked {
		return ErrSettled
	}
	if height < c.Expiry {
		return fmt.Errorf("%w: %d blocks left", ErrNotExpired, c.Expiry-height)
	}
	c.State = Refunded
	return nil
}
