package btcviz

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/smallyu/go-btc-visual/internal/crypto/hashlock"
)

// Contract is the wire form of a hash time-locked contract. The page keeps
// it and sends it back for every settlement attempt.
type Contract struct {
	Hash     string `json:"hash"`
	Expiry   uint32 `json:"expiry"`
	State    string `json:"state"`
	Preimage string `json:"preimage,omitempty"`
}

func contractOf(c *hashlock.HTLC) Contract {
	out := Contract{
		Hash:   hex.EncodeToString(c.Hash[:]),
		Expiry: c.Expiry,
		State:  c.State.String(),
	}
	if c.Preimage != nil {
		out.Preimage = hex.EncodeToString(c.Preimage)
	}
	return out
}

func (c Contract) htlc(op string) (*hashlock.HTLC, error) {
	raw, err := decodeHex(op, "hash", c.Hash)
	if err != nil {
		return nil, err
	}
	if len(raw) != sha256.Size {
		return nil, NewInputError(op, "hash", fmt.Errorf("want %d bytes, got %d", sha256.Size, len(raw)))
	}
	st, err := hashlock.ParseState(c.State)
	if err != nil {
		return nil, NewInputError(op, "state", err)
	}
	h := hashlock.NewFromHash([sha256.Size]byte(raw), c.Expiry)
	h.State = st
	return h, nil
}

// LockHTLC locks to SHA256(secret) until expiry. An empty secretHex draws a
// random secret. The secret is returned to the sender only.
func (v *Visualizer) LockHTLC(secretHex string, expiry uint32) (Contract, string, error) {
	var secret []byte
	var err error
	if secretHex == "" {
		secret, err = hashlock.NewSecret()
	} else {
		secret, err = decodeHex("lockHTLC", "secret", secretHex)
	}
	if err != nil {
		return Contract{}, "", err
	}
	return contractOf(hashlock.New(secret, expiry)), hex.EncodeToString(secret), nil
}

// ClaimHTLC reveals preimage at the given height. Failures are the hashlock
// errors (ErrWrongPreimage, ErrExpired, ErrSettled).
func (v *Visualizer) ClaimHTLC(c Contract, preimageHex string, height uint32) (Contract, error) {
	h, err := c.htlc("claimHTLC")
	if err != nil {
		return c, err
	}
	preimage, err := decodeHex("claimHTLC", "preimage", preimageHex)
	if err != nil {
		return c, err
	}
	if err := h.Claim(preimage, height); err != nil {
		return c, err
	}
	return contractOf(h), nil
}

// RefundHTLC returns the funds to the sender once expiry is reached.
func (v *Visualizer) RefundHTLC(c Contract, height uint32) (Contract, error) {
	h, err := c.htlc("refundHTLC")
	if err != nil {
		return c, err
	}
	if err := h.Refund(height); err != nil {
		return c, err
	}
	return contractOf(h), nil
}
