package curves

import (
	"errors"
	"math/big"
	"strings"
)

var (
	ErrUnknownCurve  = errors.New("curves: unknown curve")
	ErrInvalidScalar = errors.New("curves: scalar out of range")
)

// Element is a point of a prime-order group used by the "real curve" pages.
// It hides the coordinate system (Jacobian, Edwards) of the backing library.
type Element interface {
	// Bytes returns the compressed serialization of the element.
	Bytes() []byte

	Add(e Element) Element

	ScalarMult(s Scalar) Element
}

// Scalar is a value in the group's scalar field.
type Scalar interface {
	Bytes() []byte

	// BigInt returns the scalar as a big-endian integer.
	BigInt() *big.Int

	Add(s Scalar) Scalar
	Mul(s Scalar) Scalar

	// Invert returns the modular inverse of the scalar.
	Invert() Scalar
}

// Group abstracts a real cryptographic curve so that the same key derivation
// code can show secp256k1 next to Ed25519.
type Group interface {
	Name() string

	// NewScalar generates a uniformly random scalar.
	NewScalar() (Scalar, error)

	// NewScalarFromBigInt reduces n modulo the group order.
	NewScalarFromBigInt(n *big.Int) Scalar

	NewElementFromBytes(b []byte) (Element, error)

	// BasePoint returns the generator G.
	BasePoint() Element

	// Order returns the order of G.
	Order() *big.Int
}

// GroupByName resolves a curve by its case-insensitive name.
func GroupByName(name string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "secp256k1":
		return &Secp256k1Group{}, nil
	case "ed25519", "edwards25519":
		return &Ed25519Curve{}, nil
	default:
		return nil, ErrUnknownCurve
	}
}

// PublicKey returns priv·G in the group's compressed encoding. The private
// key must lie in [1, order).
func PublicKey(g Group, priv *big.Int) ([]byte, error) {
	if priv == nil || priv.Sign() <= 0 || priv.Cmp(g.Order()) >= 0 {
		return nil, ErrInvalidScalar
	}
	return g.BasePoint().ScalarMult(g.NewScalarFromBigInt(priv)).Bytes(), nil
}
