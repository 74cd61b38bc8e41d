// Package schnorr signs messages with Schnorr signatures over secp256k1.
// It is the simplified scheme taught on the Taproot page, not BIP-340: keys
// are not x-only and there is no tagged hash.
package schnorr

import (
	crand "crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var ErrInvalidKey = errors.New("schnorr: private key out of range")

// Signature is (R, s) with R = k·G and s = k + e·x.
type Signature struct {
	R *secp256k1.JacobianPoint
	S *big.Int
}

// PublicKey returns X = x·G.
func PublicKey(x *big.Int) (*secp256k1.JacobianPoint, error) {
	if !inRange(x) {
		return nil, ErrInvalidKey
	}
	var X secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(toScalar(x), &X)
	X.ToAffine()
	return &X, nil
}

// Sign signs msg with the private key x.
func Sign(x *big.Int, msg []byte) (*Signature, error) {
	X, err := PublicKey(x)
	if err != nil {
		return nil, err
	}
	n := secp256k1.S256().N

	k, err := randScalar(n)
	if err != nil {
		return nil, err
	}

	var R secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(toScalar(k), &R)
	R.ToAffine()

	e := challenge(&R, X, msg)

	// s = k + e*x mod n
	s := new(big.Int).Mul(e, x)
	s.Add(s, k)
	s.Mod(s, n)

	return &Signature{R: &R, S: s}, nil
}

// Verify checks s·G == R + e·X.
func (sig *Signature) Verify(X *secp256k1.JacobianPoint, msg []byte) bool {
	if sig == nil || sig.R == nil || sig.S == nil || X == nil {
		return false
	}
	n := secp256k1.S256().N
	if sig.S.Sign() < 0 || sig.S.Cmp(n) >= 0 {
		return false
	}

	R, pub := *sig.R, *X
	R.ToAffine()
	pub.ToAffine()
	e := challenge(&R, &pub, msg)

	var lhs secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(toScalar(sig.S), &lhs)

	var eX, rhs secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(toScalar(e), &pub, &eX)
	secp256k1.AddNonConst(&R, &eX, &rhs)

	lhs.ToAffine()
	rhs.ToAffine()
	return lhs.X.Equals(&rhs.X) && lhs.Y.Equals(&rhs.Y)
}

// challenge computes SHA256(R || X || msg) mod n over affine coordinates.
func challenge(R, X *secp256k1.JacobianPoint, msg []byte) *big.Int {
	h := sha256.New()
	h.Write(R.X.Bytes()[:])
	h.Write(R.Y.Bytes()[:])
	h.Write(X.X.Bytes()[:])
	h.Write(X.Y.Bytes()[:])
	h.Write(msg)

	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, secp256k1.S256().N)
}

func inRange(x *big.Int) bool {
	return x != nil && x.Sign() > 0 && x.Cmp(secp256k1.S256().N) < 0
}

func toScalar(v *big.Int) *secp256k1.ModNScalar {
	s := new(secp256k1.ModNScalar)
	s.SetByteSlice(v.Bytes())
	return s
}

// randScalar returns a nonce in [1, n)
func randScalar(n *big.Int) (*big.Int, error) {
	k, err := crand.Int(crand.Reader, new(big.Int).Sub(n, big.NewInt(1)))
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}
