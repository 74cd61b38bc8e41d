package curves

import (
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Curve is the big.Int view of secp256k1 used by the sharing and signature
// demos.
type Curve interface {
	// Params returns the curve parameters (Order, etc.)
	Params() *elliptic.CurveParams

	// NewScalar generates a random scalar in [1, N-1]
	NewScalar() (*big.Int, error)

	// ScalarBaseMult computes k * G
	ScalarBaseMult(k *big.Int) (*big.Int, *big.Int)

	// ScalarMult computes k * P
	ScalarMult(Px, Py, k *big.Int) (*big.Int, *big.Int)

	Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int)
}

type Secp256k1 struct{}

// NewSecp256k1 returns the secp256k1 curve.
func NewSecp256k1() Curve {
	return &Secp256k1{}
}

func (c *Secp256k1) Params() *elliptic.CurveParams {
	return secp256k1.S256().Params()
}

func (c *Secp256k1) NewScalar() (*big.Int, error) {
	// rand.Int yields [0, N-2], shift to [1, N-1]
	limit := new(big.Int).Sub(c.Params().N, big.NewInt(1))
	k, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}

func (c *Secp256k1) ScalarBaseMult(k *big.Int) (*big.Int, *big.Int) {
	return secp256k1.S256().ScalarBaseMult(k.Bytes())
}

func (c *Secp256k1) ScalarMult(Px, Py, k *big.Int) (*big.Int, *big.Int) {
	return secp256k1.S256().ScalarMult(Px, Py, k.Bytes())
}

func (c *Secp256k1) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	return secp256k1.S256().Add(x1, y1, x2, y2)
}

// Secp256k1Group implements Group on top of the decred Jacobian arithmetic.
type Secp256k1Group struct{}

func (g *Secp256k1Group) Name() string {
	return "secp256k1"
}

func (g *Secp256k1Group) Order() *big.Int {
	return new(big.Int).Set(secp256k1.S256().N)
}

func (g *Secp256k1Group) NewScalar() (Scalar, error) {
	var b [32]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return nil, err
		}
		var s secp256k1.ModNScalar
		if overflow := s.SetBytes(&b); overflow == 0 && !s.IsZero() {
			return &secpScalar{s: s}, nil
		}
	}
}

func (g *Secp256k1Group) NewScalarFromBigInt(n *big.Int) Scalar {
	r := new(big.Int).Mod(n, secp256k1.S256().N)
	var s secp256k1.ModNScalar
	s.SetByteSlice(r.Bytes())
	return &secpScalar{s: s}
}

func (g *Secp256k1Group) BasePoint() Element {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &p)
	return &secpElement{p: p}
}

func (g *Secp256k1Group) NewElementFromBytes(b []byte) (Element, error) {
	if len(b) == 1 && b[0] == 0 {
		return &secpElement{}, nil
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, err
	}
	var p secp256k1.JacobianPoint
	pub.AsJacobian(&p)
	return &secpElement{p: p}, nil
}

type secpScalar struct {
	s secp256k1.ModNScalar
}

func (s *secpScalar) Bytes() []byte {
	b := s.s.Bytes()
	return b[:]
}

func (s *secpScalar) BigInt() *big.Int {
	b := s.s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

func (s *secpScalar) Add(other Scalar) Scalar {
	o := mustSecpScalar(other)
	var r secp256k1.ModNScalar
	r.Add2(&s.s, &o.s)
	return &secpScalar{s: r}
}

func (s *secpScalar) Mul(other Scalar) Scalar {
	o := mustSecpScalar(other)
	var r secp256k1.ModNScalar
	r.Mul2(&s.s, &o.s)
	return &secpScalar{s: r}
}

func (s *secpScalar) Invert() Scalar {
	var r secp256k1.ModNScalar
	r.InverseValNonConst(&s.s)
	return &secpScalar{s: r}
}

// secpElement holds a Jacobian point; Z == 0 is the point at infinity.
type secpElement struct {
	p secp256k1.JacobianPoint
}

func (e *secpElement) isInfinity() bool {
	return e.p.Z.IsZero() || (e.p.X.IsZero() && e.p.Y.IsZero())
}

func (e *secpElement) Bytes() []byte {
	if e.isInfinity() {
		return []byte{0}
	}
	a := e.p
	a.ToAffine()
	return secp256k1.NewPublicKey(&a.X, &a.Y).SerializeCompressed()
}

func (e *secpElement) Add(other Element) Element {
	o, ok := other.(*secpElement)
	if !ok {
		panic(errTypeMismatch)
	}
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&e.p, &o.p, &r)
	return &secpElement{p: r}
}

func (e *secpElement) ScalarMult(s Scalar) Element {
	k := mustSecpScalar(s)
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&k.s, &e.p, &r)
	return &secpElement{p: r}
}

var errTypeMismatch = errors.New("curves: mixing values from different groups")

func mustSecpScalar(s Scalar) *secpScalar {
	o, ok := s.(*secpScalar)
	if !ok {
		panic(errTypeMismatch)
	}
	return o
}
