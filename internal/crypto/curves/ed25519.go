package curves

import (
	"crypto/rand"
	"math/big"

	"filippo.io/edwards25519"
)

// ed25519Order is l = 2^252 + 27742317777372353535851937790883648493.
var ed25519Order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

type Ed25519Curve struct{}

func (c *Ed25519Curve) Name() string {
	return "ed25519"
}

func (c *Ed25519Curve) Order() *big.Int {
	return new(big.Int).Set(ed25519Order)
}

func (c *Ed25519Curve) NewScalar() (Scalar, error) {
	var b [64]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
	if err != nil {
		return nil, err
	}
	return &Ed25519Scalar{s: s}, nil
}

func (c *Ed25519Curve) NewScalarFromBigInt(n *big.Int) Scalar {
	// edwards25519 is little-endian, big.Int is big-endian
	be := new(big.Int).Mod(n, ed25519Order).Bytes()
	var buf [32]byte
	for i := 0; i < len(be); i++ {
		buf[len(be)-1-i] = be[i]
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		// unreachable after the reduction above
		panic(err)
	}
	return &Ed25519Scalar{s: s}
}

func (c *Ed25519Curve) BasePoint() Element {
	return &Ed25519Point{p: edwards25519.NewGeneratorPoint()}
}

func (c *Ed25519Curve) NewElementFromBytes(b []byte) (Element, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, err
	}
	return &Ed25519Point{p: p}, nil
}

type Ed25519Scalar struct {
	s *edwards25519.Scalar
}

func (s *Ed25519Scalar) Bytes() []byte {
	return s.s.Bytes()
}

func (s *Ed25519Scalar) BigInt() *big.Int {
	le := s.s.Bytes()
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}

func (s *Ed25519Scalar) Add(other Scalar) Scalar {
	o := mustEd25519Scalar(other)
	return &Ed25519Scalar{s: edwards25519.NewScalar().Add(s.s, o.s)}
}

func (s *Ed25519Scalar) Mul(other Scalar) Scalar {
	o := mustEd25519Scalar(other)
	return &Ed25519Scalar{s: edwards25519.NewScalar().Multiply(s.s, o.s)}
}

func (s *Ed25519Scalar) Invert() Scalar {
	return &Ed25519Scalar{s: edwards25519.NewScalar().Invert(s.s)}
}

type Ed25519Point struct {
	p *edwards25519.Point
}

func (p *Ed25519Point) Bytes() []byte {
	return p.p.Bytes()
}

func (p *Ed25519Point) Add(other Element) Element {
	o, ok := other.(*Ed25519Point)
	if !ok {
		panic(errTypeMismatch)
	}
	return &Ed25519Point{p: edwards25519.NewIdentityPoint().Add(p.p, o.p)}
}

func (p *Ed25519Point) ScalarMult(scalar Scalar) Element {
	s := mustEd25519Scalar(scalar)
	return &Ed25519Point{p: edwards25519.NewIdentityPoint().ScalarMult(s.s, p.p)}
}

func mustEd25519Scalar(s Scalar) *Ed25519Scalar {
	o, ok := s.(*Ed25519Scalar)
	if !ok {
		panic(errTypeMismatch)
	}
	return o
}
