// Package polynomial implements the secret-sharing arithmetic behind the
// threshold signature page: random polynomials over the secp256k1 scalar
// field, Shamir shares and Feldman commitments.
package polynomial

import (
	"math/big"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
)

// Polynomial is f(x) = a_0 + a_1*x + ... + a_t*x^t mod the curve order.
type Polynomial struct {
	Coefficients []*big.Int
	Curve        curves.Curve
}

// New returns a random polynomial of the given degree whose constant term is
// secret, or a random one when secret is nil.
func New(curve curves.Curve, degree int, secret *big.Int) (*Polynomial, error) {
	coeffs := make([]*big.Int, degree+1)
	var err error

	if secret == nil {
		coeffs[0], err = curve.NewScalar()
		if err != nil {
			return nil, err
		}
	} else {
		coeffs[0] = new(big.Int).Mod(secret, curve.Params().N)
	}

	for i := 1; i <= degree; i++ {
		coeffs[i], err = curve.NewScalar()
		if err != nil {
			return nil, err
		}
	}

	return &Polynomial{Coefficients: coeffs, Curve: curve}, nil
}

// Degree is t, one less than the number of shares needed to recover a_0.
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate computes f(x) mod q with Horner's rule.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	q := p.Curve.Params().N
	degree := p.Degree()
	result := new(big.Int).Set(p.Coefficients[degree])

	for i := degree - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.Coefficients[i])
		result.Mod(result, q)
	}
	return result
}

// EvaluateMulti calculates f(x) for multiple x values
func (p *Polynomial) EvaluateMulti(xs []*big.Int) []*big.Int {
	results := make([]*big.Int, len(xs))
	for i, x := range xs {
		results[i] = p.Evaluate(x)
	}
	return results
}

// Commitment is a_i·G for one coefficient.
type Commitment struct {
	X, Y *big.Int
}

// Commitments publishes a_i·G for every coefficient so that share holders
// can check their share without learning the secret.
func (p *Polynomial) Commitments() []Commitment {
	out := make([]Commitment, len(p.Coefficients))
	for i, a := range p.Coefficients {
		out[i].X, out[i].Y = p.Curve.ScalarBaseMult(a)
	}
	return out
}
