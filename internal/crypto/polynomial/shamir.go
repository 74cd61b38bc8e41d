package polynomial

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
)

var (
	ErrThreshold      = errors.New("polynomial: threshold must be in [1, n]")
	ErrNotEnough      = errors.New("polynomial: not enough shares")
	ErrDuplicateShare = errors.New("polynomial: duplicate share index")
)

// Share is the point (Index, Value) on the dealer's polynomial.
type Share struct {
	Index int
	Value *big.Int
}

// Split deals n shares of secret such that any threshold of them recover it.
// It also returns the Feldman commitments of the dealing polynomial.
func Split(curve curves.Curve, secret *big.Int, threshold, n int) ([]Share, []Commitment, error) {
	if threshold < 1 || threshold > n {
		return nil, nil, fmt.Errorf("%w: t=%d n=%d", ErrThreshold, threshold, n)
	}
	poly, err := New(curve, threshold-1, secret)
	if err != nil {
		return nil, nil, err
	}

	shares := make([]Share, n)
	for i := range shares {
		shares[i] = Share{Index: i + 1, Value: poly.Evaluate(big.NewInt(int64(i + 1)))}
	}
	return shares, poly.Commitments(), nil
}

// Reconstruct interpolates f(0) from exactly the shares given. It needs at
// least threshold shares; with fewer it silently returns a wrong value, which
// the page uses to show why the threshold matters.
func Reconstruct(curve curves.Curve, shares []Share) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, ErrNotEnough
	}
	q := curve.Params().N

	seen := make(map[int]bool, len(shares))
	for _, s := range shares {
		if s.Index <= 0 || seen[s.Index] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateShare, s.Index)
		}
		seen[s.Index] = true
	}

	secret := new(big.Int)
	for i, si := range shares {
		// Lagrange basis at zero: prod x_j / (x_j - x_i)
		num := big.NewInt(1)
		den := big.NewInt(1)
		xi := big.NewInt(int64(si.Index))
		for j, sj := range shares {
			if i == j {
				continue
			}
			xj := big.NewInt(int64(sj.Index))
			num.Mul(num, xj)
			den.Mul(den, new(big.Int).Sub(xj, xi))
		}
		den.Mod(den, q)
		l := new(big.Int).ModInverse(den, q)
		l.Mul(l, num)

		secret.Add(secret, l.Mul(l, si.Value))
		secret.Mod(secret, q)
	}
	return secret, nil
}

// VerifyShare checks share.Value·G == sum(C_i · index^i).
func VerifyShare(curve curves.Curve, share Share, commitments []Commitment) bool {
	if len(commitments) == 0 || share.Value == nil {
		return false
	}
	q := curve.Params().N
	x := big.NewInt(int64(share.Index))

	var accX, accY *big.Int
	pow := big.NewInt(1)
	for _, c := range commitments {
		tx, ty := curve.ScalarMult(c.X, c.Y, pow)
		if accX == nil {
			accX, accY = tx, ty
		} else {
			accX, accY = curve.Add(accX, accY, tx, ty)
		}
		pow = new(big.Int).Mod(new(big.Int).Mul(pow, x), q)
	}

	ex, ey := curve.ScalarBaseMult(share.Value)
	return ex.Cmp(accX) == 0 && ey.Cmp(accY) == 0
}
