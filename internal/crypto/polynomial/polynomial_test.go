package polynomial

import (
	"math/big"
	"testing"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
)

func TestNew(t *testing.T) {
	curve := curves.NewSecp256k1()

	t.Run("with random secret", func(t *testing.T) {
		poly, err := New(curve, 2, nil)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}
		if len(poly.Coefficients) != 3 {
			t.Errorf("Expected 3 coefficients for degree 2, got %d", len(poly.Coefficients))
		}
		for i, c := range poly.Coefficients {
			if c == nil || c.Sign() <= 0 || c.Cmp(curve.Params().N) >= 0 {
				t.Errorf("Coefficient %d is out of range", i)
			}
		}
	})

	t.Run("with provided secret", func(t *testing.T) {
		secret := big.NewInt(12345)
		poly, err := New(curve, 2, secret)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}
		if poly.Coefficients[0].Cmp(secret) != 0 {
			t.Errorf("Expected a_0 = %s, got %s", secret, poly.Coefficients[0])
		}
		if poly.Coefficients[0] == secret {
			t.Error("a_0 must not alias the caller's secret")
		}
	})

	t.Run("degree 0", func(t *testing.T) {
		poly, err := New(curve, 0, big.NewInt(999))
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}
		if poly.Degree() != 0 {
			t.Errorf("Expected degree 0, got %d", poly.Degree())
		}
	})
}

func TestEvaluate(t *testing.T) {
	curve := curves.NewSecp256k1()
	q := curve.Params().N

	// f(x) = 1 + 2x + 3x^2
	poly := &Polynomial{
		Coefficients: []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
		Curve:        curve,
	}
	for x, want := range map[int64]int64{0: 1, 1: 6, 2: 17, 3: 34} {
		if got := poly.Evaluate(big.NewInt(x)); got.Cmp(big.NewInt(want)) != 0 {
			t.Errorf("f(%d) = %s, expected %d", x, got, want)
		}
	}

	// f(x) = (q-1) + 2x wraps around
	wrap := &Polynomial{
		Coefficients: []*big.Int{new(big.Int).Sub(q, big.NewInt(1)), big.NewInt(2)},
		Curve:        curve,
	}
	if got := wrap.Evaluate(big.NewInt(1)); got.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("f(1) = %s, expected 1 (after mod q)", got)
	}
}

func TestEvaluateMulti(t *testing.T) {
	// f(x) = 5 + 3x
	poly := &Polynomial{
		Coefficients: []*big.Int{big.NewInt(5), big.NewInt(3)},
		Curve:        curves.NewSecp256k1(),
	}
	xs := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(2), big.NewInt(10)}
	expected := []int64{5, 8, 11, 35}

	results := poly.EvaluateMulti(xs)
	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}
	for i, r := range results {
		if r.Cmp(big.NewInt(expected[i])) != 0 {
			t.Errorf("f(%s) = %s, expected %d", xs[i], r, expected[i])
		}
	}
}
