package e2e

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
	"github.com/smallyu/go-btc-visual/pkg/btcviz"
)

// TestBlockPipeline follows the block page: hash transactions, build the
// Merkle root, mine a header over it and prove inclusion of one transaction.
func TestBlockPipeline(t *testing.T) {
	viz := btcviz.New()

	// 1. Transaction hashes
	var leaves []string
	for i := 0; i < 5; i++ {
		d, err := viz.Digest(fmt.Sprintf("tx-%d", i))
		if err != nil {
			t.Fatalf("Digest failed: %v", err)
		}
		leaves = append(leaves, d.Hex)
	}

	// 2. Merkle root, checked by hand for the odd-length levels
	root, err := viz.MerkleRoot(leaves)
	if err != nil {
		t.Fatalf("MerkleRoot failed: %v", err)
	}
	h := func(s string) string { return hashing.Sum(s).Hex }
	l1 := []string{h(leaves[0] + leaves[1]), h(leaves[2] + leaves[3]), h(leaves[4] + leaves[4])}
	l2 := []string{h(l1[0] + l1[1]), h(l1[2] + l1[2])}
	if want := h(l2[0] + l2[1]); root != want {
		t.Fatalf("root = %s, want %s", root, want)
	}

	// 3. Mine over the root
	header := "prev=000000|root=" + root + "|nonce="
	res, err := viz.Mine(context.Background(), header, 2, nil)
	if err != nil || !res.Found {
		t.Fatalf("Mine failed: %v", err)
	}
	if res.Last.Digest.Hex[:2] != "00" {
		t.Errorf("mined hash %s does not meet difficulty", res.Last.Digest.Hex)
	}

	// 4. Inclusion proof
	proof, err := viz.MerkleProof(leaves, 4)
	if err != nil {
		t.Fatalf("MerkleProof failed: %v", err)
	}
	ok, err := viz.VerifyMerkleProof(leaves[4], proof, root)
	if err != nil || !ok {
		t.Fatalf("proof rejected: %v", err)
	}
}

// TestCurveWalk follows the curve page: repeatedly add the generator and check
// every step stays on the curve.
func TestCurveWalk(t *testing.T) {
	viz := btcviz.New()
	c := viz.Curve(-1, 1)

	y, ok := c.SolveY(0)
	if !ok {
		t.Fatal("x=0 should be on the curve")
	}
	p := btcviz.NewPoint(0, y)

	steps, err := viz.ScalarMultSteps(5, p, c.A)
	if err != nil {
		t.Fatalf("ScalarMultSteps failed: %v", err)
	}
	for i, s := range steps {
		if s.IsInfinity() {
			break
		}
		lhs := s.Y * s.Y
		rhs := s.X*s.X*s.X + c.A*s.X + c.B
		if math.Abs(lhs-rhs) > 1e-6*math.Max(1, math.Abs(rhs)) {
			t.Errorf("step %d %s is off the curve", i+1, s)
		}
	}
}
