// Package btcviz is the computational core of the Bitcoin visualizer:
// real-number elliptic-curve arithmetic for drawing the group law, and the
// SHA-256, Merkle, mining and key helpers the other pages animate.
//
// The curve arithmetic deliberately works over float64 instead of a finite
// field so that points move continuously on a canvas. It is not
// cryptography.
package btcviz

import (
	"context"
	"log/slog"
	"math"

	"github.com/smallyu/go-btc-visual/internal/crypto/curves"
	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
	"github.com/smallyu/go-btc-visual/internal/crypto/merkle"
	"github.com/smallyu/go-btc-visual/internal/mining"
)

type (
	Point       = curves.Point
	Curve       = curves.RealCurve
	DigestPair  = hashing.Digest
	ProofStep   = merkle.ProofStep
	MineResult  = mining.Result
	MineAttempt = mining.Attempt
)

// Infinity is the point at infinity.
func Infinity() Point { return curves.Infinity() }

// NewPoint returns the finite point (x, y).
func NewPoint(x, y float64) Point { return curves.NewPoint(x, y) }

// Visualizer bundles the helpers with one hasher, tolerance and set of
// limits. It is safe for concurrent use.
type Visualizer struct {
	hasher    *hashing.Hasher
	builder   *merkle.Builder
	tolerance float64
	logger    *slog.Logger

	maxScalar     int
	maxLeaves     int
	maxDifficulty int
	yieldEvery    int
	yield         func(context.Context) error
}

// Option configures a Visualizer.
type Option func(*Visualizer)

// WithHasher replaces the SHA-256 primitive. A nil h leaves every hashing
// operation failing with ErrCryptoUnavailable.
func WithHasher(h *hashing.Hasher) Option {
	return func(v *Visualizer) { v.hasher = h }
}

// WithTolerance sets the "same point" tolerance of curve operations.
func WithTolerance(tol float64) Option {
	return func(v *Visualizer) { v.tolerance = tol }
}

func WithLogger(l *slog.Logger) Option {
	return func(v *Visualizer) { v.logger = l }
}

// WithMiningYield sets the hook Mine runs between batches of attempts. The
// WASM build uses SleepYield so that the page stays responsive.
func WithMiningYield(fn func(context.Context) error) Option {
	return func(v *Visualizer) { v.yield = fn }
}

// SleepYield returns a mining yield hook that blocks for d.
var SleepYield = mining.SleepYield

// WithLimits bounds the inputs accepted from untrusted callers. Zero keeps
// the default for that limit.
func WithLimits(maxScalar, maxLeaves, maxDifficulty, yieldEvery int) Option {
	return func(v *Visualizer) {
		if maxScalar > 0 {
			v.maxScalar = maxScalar
		}
		if maxLeaves > 0 {
			v.maxLeaves = maxLeaves
		}
		if maxDifficulty > 0 {
			v.maxDifficulty = maxDifficulty
		}
		if yieldEvery > 0 {
			v.yieldEvery = yieldEvery
		}
	}
}

// New returns a Visualizer with SHA-256 and the default tolerance.
func New(opts ...Option) *Visualizer {
	v := &Visualizer{
		hasher:        hashing.New(),
		tolerance:     curves.DefaultTolerance,
		maxScalar:     1000,
		maxLeaves:     1024,
		maxDifficulty: mining.DefaultMaxDifficulty,
		yieldEvery:    mining.DefaultYieldEvery,
	}
	for _, o := range opts {
		o(v)
	}
	if v.hasher == nil {
		v.hasher = hashing.NewWith(nil)
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	v.builder = merkle.NewBuilder(v.hasher)
	return v
}

// Curve returns y² = x³ + ax + b with the visualizer's tolerance.
func (v *Visualizer) Curve(a, b float64) *Curve {
	return &curves.RealCurve{A: a, B: b, Tolerance: v.tolerance}
}

// SolveY returns the non-negative y on y² = x³ + ax + b, or (NaN, false)
// when x has no real point.
func (v *Visualizer) SolveY(x, a, b float64) (float64, bool) {
	return v.Curve(a, b).SolveY(x)
}

// AddPoints adds p1 and p2 on a curve with coefficient a. The b coefficient
// does not enter the addition formulas.
func (v *Visualizer) AddPoints(p1, p2 Point, a float64) Point {
	return v.Curve(a, 0).Add(p1, p2)
}

// ScalarMult computes k·p by repeated addition.
func (v *Visualizer) ScalarMult(k int, p Point, a float64) Point {
	return v.Curve(a, 0).ScalarMult(k, p)
}

// ScalarMultBounded is ScalarMult for untrusted callers: k above the limit
// is rejected, and a result outside float64 range is ErrNonFinite rather
// than a point with NaN or Inf coordinates.
func (v *Visualizer) ScalarMultBounded(k int, p Point, a float64) (Point, error) {
	if err := v.CheckScalar(k); err != nil {
		return Point{}, err
	}
	q := v.ScalarMult(k, p, a)
	if !Finite(q) {
		return Point{}, ErrNonFinite
	}
	return q, nil
}

// Finite reports whether p is the point at infinity or has finite
// coordinates. Bridges encode infinity as null, so a diverged result must
// be told apart before encoding.
func Finite(p Point) bool {
	return p.IsInfinity() || (!math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0))
}

// ScalarMultSteps returns p, 2p, ..., kp for animation. k above the
// configured limit is rejected.
func (v *Visualizer) ScalarMultSteps(k int, p Point, a float64) ([]Point, error) {
	if err := v.CheckScalar(k); err != nil {
		return nil, err
	}
	return v.Curve(a, 0).ScalarMultSteps(k, p), nil
}

// CheckScalar validates k against the step-by-step limit.
func (v *Visualizer) CheckScalar(k int) error {
	if k > v.maxScalar {
		return NewInputError("scalarMult", "k", ErrScalarTooLarge)
	}
	return nil
}

// Digest hashes message with SHA-256.
func (v *Visualizer) Digest(message string) (DigestPair, error) {
	return v.hasher.Sum(message)
}

// DoubleDigest hashes message with SHA-256 twice.
func (v *Visualizer) DoubleDigest(message string) (DigestPair, error) {
	return v.hasher.DoubleSum(message)
}

// DigestOrSentinel is Digest for display code: on failure it returns the
// "Error: ..." sentinel in place of the hex string. double selects
// DoubleDigest.
func (v *Visualizer) DigestOrSentinel(message string, double bool) DigestPair {
	sum := v.Digest
	if double {
		sum = v.DoubleDigest
	}
	d, err := sum(message)
	if err != nil {
		v.logger.Warn("digest_unavailable", "err", err)
		return hashing.ErrorDigest(err)
	}
	return d
}

func (v *Visualizer) checkLeaves(op string, leaves []string) error {
	if len(leaves) > v.maxLeaves {
		return NewInputError(op, "leaves", ErrTooManyLeaves)
	}
	return nil
}

// PairAndHash computes the next Merkle level.
func (v *Visualizer) PairAndHash(level []string) ([]string, error) {
	if err := v.checkLeaves("pairAndHash", level); err != nil {
		return nil, err
	}
	return v.builder.PairAndHash(level)
}

// MerkleRoot reduces leaves to their root; no leaves give "".
func (v *Visualizer) MerkleRoot(leaves []string) (string, error) {
	if err := v.checkLeaves("merkleRoot", leaves); err != nil {
		return "", err
	}
	return v.builder.Root(leaves)
}

// MerkleTree returns every level from leaves to root.
func (v *Visualizer) MerkleTree(leaves []string) ([][]string, error) {
	if err := v.checkLeaves("merkleTree", leaves); err != nil {
		return nil, err
	}
	return v.builder.Tree(leaves)
}

// MerkleProof returns the sibling path of leaves[index].
func (v *Visualizer) MerkleProof(leaves []string, index int) ([]ProofStep, error) {
	if err := v.checkLeaves("merkleProof", leaves); err != nil {
		return nil, err
	}
	return v.builder.Proof(leaves, index)
}

// VerifyMerkleProof checks a proof produced by MerkleProof.
func (v *Visualizer) VerifyMerkleProof(leaf string, steps []ProofStep, root string) (bool, error) {
	return v.builder.VerifyProof(leaf, steps, root)
}

// Mine runs the proof-of-work loop until a nonce is found or ctx is done.
// onAttempt may be nil.
func (v *Visualizer) Mine(ctx context.Context, data string, difficulty int, onAttempt func(MineAttempt)) (MineResult, error) {
	m := &mining.Miner{
		Hasher:        v.hasher,
		YieldEvery:    v.yieldEvery,
		MaxDifficulty: v.maxDifficulty,
		OnAttempt:     onAttempt,
		Yield:         v.yield,
		Logger:        v.logger,
	}
	return m.Mine(ctx, data, difficulty, 0)
}

var std = New()

// SolveY returns the non-negative y with y² = x³ + ax + b, or (NaN, false).
func SolveY(x, a, b float64) (float64, bool) { return std.SolveY(x, a, b) }

// AddPoints applies the chord-and-tangent rule with the default tolerance.
func AddPoints(p1, p2 Point, a float64) Point { return std.AddPoints(p1, p2, a) }

// ScalarMult computes k·p by k-1 repeated additions.
func ScalarMult(k int, p Point, a float64) Point { return std.ScalarMult(k, p, a) }

// Digest hashes message with SHA-256.
func Digest(message string) (DigestPair, error) { return std.Digest(message) }

func PairAndHash(level []string) ([]string, error) { return std.PairAndHash(level) }

func MerkleRoot(leaves []string) (string, error) { return std.MerkleRoot(leaves) }

func MerkleTree(leaves []string) ([][]string, error) { return std.MerkleTree(leaves) }
