package curves

import (
	"fmt"
	"math"
)

// DefaultTolerance is the absolute tolerance used to decide whether two
// points coincide when a RealCurve does not set one.
const DefaultTolerance = 1e-3

// Point is a point on a real-number curve. It is either a finite (X, Y) pair
// or the point at infinity, which only Infinity() produces.
type Point struct {
	X, Y float64
	inf  bool
}

// NewPoint returns the finite point (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Infinity returns the identity element of the group law.
func Infinity() Point {
	return Point{inf: true}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.inf
}

func (p Point) String() string {
	if p.inf {
		return "O"
	}
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// RealCurve is a short Weierstrass curve y² = x³ + Ax + B over float64.
//
// This is a visual model of the group law, not cryptography: there is no
// finite field, and rounding error grows with every addition.
type RealCurve struct {
	A, B float64

	// Tolerance for "same point" and "same x" checks. Zero selects
	// DefaultTolerance.
	Tolerance float64
}

// NewRealCurve returns the curve y² = x³ + ax + b with the default tolerance.
func NewRealCurve(a, b float64) *RealCurve {
	return &RealCurve{A: a, B: b, Tolerance: DefaultTolerance}
}

func (c *RealCurve) tol() float64 {
	if c.Tolerance > 0 {
		return c.Tolerance
	}
	return DefaultTolerance
}

func (c *RealCurve) near(u, v float64) bool {
	return math.Abs(u-v) < c.tol()
}

// rhs evaluates x³ + Ax + B.
func (c *RealCurve) rhs(x float64) float64 {
	return x*x*x + c.A*x + c.B
}

// SolveY returns the non-negative y with y² = x³ + Ax + B. When the right
// hand side is negative there is no real solution and it returns (NaN, false).
// Callers reconstruct the lower branch as -y.
func (c *RealCurve) SolveY(x float64) (float64, bool) {
	v := c.rhs(x)
	if v < 0 {
		return math.NaN(), false
	}
	return math.Sqrt(v), true
}

// Contains reports whether p satisfies the curve equation within tolerance.
// The point at infinity is on every curve.
func (c *RealCurve) Contains(p Point) bool {
	if p.inf {
		return true
	}
	return c.near(p.Y*p.Y, c.rhs(p.X))
}

// IsSingular reports whether the discriminant 4A³ + 27B² vanishes, in which
// case the curve has a cusp or a self-intersection and the group law breaks.
func (c *RealCurve) IsSingular() bool {
	return 4*c.A*c.A*c.A+27*c.B*c.B == 0
}

// Negate reflects p across the x-axis.
func (c *RealCurve) Negate(p Point) Point {
	if p.inf {
		return p
	}
	return Point{X: p.X, Y: -p.Y}
}

// Add applies the chord-and-tangent rule. Degenerate cases (vertical tangent
// or vertical chord) return the point at infinity. Inputs are not checked
// against the curve equation.
func (c *RealCurve) Add(p1, p2 Point) Point {
	if p1.inf {
		return p2
	}
	if p2.inf {
		return p1
	}

	var m float64
	switch {
	case c.near(p1.X, p2.X) && c.near(p1.Y, p2.Y):
		if c.near(p1.Y, 0) {
			return Infinity()
		}
		// tangent
		m = (3*p1.X*p1.X + c.A) / (2 * p1.Y)
	case c.near(p1.X, p2.X):
		return Infinity()
	default:
		// secant
		m = (p2.Y - p1.Y) / (p2.X - p1.X)
	}

	x3 := m*m - p1.X - p2.X
	y3 := m*(p1.X-x3) - p1.Y
	return Point{X: x3, Y: y3}
}

// ScalarMult computes k·p by k-1 repeated additions, so that each step
// matches one frame of the addition animation. If an intermediate sum is the
// point at infinity it stops and returns infinity. k <= 0 yields infinity.
func (c *RealCurve) ScalarMult(k int, p Point) Point {
	if k <= 0 {
		return Infinity()
	}
	acc := p
	for i := 1; i < k; i++ {
		acc = c.Add(acc, p)
		if acc.inf {
			break
		}
	}
	return acc
}

// ScalarMultSteps returns the accumulated points p, 2p, ..., kp. The slice
// ends at the first point at infinity if one occurs.
func (c *RealCurve) ScalarMultSteps(k int, p Point) []Point {
	if k <= 0 {
		return nil
	}
	steps := make([]Point, 0, k)
	acc := p
	steps = append(steps, acc)
	for i := 1; i < k; i++ {
		acc = c.Add(acc, p)
		steps = append(steps, acc)
		if acc.inf {
			break
		}
	}
	return steps
}
