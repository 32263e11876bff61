package analysis

import (
	"fmt"
	"math"

	"github.com/MujtabaTaimur/InstaMath/internal/expr"
)

// Default tuning: step sizes and sample counts matching interactive graphing
// use. Callers may override via the corresponding parameters.
const (
	DerivativeStep = 1e-4
	IntegralSteps  = 100

	// minIntegralWidth short-circuits the quadrature when x is so close to
	// the anchor that the sub-interval width would underflow the sum.
	minIntegralWidth = 1e-10
)

// IntegralPolicy selects how the trapezoidal sum treats interior samples
// where the integrand is undefined. Endpoint samples (at 0 and at x) always
// propagate undefined regardless of policy.
type IntegralPolicy int

const (
	// SkipUndefined drops undefined interior samples from the sum,
	// treating them as zero contribution.
	SkipUndefined IntegralPolicy = iota
	// PropagateUndefined makes the whole integral undefined as soon as any
	// interior sample is undefined.
	PropagateUndefined
)

// derivative approximates f' by central difference with fixed step h.
type derivative struct {
	inner expr.Function
	h     float64
}

// Derivative returns the central-difference approximation of f with step h.
// If h <= 0 the default step is used.
func Derivative(f expr.Function, h float64) expr.Function {
	if h <= 0 {
		h = DerivativeStep
	}
	return &derivative{inner: f, h: h}
}

func (d *derivative) Eval(x float64) (float64, bool) {
	hi, ok := d.inner.Eval(x + d.h)
	if !ok {
		return 0, false
	}
	lo, ok := d.inner.Eval(x - d.h)
	if !ok {
		return 0, false
	}
	y := (hi - lo) / (2 * d.h)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

func (d *derivative) Text() string {
	return fmt.Sprintf("d/dx(%s)", d.inner.Text())
}

// integral approximates the antiderivative of f anchored at zero by the
// composite trapezoidal rule with a fixed number of sub-intervals.
type integral struct {
	inner  expr.Function
	steps  int
	policy IntegralPolicy
}

// Integral returns G(x) = ∫₀ˣ f(t) dt approximated with the given number of
// sub-intervals. If steps <= 0 the default count is used.
func Integral(f expr.Function, steps int, policy IntegralPolicy) expr.Function {
	if steps <= 0 {
		steps = IntegralSteps
	}
	return &integral{inner: f, steps: steps, policy: policy}
}

func (g *integral) Eval(x float64) (float64, bool) {
	width := x / float64(g.steps)
	if math.Abs(width) < minIntegralWidth {
		return 0, true
	}

	// The anchor and the upper limit must both be in the domain.
	first, ok := g.inner.Eval(0)
	if !ok {
		return 0, false
	}
	last, ok := g.inner.Eval(x)
	if !ok {
		return 0, false
	}

	sum := (first + last) / 2
	for i := 1; i < g.steps; i++ {
		y, ok := g.inner.Eval(width * float64(i))
		if !ok {
			if g.policy == PropagateUndefined {
				return 0, false
			}
			continue
		}
		sum += y
	}

	y := sum * width
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

func (g *integral) Text() string {
	return fmt.Sprintf("integral(0,x)(%s)", g.inner.Text())
}
