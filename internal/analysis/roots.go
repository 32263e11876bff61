package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/MujtabaTaimur/InstaMath/internal/expr"
)

// ErrNoBracket reports a bisection call whose endpoints are undefined or do
// not bracket a sign change.
var ErrNoBracket = errors.New("no sign change bracket")

const (
	RootSamples       = 1000
	InflectionSamples = 500

	// DedupRadius is the minimum separation between two reported points.
	DedupRadius = 1e-3

	// saneMagnitude rejects sign flips across asymptotes: both samples of a
	// candidate bracket must stay below this bound.
	saneMagnitude = 1e6

	rootTolerance = 1e-6
	maxBisections = 50

	// Step sizes used to build the second-derivative approximation for
	// inflection detection. The inner difference uses a finer step than the
	// outer one to keep the compounded truncation error stable.
	inflectionInnerStep = 1e-3
	inflectionOuterStep = 1e-2
)

// Point is an (x, y) pair on a curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FindRoots scans [minX, maxX] with the given number of equal steps and
// refines every bracketed sign change by bisection. Results are ordered by
// scan position; candidates within DedupRadius of an already-reported root
// are dropped. An undefined sample resets the scan state so a sign flip
// across a domain gap is never treated as a bracket. If samples <= 0 the
// default count is used.
func FindRoots(f expr.Function, minX, maxX float64, samples int) []float64 {
	if samples <= 0 {
		samples = RootSamples
	}
	return scanSignChanges(f, minX, maxX, samples)
}

// FindInflections locates inflection points of f over [minX, maxX] by
// scanning a second-derivative approximation for sign changes. The second
// derivative is the central-difference construction applied twice. For every
// inflection x the reported y comes from f itself; points where f is
// undefined are skipped. If samples <= 0 the default count is used.
func FindInflections(f expr.Function, minX, maxX float64, samples int) []Point {
	if samples <= 0 {
		samples = InflectionSamples
	}
	second := Derivative(Derivative(f, inflectionInnerStep), inflectionOuterStep)

	var points []Point
	for _, x := range scanSignChanges(second, minX, maxX, samples) {
		y, ok := f.Eval(x)
		if !ok {
			continue
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points
}

// Bisect refines a root of f inside [a, b] to within tol. Both endpoints
// must be defined and bracket a sign change (a zero endpoint counts),
// otherwise ErrNoBracket. The bracket is narrowed for up to 50 iterations by
// comparing the midpoint's sign against the left endpoint's; if tolerance is
// never met the final bracket midpoint is returned as a best-effort
// estimate, not an error.
func Bisect(f expr.Function, a, b, tol float64) (float64, error) {
	fa, ok := f.Eval(a)
	if !ok {
		return 0, ErrNoBracket
	}
	fb, ok := f.Eval(b)
	if !ok {
		return 0, ErrNoBracket
	}
	if fa*fb > 0 {
		return 0, ErrNoBracket
	}

	lo, hi, flo := a, b, fa
	for i := 0; i < maxBisections; i++ {
		mid := (lo + hi) / 2
		fm, ok := f.Eval(mid)
		if !ok {
			// Undefined midpoint: the bracket cannot be narrowed further.
			return mid, nil
		}
		if math.Abs(fm) < tol {
			return mid, nil
		}
		if fm*flo < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return (lo + hi) / 2, nil
}

func scanSignChanges(f expr.Function, minX, maxX float64, samples int) []float64 {
	xs := make([]float64, samples+1)
	floats.Span(xs, minX, maxX)

	var (
		found       []float64
		prevX       float64
		prevY       float64
		prevDefined bool
	)

	for _, x := range xs {
		y, ok := f.Eval(x)
		if !ok {
			prevDefined = false
			continue
		}

		if prevDefined && prevY*y <= 0 &&
			math.Abs(prevY) < saneMagnitude && math.Abs(y) < saneMagnitude {
			if root, err := Bisect(f, prevX, x, rootTolerance); err == nil {
				if !near(found, root, DedupRadius) {
					found = append(found, root)
				}
			}
		}

		prevX, prevY, prevDefined = x, y, true
	}
	return found
}

func near(xs []float64, x, radius float64) bool {
	for _, v := range xs {
		if math.Abs(v-x) < radius {
			return true
		}
	}
	return false
}
