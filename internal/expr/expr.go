package expr

import (
	"errors"
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// ErrInvalidExpression reports text that fails to compile or cannot be
// evaluated at the probe point.
var ErrInvalidExpression = errors.New("invalid expression")

// probeX is substituted for the variable to validate an expression at parse
// time.
const probeX = 1.0

// Expression is an immutable textual formula in one free variable.
type Expression struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
	Display    string `json:"display,omitempty"`
}

// Function is a single-variable real-valued function. Eval reports
// ok == false when the function is undefined at x; it never errors.
type Function interface {
	Eval(x float64) (y float64, ok bool)
	Text() string
}

// Literal is a function backed by a compiled expression.
type Literal struct {
	expr Expression
	prog *govaluate.EvaluableExpression
}

var evalFunctions = map[string]govaluate.ExpressionFunction{
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"asin": unary(math.Asin),
	"acos": unary(math.Acos),
	"atan": unary(math.Atan),
	"sqrt": unary(math.Sqrt),
	"log":  unary(math.Log10),
	"ln":   unary(math.Log),
	"abs":  unary(math.Abs),
	"exp":  unary(math.Exp),
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("expected numeric argument, got %T", args[0])
		}
		return fn(v), nil
	}
}

// Parse normalizes and compiles text into a Literal. The compiled expression
// is probe-evaluated at x=1; a compile failure or an undefined probe rejects
// the input with ErrInvalidExpression.
func Parse(text string) (*Literal, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidExpression)
	}

	prog, err := govaluate.NewEvaluableExpressionWithFunctions(normalized, evalFunctions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	l := &Literal{
		expr: Expression{Raw: text, Normalized: normalized},
		prog: prog,
	}

	if _, ok := l.Eval(probeX); !ok {
		return nil, fmt.Errorf("%w: undefined at probe point", ErrInvalidExpression)
	}
	return l, nil
}

// Eval evaluates the expression at x. Pure; safe for concurrent use.
func (l *Literal) Eval(x float64) (float64, bool) {
	result, err := l.prog.Evaluate(map[string]interface{}{"x": x})
	if err != nil {
		return 0, false
	}
	y, ok := result.(float64)
	if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

// Text returns the original formula text.
func (l *Literal) Text() string { return l.expr.Raw }

// Expression returns the parsed expression metadata.
func (l *Literal) Expression() Expression { return l.expr }
