package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MujtabaTaimur/InstaMath/internal/expr"
)

func mustParse(t *testing.T, text string) expr.Function {
	t.Helper()
	f, err := expr.Parse(text)
	require.NoError(t, err)
	return f
}

func TestDerivative(t *testing.T) {
	t.Run("accuracy", func(t *testing.T) {
		d := Derivative(mustParse(t, "x^2"), 0)

		y, ok := d.Eval(3)
		require.True(t, ok)
		assert.InDelta(t, 6.0, y, 1e-2)
	})

	t.Run("undefined near domain edge", func(t *testing.T) {
		// sqrt is undefined at x-h for x=0, so the central difference is too.
		d := Derivative(mustParse(t, "sqrt(x)"), 0)

		_, ok := d.Eval(0)
		assert.False(t, ok)
	})

	t.Run("second derivative by composition", func(t *testing.T) {
		second := Derivative(Derivative(mustParse(t, "x^3"), 1e-3), 1e-2)

		y, ok := second.Eval(2)
		require.True(t, ok)
		assert.InDelta(t, 12.0, y, 1e-1)
	})
}

func TestIntegral(t *testing.T) {
	t.Run("anchored at zero", func(t *testing.T) {
		g := Integral(mustParse(t, "x"), 0, SkipUndefined)

		y, ok := g.Eval(4)
		require.True(t, ok)
		assert.InDelta(t, 8.0, y, 1e-1)
	})

	t.Run("degenerate step short-circuit", func(t *testing.T) {
		g := Integral(mustParse(t, "x"), 0, SkipUndefined)

		y, ok := g.Eval(0)
		require.True(t, ok)
		assert.Equal(t, 0.0, y)
	})

	t.Run("negative upper limit", func(t *testing.T) {
		g := Integral(mustParse(t, "x"), 0, SkipUndefined)

		y, ok := g.Eval(-4)
		require.True(t, ok)
		assert.InDelta(t, 8.0, y, 1e-1)
	})

	t.Run("undefined endpoint propagates", func(t *testing.T) {
		// 1/x is undefined at the anchor 0.
		g := Integral(mustParse(t, "1/x"), 0, SkipUndefined)

		_, ok := g.Eval(4)
		assert.False(t, ok)
	})

	t.Run("interior gap policies", func(t *testing.T) {
		// Undefined on (1, 3), defined at both endpoints 0 and 4.
		const gapped = "sqrt((x-1)*(x-3))"

		skip := Integral(mustParse(t, gapped), 0, SkipUndefined)
		y, ok := skip.Eval(4)
		require.True(t, ok, "skip policy treats gap samples as zero contribution")
		assert.Greater(t, y, 0.0)

		propagate := Integral(mustParse(t, gapped), 0, PropagateUndefined)
		_, ok = propagate.Eval(4)
		assert.False(t, ok, "propagate policy makes the whole integral undefined")
	})
}
