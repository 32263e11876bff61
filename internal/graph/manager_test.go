package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MujtabaTaimur/InstaMath/internal/expr"
	"github.com/MujtabaTaimur/InstaMath/internal/types"
)

func TestAdd(t *testing.T) {
	m := NewManager(Options{}, nil)

	rec, err := m.Add("x^2 - 4")
	require.NoError(t, err)
	assert.Equal(t, types.KindStandard, rec.Kind)
	assert.Equal(t, "x^2 - 4", rec.Expression)
	assert.Equal(t, "x**2-4", rec.Normalized)
	assert.NotEmpty(t, rec.Color)
	assert.Nil(t, rec.ParentID)

	_, err = m.Add("not ((( an expression")
	assert.ErrorIs(t, err, expr.ErrInvalidExpression)

	assert.Equal(t, 1, m.Stats().Total)
}

func TestColorsCycle(t *testing.T) {
	m := NewManager(Options{}, nil)

	a, err := m.Add("x")
	require.NoError(t, err)
	b, err := m.Add("x + 1")
	require.NoError(t, err)
	assert.NotEqual(t, a.Color, b.Color)
}

func TestDeriveReplacesByParent(t *testing.T) {
	m := NewManager(Options{}, nil)

	parent, err := m.Add("x^2")
	require.NoError(t, err)

	first, err := m.Derive(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, types.KindDerivative, first.Kind)
	require.NotNil(t, first.ParentID)
	assert.Equal(t, parent.ID, *first.ParentID)
	assert.Equal(t, types.MethodApproximation, first.Method)

	second, err := m.Derive(parent.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// The first derivative is gone; exactly one derivative per parent.
	_, ok := m.Get(first.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Stats().Derivatives)

	// An integral of the same parent lives alongside the derivative.
	integ, err := m.Integrate(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, types.KindIntegral, integ.Kind)
	assert.Equal(t, 3, m.Stats().Total)

	_, err = m.Derive("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDerivedEvaluation(t *testing.T) {
	m := NewManager(Options{}, nil)

	parent, err := m.Add("x^2")
	require.NoError(t, err)

	deriv, err := m.Derive(parent.ID)
	require.NoError(t, err)

	y, defined, err := m.Evaluate(deriv.ID, 3)
	require.NoError(t, err)
	require.True(t, defined)
	assert.InDelta(t, 6.0, y, 1e-2)

	integ, err := m.Integrate(parent.ID)
	require.NoError(t, err)

	y, defined, err = m.Evaluate(integ.ID, 3)
	require.NoError(t, err)
	require.True(t, defined)
	assert.InDelta(t, 9.0, y, 1e-1)
}

func TestRemoveCascades(t *testing.T) {
	m := NewManager(Options{}, nil)

	parent, err := m.Add("x^3")
	require.NoError(t, err)
	deriv, err := m.Derive(parent.ID)
	require.NoError(t, err)
	integ, err := m.Integrate(parent.ID)
	require.NoError(t, err)
	other, err := m.Add("sin(x)")
	require.NoError(t, err)

	require.True(t, m.Remove(parent.ID))

	for _, id := range []string{parent.ID, deriv.ID, integ.ID} {
		_, ok := m.Get(id)
		assert.False(t, ok, "id %s should have been removed", id)
	}
	_, ok := m.Get(other.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Stats().Total)

	assert.False(t, m.Remove(parent.ID))
}

func TestRootsAndInflections(t *testing.T) {
	m := NewManager(Options{}, nil)

	rec, err := m.Add("x^2 - 4")
	require.NoError(t, err)

	roots, err := m.Roots(rec.ID, -10, 10)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.InDelta(t, -2.0, roots[0], 1e-3)
	assert.InDelta(t, 2.0, roots[1], 1e-3)

	cubic, err := m.Add("x^3")
	require.NoError(t, err)
	points, err := m.Inflections(cubic.ID, -5, 5)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.0, points[0].X, 1e-2)

	_, err = m.Roots("missing", -1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSample(t *testing.T) {
	m := NewManager(Options{}, nil)

	rec, err := m.Add("sqrt(x)")
	require.NoError(t, err)

	points, err := m.Sample(rec.ID, -1, 1, 100)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	// Undefined points (x < 0) are omitted, not zeroed.
	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, 0.0)
	}
}

func TestListOrder(t *testing.T) {
	m := NewManager(Options{}, nil)

	exprs := []string{"x", "x^2", "x^3"}
	for _, e := range exprs {
		_, err := m.Add(e)
		require.NoError(t, err)
	}

	list := m.List()
	require.Len(t, list, 3)
	for i, rec := range list {
		assert.Equal(t, exprs[i], rec.Expression)
	}
}
