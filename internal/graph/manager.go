package graph

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MujtabaTaimur/InstaMath/internal/analysis"
	"github.com/MujtabaTaimur/InstaMath/internal/expr"
	"github.com/MujtabaTaimur/InstaMath/internal/logging"
	"github.com/MujtabaTaimur/InstaMath/internal/types"
)

// ErrNotFound reports a lookup for a function ID not in the collection.
var ErrNotFound = errors.New("function not found")

// palette supplies display colors for newly added functions, cycled in
// order.
var palette = []string{
	"#FF6B6B", "#4ECDC4", "#FFD93D", "#6C5CE7",
	"#2ECC71", "#E67E22", "#3498DB", "#E84393",
}

// Options tunes the numerical engine behind the manager. Zero values fall
// back to the analysis package defaults.
type Options struct {
	DerivativeStep    float64
	IntegralSteps     int
	RootSamples       int
	InflectionSamples int
	IntegralPolicy    analysis.IntegralPolicy
}

type entry struct {
	rec *types.GraphFunction
	fn  expr.Function
}

// Manager orchestrates the function collection lifecycle. All mutations are
// serialized under one lock so replace-by-parent bookkeeping never
// interleaves.
type Manager struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	order      []string
	paletteIdx int
	opts       Options
	log        *logging.Logger
}

// NewManager creates an empty function collection.
func NewManager(opts Options, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Manager{
		entries: make(map[string]*entry),
		opts:    opts,
		log:     log,
	}
}

// Add parses text and appends a standard function to the collection.
func (m *Manager) Add(text string) (*types.GraphFunction, error) {
	fn, err := expr.Parse(text)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec := &types.GraphFunction{
		ID:         uuid.New().String(),
		Expression: fn.Expression().Raw,
		Normalized: fn.Expression().Normalized,
		Color:      palette[m.paletteIdx%len(palette)],
		Kind:       types.KindStandard,
		CreatedAt:  time.Now(),
	}
	m.paletteIdx++
	m.insert(rec, fn)

	m.log.Info("function added",
		zap.String("id", rec.ID),
		zap.String("expression", rec.Expression))
	return rec, nil
}

// Get retrieves a function record by ID.
func (m *Manager) Get(id string) (*types.GraphFunction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return e.rec, true
}

// Func retrieves the evaluable form of a function by ID.
func (m *Manager) Func(id string) (expr.Function, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return e.fn, true
}

// List returns all functions in insertion order.
func (m *Manager) List() []*types.GraphFunction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.GraphFunction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].rec)
	}
	return out
}

// Remove deletes a function and, cascading, everything derived from it.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return false
	}
	m.remove(id)
	return true
}

// Derive builds the numerical derivative of the function with the given ID
// and appends it to the collection, replacing any previous derivative of the
// same parent.
func (m *Manager) Derive(id string) (*types.GraphFunction, error) {
	return m.derive(id, types.KindDerivative)
}

// Integrate builds the numerical antiderivative (anchored at zero) of the
// function with the given ID, replacing any previous integral of the same
// parent.
func (m *Manager) Integrate(id string) (*types.GraphFunction, error) {
	return m.derive(id, types.KindIntegral)
}

// Evaluate computes the function's value at x. The boolean reports whether
// the function is defined there; an unknown ID is the only error.
func (m *Manager) Evaluate(id string, x float64) (float64, bool, error) {
	fn, ok := m.Func(id)
	if !ok {
		return 0, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	y, defined := fn.Eval(x)
	return y, defined, nil
}

// Roots scans [minX, maxX] for zeros of the function.
func (m *Manager) Roots(id string, minX, maxX float64) ([]float64, error) {
	fn, ok := m.Func(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return analysis.FindRoots(fn, minX, maxX, m.opts.RootSamples), nil
}

// Inflections scans [minX, maxX] for inflection points of the function.
func (m *Manager) Inflections(id string, minX, maxX float64) ([]analysis.Point, error) {
	fn, ok := m.Func(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return analysis.FindInflections(fn, minX, maxX, m.opts.InflectionSamples), nil
}

// Sample evaluates the function across [minX, maxX] at n+1 evenly spaced
// points, omitting points where it is undefined.
func (m *Manager) Sample(id string, minX, maxX float64, n int) ([]analysis.Point, error) {
	fn, ok := m.Func(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if n <= 0 {
		n = 256
	}
	step := (maxX - minX) / float64(n)
	points := make([]analysis.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		x := minX + step*float64(i)
		if y, defined := fn.Eval(x); defined {
			points = append(points, analysis.Point{X: x, Y: y})
		}
	}
	return points, nil
}

// Stats returns collection statistics.
func (m *Manager) Stats() types.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := types.Stats{Total: len(m.entries)}
	for _, e := range m.entries {
		switch e.rec.Kind {
		case types.KindDerivative:
			s.Derivatives++
		case types.KindIntegral:
			s.Integrals++
		default:
			s.Standard++
		}
	}
	return s
}

func (m *Manager) derive(id string, kind types.Kind) (*types.GraphFunction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var fn expr.Function
	if kind == types.KindDerivative {
		fn = analysis.Derivative(parent.fn, m.opts.DerivativeStep)
	} else {
		fn = analysis.Integral(parent.fn, m.opts.IntegralSteps, m.opts.IntegralPolicy)
	}

	// At most one live derived function per (kind, parent).
	for _, existingID := range m.order {
		e := m.entries[existingID]
		if e.rec.Kind == kind && e.rec.ParentID != nil && *e.rec.ParentID == id {
			m.remove(existingID)
			break
		}
	}

	parentID := id
	rec := &types.GraphFunction{
		ID:         uuid.New().String(),
		Expression: fn.Text(),
		Normalized: fn.Text(),
		Color:      palette[m.paletteIdx%len(palette)],
		Kind:       kind,
		ParentID:   &parentID,
		Method:     types.MethodApproximation,
		CreatedAt:  time.Now(),
	}
	m.paletteIdx++
	m.insert(rec, fn)

	m.log.Info("function derived",
		zap.String("id", rec.ID),
		zap.String("parent_id", id),
		zap.String("kind", string(kind)))
	return rec, nil
}

// insert and remove require m.mu held for writing.

func (m *Manager) insert(rec *types.GraphFunction, fn expr.Function) {
	m.entries[rec.ID] = &entry{rec: rec, fn: fn}
	m.order = append(m.order, rec.ID)
}

func (m *Manager) remove(id string) {
	// Children first.
	for _, childID := range append([]string(nil), m.order...) {
		e, ok := m.entries[childID]
		if !ok {
			continue
		}
		if e.rec.ParentID != nil && *e.rec.ParentID == id {
			m.remove(childID)
		}
	}

	delete(m.entries, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
