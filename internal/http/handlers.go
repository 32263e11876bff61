// Package http contains the REST handlers for the graphing engine.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MujtabaTaimur/InstaMath/internal/analysis"
	"github.com/MujtabaTaimur/InstaMath/internal/expr"
	"github.com/MujtabaTaimur/InstaMath/internal/graph"
	"github.com/MujtabaTaimur/InstaMath/internal/logging"
	"github.com/MujtabaTaimur/InstaMath/internal/monitoring"
	"github.com/MujtabaTaimur/InstaMath/internal/types"
	"github.com/MujtabaTaimur/InstaMath/internal/viewport"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	manager *graph.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger

	vpMu sync.Mutex
	vp   *viewport.Viewport
}

// NewHandlers creates a new handler set.
func NewHandlers(manager *graph.Manager, vp *viewport.Viewport, metrics *monitoring.Metrics, log *logging.Logger) *Handlers {
	return &Handlers{
		manager: manager,
		vp:      vp,
		metrics: metrics,
		log:     log,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "InstaMath Graphing Engine",
		"version": "0.3.0",
	})
}

// Health handles detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"functions": h.manager.Stats(),
	})
}

type addFunctionRequest struct {
	Expression string `json:"expression" binding:"required"`
}

// AddFunction parses an expression and adds it to the collection.
func (h *Handlers) AddFunction(c *gin.Context) {
	var req addFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.manager.Add(req.Expression)
	if err != nil {
		if errors.Is(err, expr.ErrInvalidExpression) {
			h.log.Warn("rejected expression",
				zap.String("expression", req.Expression),
				zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.FunctionsTotal.Inc()
	h.metrics.FunctionsActive.Set(float64(h.manager.Stats().Total))
	c.JSON(http.StatusCreated, gin.H{"function": rec})
}

// ListFunctions lists all functions in the collection.
func (h *Handlers) ListFunctions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"functions": h.manager.List(),
		"stats":     h.manager.Stats(),
	})
}

// GetFunction retrieves a single function.
func (h *Handlers) GetFunction(c *gin.Context) {
	rec, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "function not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"function": rec})
}

// RemoveFunction deletes a function and everything derived from it.
func (h *Handlers) RemoveFunction(c *gin.Context) {
	id := c.Param("id")
	removed := h.manager.Remove(id)
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "function not found"})
		return
	}
	h.metrics.FunctionsActive.Set(float64(h.manager.Stats().Total))
	c.JSON(http.StatusOK, gin.H{"removed": id})
}

// EvaluateFunction evaluates a function at a point. A point where the
// function is undefined is a normal response, not an error status.
func (h *Handlers) EvaluateFunction(c *gin.Context) {
	x, err := strconv.ParseFloat(c.Query("x"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter x must be a number"})
		return
	}

	y, defined, err := h.manager.Evaluate(c.Param("id"), x)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.metrics.Evaluations.Inc()
	if !defined {
		c.JSON(http.StatusOK, gin.H{"x": x, "defined": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": x, "y": y, "defined": true})
}

// DeriveFunction adds the numerical derivative of a function, replacing any
// previous derivative of the same parent.
func (h *Handlers) DeriveFunction(c *gin.Context) {
	h.deriveFunction(c, h.manager.Derive)
}

// IntegrateFunction adds the numerical antiderivative of a function,
// replacing any previous integral of the same parent.
func (h *Handlers) IntegrateFunction(c *gin.Context) {
	h.deriveFunction(c, h.manager.Integrate)
}

func (h *Handlers) deriveFunction(c *gin.Context, derive func(string) (*types.GraphFunction, error)) {
	rec, err := derive(c.Param("id"))
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.FunctionsTotal.Inc()
	h.metrics.FunctionsActive.Set(float64(h.manager.Stats().Total))
	c.JSON(http.StatusCreated, gin.H{
		"function": rec,
		"method":   rec.Method,
	})
}

// FunctionRoots scans an interval for zeros of a function. An empty result
// is a successful response.
func (h *Handlers) FunctionRoots(c *gin.Context) {
	minX, maxX, ok := h.interval(c)
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "roots")
	roots, err := h.manager.Roots(c.Param("id"), minX, maxX)
	timer.Stop()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if roots == nil {
		roots = []float64{}
	}

	c.JSON(http.StatusOK, gin.H{
		"roots":  roots,
		"method": "numerical approximation",
	})
}

// FunctionInflections scans an interval for inflection points of a function.
func (h *Handlers) FunctionInflections(c *gin.Context) {
	minX, maxX, ok := h.interval(c)
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "inflections")
	points, err := h.manager.Inflections(c.Param("id"), minX, maxX)
	timer.Stop()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if points == nil {
		points = []analysis.Point{}
	}

	c.JSON(http.StatusOK, gin.H{
		"inflection_points": points,
		"method":            "numerical approximation",
	})
}

func (h *Handlers) interval(c *gin.Context) (minX, maxX float64, ok bool) {
	h.vpMu.Lock()
	minX, maxX = h.vp.MinX, h.vp.MaxX
	h.vpMu.Unlock()

	var err error
	if s := c.Query("min_x"); s != "" {
		if minX, err = strconv.ParseFloat(s, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_x must be a number"})
			return 0, 0, false
		}
	}
	if s := c.Query("max_x"); s != "" {
		if maxX, err = strconv.ParseFloat(s, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_x must be a number"})
			return 0, 0, false
		}
	}
	if minX >= maxX {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_x must be less than max_x"})
		return 0, 0, false
	}
	return minX, maxX, true
}

// Viewport returns the current viewing window.
func (h *Handlers) Viewport(c *gin.Context) {
	h.vpMu.Lock()
	defer h.vpMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"viewport": h.vp})
}

type zoomRequest struct {
	Factor float64 `json:"factor" binding:"required"`
}

// ViewportZoom scales the viewing window around its center.
func (h *Handlers) ViewportZoom(c *gin.Context) {
	var req zoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Factor <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "factor must be positive"})
		return
	}

	h.vpMu.Lock()
	h.vp.Zoom(req.Factor)
	vp := *h.vp
	h.vpMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"viewport": vp})
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ViewportPan shifts the viewing window.
func (h *Handlers) ViewportPan(c *gin.Context) {
	var req panRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.vpMu.Lock()
	h.vp.Pan(req.DX, req.DY)
	vp := *h.vp
	h.vpMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"viewport": vp})
}

// ViewportReset restores the default viewing window.
func (h *Handlers) ViewportReset(c *gin.Context) {
	h.vpMu.Lock()
	h.vp.Reset()
	vp := *h.vp
	h.vpMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"viewport": vp})
}
