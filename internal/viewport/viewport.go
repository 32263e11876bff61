// Package viewport tracks the visible coordinate window of a graph and maps
// between graph and screen coordinates.
package viewport

import "math"

// Default window shown on reset.
const (
	defaultMinX = -10
	defaultMaxX = 10
	defaultMinY = -10
	defaultMaxY = 10
)

// Viewport is a visible coordinate window [MinX,MaxX]×[MinY,MaxY] with a
// derived grid spacing. Invariant: MinX < MaxX and MinY < MaxY.
type Viewport struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`

	GridSpacing float64 `json:"grid_spacing"`

	ScreenW float64 `json:"screen_w"`
	ScreenH float64 `json:"screen_h"`
}

// New returns a viewport over the default window for a screen of the given
// pixel size.
func New(screenW, screenH float64) *Viewport {
	v := &Viewport{ScreenW: screenW, ScreenH: screenH}
	v.Reset()
	return v
}

// Reset restores the default window.
func (v *Viewport) Reset() {
	v.MinX, v.MaxX = defaultMinX, defaultMaxX
	v.MinY, v.MaxY = defaultMinY, defaultMaxY
	v.recomputeGrid()
}

// Zoom scales both ranges around the window center. factor > 1 zooms out,
// 0 < factor < 1 zooms in. Non-positive factors are ignored.
func (v *Viewport) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	cx := (v.MinX + v.MaxX) / 2
	cy := (v.MinY + v.MaxY) / 2
	halfX := (v.MaxX - v.MinX) / 2 * factor
	halfY := (v.MaxY - v.MinY) / 2 * factor

	v.MinX, v.MaxX = cx-halfX, cx+halfX
	v.MinY, v.MaxY = cy-halfY, cy+halfY
	v.recomputeGrid()
}

// Pan shifts the window by (dx, dy) in graph coordinates.
func (v *Viewport) Pan(dx, dy float64) {
	v.MinX += dx
	v.MaxX += dx
	v.MinY += dy
	v.MaxY += dy
}

// ToScreenX maps a graph x coordinate to a screen pixel column.
func (v *Viewport) ToScreenX(x float64) float64 {
	return (x - v.MinX) / (v.MaxX - v.MinX) * v.ScreenW
}

// ToScreenY maps a graph y coordinate to a screen pixel row. Screen y grows
// downward.
func (v *Viewport) ToScreenY(y float64) float64 {
	return (v.MaxY - y) / (v.MaxY - v.MinY) * v.ScreenH
}

// FromScreenX maps a screen pixel column back to a graph x coordinate.
func (v *Viewport) FromScreenX(sx float64) float64 {
	return v.MinX + sx/v.ScreenW*(v.MaxX-v.MinX)
}

// FromScreenY maps a screen pixel row back to a graph y coordinate.
func (v *Viewport) FromScreenY(sy float64) float64 {
	return v.MaxY - sy/v.ScreenH*(v.MaxY-v.MinY)
}

// GridLines reports how many grid lines the current spacing puts across the
// X range.
func (v *Viewport) GridLines() float64 {
	return (v.MaxX - v.MinX) / v.GridSpacing
}

// recomputeGrid picks a power of ten, halved or doubled as needed, so that
// 5 to 20 grid lines span the X range.
func (v *Viewport) recomputeGrid() {
	rangeX := v.MaxX - v.MinX
	spacing := math.Pow(10, math.Floor(math.Log10(rangeX)))
	for rangeX/spacing < 5 {
		spacing /= 2
	}
	for rangeX/spacing > 20 {
		spacing *= 2
	}
	v.GridSpacing = spacing
}
