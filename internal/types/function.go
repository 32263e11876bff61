// Package types defines the shared data model for the graphing engine.
package types

import "time"

// Kind categorizes a graph function.
type Kind string

const (
	KindStandard   Kind = "standard"
	KindDerivative Kind = "derivative"
	KindIntegral   Kind = "integral"
)

// MethodApproximation labels results produced by numerical methods rather
// than symbolic ones.
const MethodApproximation = "numerical approximation"

// GraphFunction is one plotted function in the collection.
type GraphFunction struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Normalized string    `json:"normalized"`
	Display    string    `json:"display,omitempty"`
	Color      string    `json:"color"`
	Kind       Kind      `json:"kind"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Method     string    `json:"method,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats contains function collection statistics.
type Stats struct {
	Total       int `json:"total"`
	Standard    int `json:"standard"`
	Derivatives int `json:"derivatives"`
	Integrals   int `json:"integrals"`
}

// WSMessage is an inbound WebSocket request.
type WSMessage struct {
	Type       string  `json:"type"`
	FunctionID string  `json:"function_id,omitempty"`
	MinX       float64 `json:"min_x,omitempty"`
	MaxX       float64 `json:"max_x,omitempty"`
	Samples    int     `json:"samples,omitempty"`
}
