// Package ws streams sampled curves over WebSocket.
//
// Scans run inside the connection goroutine, off the REST path, and results
// stream back in chunks. This is the transport analog of dispatching a scan
// to a background queue and marshaling results back to the UI.
package ws

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MujtabaTaimur/InstaMath/internal/analysis"
	"github.com/MujtabaTaimur/InstaMath/internal/graph"
	"github.com/MujtabaTaimur/InstaMath/internal/logging"
	"github.com/MujtabaTaimur/InstaMath/internal/monitoring"
	"github.com/MujtabaTaimur/InstaMath/internal/types"
)

// chunkSize is the number of points per streamed plot_data frame.
const chunkSize = 200

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections.
type Handler struct {
	manager *graph.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(manager *graph.Manager, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{manager: manager, metrics: metrics, log: log}
}

// HandleConnection handles WebSocket upgrade and messages.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.WSConnections.Inc()
	defer h.metrics.WSConnections.Dec()

	h.send(conn, map[string]interface{}{
		"type":    "system",
		"message": "Connected to InstaMath Graphing Engine",
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}
		h.metrics.WSMessages.WithLabelValues(msg.Type).Inc()

		switch msg.Type {
		case "plot":
			h.handlePlot(conn, msg)
		case "roots":
			h.handleRoots(conn, msg)
		case "ping":
			h.send(conn, map[string]interface{}{"type": "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

// handlePlot samples a function across the requested interval and streams
// the defined points back in chunks. Undefined points are simply absent, so
// the client sees domain gaps as missing x positions.
func (h *Handler) handlePlot(conn *websocket.Conn, msg types.WSMessage) {
	if msg.MinX >= msg.MaxX {
		h.sendError(conn, "min_x must be less than max_x")
		return
	}

	timer := monitoring.NewTimer(h.metrics, "plot")
	points, err := h.manager.Sample(msg.FunctionID, msg.MinX, msg.MaxX, msg.Samples)
	timer.Stop()
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	for start := 0; start < len(points); start += chunkSize {
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}
		h.send(conn, map[string]interface{}{
			"type":        "plot_data",
			"function_id": msg.FunctionID,
			"points":      points[start:end],
			"done":        end == len(points),
		})
	}
	if len(points) == 0 {
		h.send(conn, map[string]interface{}{
			"type":        "plot_data",
			"function_id": msg.FunctionID,
			"points":      []analysis.Point{},
			"done":        true,
		})
	}
}

func (h *Handler) handleRoots(conn *websocket.Conn, msg types.WSMessage) {
	if msg.MinX >= msg.MaxX {
		h.sendError(conn, "min_x must be less than max_x")
		return
	}

	timer := monitoring.NewTimer(h.metrics, "roots")
	roots, err := h.manager.Roots(msg.FunctionID, msg.MinX, msg.MaxX)
	timer.Stop()
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}
	if roots == nil {
		roots = []float64{}
	}

	h.send(conn, map[string]interface{}{
		"type":        "roots",
		"function_id": msg.FunctionID,
		"roots":       roots,
		"method":      "numerical approximation",
	})
}

func (h *Handler) send(conn *websocket.Conn, payload map[string]interface{}) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		h.log.Error("marshal failed", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Warn("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}
