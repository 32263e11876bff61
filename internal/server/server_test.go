package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MujtabaTaimur/InstaMath/internal/config"
	"github.com/MujtabaTaimur/InstaMath/internal/logging"
)

// The metrics collector registers with the global Prometheus registry, so
// the server is built once and shared by every subtest.
func TestServer(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.Enabled = false

	srv, err := New(cfg, logging.NewDevelopment())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	post := func(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
		t.Helper()
		data, err := json.Marshal(body)
		require.NoError(t, err)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}
	get := func(t *testing.T, path string) (int, map[string]interface{}) {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}
	addFunction := func(t *testing.T, expression string) string {
		t.Helper()
		code, out := post(t, "/functions", map[string]string{"expression": expression})
		require.Equal(t, http.StatusCreated, code)
		fn := out["function"].(map[string]interface{})
		return fn["id"].(string)
	}

	t.Run("health", func(t *testing.T) {
		code, out := get(t, "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", out["status"])
	})

	t.Run("rejects invalid expression", func(t *testing.T) {
		code, out := post(t, "/functions", map[string]string{"expression": "x +* 2"})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, out["error"], "invalid expression")
	})

	t.Run("evaluate", func(t *testing.T) {
		id := addFunction(t, "x^2 - 4")

		code, out := get(t, "/functions/"+id+"/eval?x=3")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, out["defined"])
		assert.InDelta(t, 5.0, out["y"].(float64), 1e-9)
	})

	t.Run("undefined point is not an error", func(t *testing.T) {
		id := addFunction(t, "1/x")

		code, out := get(t, "/functions/"+id+"/eval?x=0")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, out["defined"])
		_, hasY := out["y"]
		assert.False(t, hasY)
	})

	t.Run("roots", func(t *testing.T) {
		id := addFunction(t, "x^2 - 4")

		code, out := get(t, "/functions/"+id+"/roots?min_x=-10&max_x=10")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "numerical approximation", out["method"])

		roots := out["roots"].([]interface{})
		require.Len(t, roots, 2)
		assert.InDelta(t, -2.0, roots[0].(float64), 1e-3)
		assert.InDelta(t, 2.0, roots[1].(float64), 1e-3)
	})

	t.Run("empty roots is a successful response", func(t *testing.T) {
		id := addFunction(t, "x^2 + 1")

		code, out := get(t, "/functions/"+id+"/roots?min_x=-10&max_x=10")
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, out["roots"])
	})

	t.Run("derivative replaces by parent", func(t *testing.T) {
		id := addFunction(t, "x^3")

		code, first := post(t, "/functions/"+id+"/derivative", nil)
		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "numerical approximation", first["method"])

		code, _ = post(t, "/functions/"+id+"/derivative", nil)
		require.Equal(t, http.StatusCreated, code)

		_, out := get(t, "/functions")
		count := 0
		for _, raw := range out["functions"].([]interface{}) {
			fn := raw.(map[string]interface{})
			if fn["kind"] == "derivative" && fn["parent_id"] == id {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("integral evaluates anchored at zero", func(t *testing.T) {
		id := addFunction(t, "x")

		code, out := post(t, "/functions/"+id+"/integral", nil)
		require.Equal(t, http.StatusCreated, code)
		integID := out["function"].(map[string]interface{})["id"].(string)

		code, out = get(t, "/functions/"+integID+"/eval?x=4")
		require.Equal(t, http.StatusOK, code)
		assert.InDelta(t, 8.0, out["y"].(float64), 1e-1)
	})

	t.Run("inflections", func(t *testing.T) {
		id := addFunction(t, "x^3 - 3*x")

		code, out := get(t, "/functions/"+id+"/inflections?min_x=-5&max_x=5")
		require.Equal(t, http.StatusOK, code)
		points := out["inflection_points"].([]interface{})
		require.Len(t, points, 1)
		p := points[0].(map[string]interface{})
		assert.InDelta(t, 0.0, p["x"].(float64), 1e-2)
	})

	t.Run("delete cascades to derived functions", func(t *testing.T) {
		id := addFunction(t, "sin(x)")
		code, out := post(t, "/functions/"+id+"/derivative", nil)
		require.Equal(t, http.StatusCreated, code)
		derivID := out["function"].(map[string]interface{})["id"].(string)

		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/functions/"+id, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		code, _ = get(t, "/functions/"+derivID)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("viewport", func(t *testing.T) {
		code, out := post(t, "/viewport/zoom", map[string]float64{"factor": 2})
		require.Equal(t, http.StatusOK, code)
		vp := out["viewport"].(map[string]interface{})
		assert.Equal(t, -20.0, vp["min_x"])
		assert.Equal(t, 20.0, vp["max_x"])

		code, out = post(t, "/viewport/pan", map[string]float64{"dx": 5, "dy": -5})
		require.Equal(t, http.StatusOK, code)
		vp = out["viewport"].(map[string]interface{})
		assert.Equal(t, -15.0, vp["min_x"])

		code, out = post(t, "/viewport/reset", nil)
		require.Equal(t, http.StatusOK, code)
		vp = out["viewport"].(map[string]interface{})
		assert.Equal(t, -10.0, vp["min_x"])
		assert.Equal(t, 10.0, vp["max_x"])
	})

	t.Run("websocket plot stream", func(t *testing.T) {
		id := addFunction(t, "x^2")

		wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer conn.Close()

		var welcome map[string]interface{}
		require.NoError(t, conn.ReadJSON(&welcome))
		assert.Equal(t, "system", welcome["type"])

		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type":        "plot",
			"function_id": id,
			"min_x":       -2.0,
			"max_x":       2.0,
			"samples":     50,
		}))

		total := 0
		for {
			var frame map[string]interface{}
			require.NoError(t, conn.ReadJSON(&frame))
			require.Equal(t, "plot_data", frame["type"])
			total += len(frame["points"].([]interface{}))
			if frame["done"] == true {
				break
			}
		}
		assert.Equal(t, 51, total)

		require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "ping"}))
		var pong map[string]interface{}
		require.NoError(t, conn.ReadJSON(&pong))
		assert.Equal(t, "pong", pong["type"])
	})
}
