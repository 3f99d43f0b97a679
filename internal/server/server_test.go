package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/copyleftdev/PIVOT/internal/config"
)

// testConfig creates a test configuration with default values.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
	}

	cfg.HTTP.Port = 8080
	cfg.HTTP.ReadTimeout = 30 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second
	cfg.HTTP.IdleTimeout = 120 * time.Second
	cfg.HTTP.ShutdownTimeout = 30 * time.Second

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	cfg.Logging.Output = "stdout"

	cfg.Simplex.MaxIterations = 1000
	cfg.Simplex.SolveTimeout = 5 * time.Second

	return cfg
}

// testRouter builds a router with all server routes registered.
func testRouter(t *testing.T) (*Server, chi.Router) {
	t.Helper()

	srv := NewServer(testConfig(t), zaptest.NewLogger(t))
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	t.Cleanup(func() { srv.Close() })
	return srv, r
}

// scenarioTableau is a small maximization problem whose optimum is 136.
func scenarioTableau() [][]float64 {
	return [][]float64{
		{1, 2, 2, 1, 0, 0, 20},
		{2, 1, 2, 0, 1, 0, 20},
		{2, 2, 1, 0, 0, 1, 20},
		{-10, -12, -12, 0, 0, 0, 0},
	}
}

// waitForTerminal polls the status endpoint until the job leaves the
// pending/running states.
func waitForTerminal(t *testing.T, r chi.Router, id string) map[string]interface{} {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status/"+id, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var status map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))

		switch status["status"] {
		case statusPending, statusRunning:
			time.Sleep(10 * time.Millisecond)
		default:
			return status
		}
	}
	t.Fatal("solve did not reach a terminal state in time")
	return nil
}

func TestNewServer(t *testing.T) {
	srv := NewServer(testConfig(t), zaptest.NewLogger(t))
	assert.NotNil(t, srv, "Server should be created")
}

func TestSolveToOptimal(t *testing.T) {
	_, r := testRouter(t)

	body, err := json.Marshal(map[string]interface{}{"tableau": scenarioTableau()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var accepted map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&accepted))
	id, ok := accepted["solve_id"].(string)
	require.True(t, ok, "response should carry a solve_id")
	assert.Equal(t, statusPending, accepted["status"])

	status := waitForTerminal(t, r, id)
	assert.Equal(t, statusOptimal, status["status"])
	assert.InDelta(t, 136.0, status["objective_entry"].(float64), 1e-9)
	assert.EqualValues(t, 3, status["pivots"])

	solution, ok := status["solution"].([]interface{})
	require.True(t, ok)
	require.Len(t, solution, 6)
	for j := 0; j < 3; j++ {
		assert.InDelta(t, 4.0, solution[j].(float64), 1e-9, "variable %d", j)
	}
}

func TestSolveUnbounded(t *testing.T) {
	_, r := testRouter(t)

	body, err := json.Marshal(map[string]interface{}{
		"tableau": [][]float64{{1, 0, 1}, {0, -2, -3}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	var accepted map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&accepted))

	status := waitForTerminal(t, r, accepted["solve_id"].(string))
	assert.Equal(t, statusUnbounded, status["status"])
	assert.EqualValues(t, 0, status["pivots"])
}

func TestSolveMalformedTableau(t *testing.T) {
	_, r := testRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "ragged rows",
			body: `{"tableau": [[1, 2, 3], [1, 2], [0, 0, 0]]}`,
		},
		{
			name: "single row",
			body: `{"tableau": [[1, 2, 3]]}`,
		},
		{
			name: "empty",
			body: `{"tableau": []}`,
		},
		{
			name: "not json",
			body: `{"tableau": `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestStatusNotFound(t *testing.T) {
	_, r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status/lp_unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelNotFound(t *testing.T) {
	_, r := testRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/solve/lp_unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func rpcCall(t *testing.T, r chi.Router, method string, params ...interface{}) map[string]interface{} {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestJSONRPCSolve(t *testing.T) {
	_, r := testRouter(t)

	response := rpcCall(t, r, "simplex.solve", map[string]interface{}{
		"tableau": scenarioTableau(),
	})
	require.Nil(t, response["error"], "unexpected rpc error: %v", response["error"])

	result, ok := response["result"].(map[string]interface{})
	require.True(t, ok)
	id, ok := result["solve_id"].(string)
	require.True(t, ok)

	waitForTerminal(t, r, id)

	statusResp := rpcCall(t, r, "simplex.status", map[string]interface{}{
		"solve_id": id,
	})
	require.Nil(t, statusResp["error"])
	status := statusResp["result"].(map[string]interface{})
	assert.Equal(t, statusOptimal, status["status"])
}

func TestJSONRPCErrors(t *testing.T) {
	_, r := testRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode float64
	}{
		{
			name:     "unknown method",
			body:     `{"jsonrpc": "2.0", "id": 1, "method": "simplex.explode"}`,
			wantCode: -32601,
		},
		{
			name:     "wrong version",
			body:     `{"jsonrpc": "1.0", "id": 1, "method": "simplex.solve"}`,
			wantCode: -32600,
		},
		{
			name:     "parse error",
			body:     `{`,
			wantCode: -32700,
		},
		{
			name:     "missing params",
			body:     `{"jsonrpc": "2.0", "id": 1, "method": "simplex.solve"}`,
			wantCode: -32000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			rpcErr, ok := response["error"].(map[string]interface{})
			require.True(t, ok, "expected rpc error, got %v", response)
			assert.Equal(t, tt.wantCode, rpcErr["code"])
		})
	}
}
