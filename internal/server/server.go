package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/copyleftdev/PIVOT/internal/config"
	"github.com/copyleftdev/PIVOT/internal/simplex"
)

// Solve job status values.
const (
	statusPending   = "pending"
	statusRunning   = "running"
	statusOptimal   = "optimal"
	statusUnbounded = "unbounded"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// SolveState tracks one solve job: its status, timing, and result.
// Access is guarded by the server's solvesMu.
type SolveState struct {
	ID          string
	Status      string // pending, running, optimal, unbounded, failed, cancelled
	StartTime   time.Time
	EndTime     *time.Time
	Result      *simplex.Result
	Error       string
	CancelFunc  context.CancelFunc
	LastUpdated time.Time
}

// Server implements the HTTP and JSON-RPC surface of the simplex
// service. It manages solve jobs and provides endpoints to start,
// monitor, and cancel them; the solver itself stays synchronous and
// pure, so each job runs in its own goroutine with its own tableau.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	solves   map[string]*SolveState
	solvesMu sync.RWMutex // Protects the solves map
}

// NewServer creates a new server instance with the given config and logger.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		solves: make(map[string]*SolveState),
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/solve/{id}", s.handleCancel)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// handleJSONRPC handles JSON-RPC 2.0 requests.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string        `json:"jsonrpc"`
		ID      interface{}   `json:"id"`
		Method  string        `json:"method"`
		Params  []interface{} `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, -32700, "Parse error", nil)
		return
	}

	if request.JSONRPC != "2.0" {
		s.respondWithError(w, -32600, "Invalid Request", nil)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "simplex.solve":
		result, err = s.rpcSolve(request.Params)
	case "simplex.status":
		result, err = s.rpcStatus(request.Params)
	case "simplex.cancel":
		err = s.rpcCancel(request.Params)
	default:
		s.respondWithError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, -32000, err.Error(), request.ID)
		return
	}

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// rpcSolve handles the simplex.solve JSON-RPC method.
// Expected parameters: {"tableau": [[...], [...], ...]} with the last
// row holding reduced costs and the last column the right-hand side.
// Returns: {"solve_id": "lp_123", "status": "pending"}
func (s *Server) rpcSolve(params []interface{}) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing required parameters")
	}

	paramMap, ok := params[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid parameter format, expected object")
	}

	rowsInterface, ok := paramMap["tableau"].([]interface{})
	if !ok || len(rowsInterface) == 0 {
		return nil, fmt.Errorf("tableau is required")
	}

	rows := make([][]float64, len(rowsInterface))
	for i, ri := range rowsInterface {
		entries, ok := ri.([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid tableau format, expected array of rows")
		}
		rows[i] = make([]float64, len(entries))
		for j, e := range entries {
			v, ok := e.(float64)
			if !ok {
				return nil, fmt.Errorf("tableau entries must be numbers")
			}
			rows[i][j] = v
		}
	}

	return s.startSolve(rows)
}

// rpcStatus handles the simplex.status JSON-RPC method.
// Expected parameters: {"solve_id": "lp_123"}
func (s *Server) rpcStatus(params []interface{}) (interface{}, error) {
	id, err := solveIDParam(params)
	if err != nil {
		return nil, err
	}

	s.solvesMu.RLock()
	defer s.solvesMu.RUnlock()

	state, exists := s.solves[id]
	if !exists {
		return nil, fmt.Errorf("solve not found")
	}

	return statusResponse(state), nil
}

// rpcCancel handles the simplex.cancel JSON-RPC method.
// Expected parameters: {"solve_id": "lp_123"}
func (s *Server) rpcCancel(params []interface{}) error {
	id, err := solveIDParam(params)
	if err != nil {
		return err
	}

	s.solvesMu.Lock()
	defer s.solvesMu.Unlock()

	state, exists := s.solves[id]
	if !exists {
		return fmt.Errorf("solve not found")
	}

	switch state.Status {
	case statusOptimal, statusUnbounded, statusFailed, statusCancelled:
		// Already in a terminal state
		return fmt.Errorf("cannot cancel solve with status: %s", state.Status)
	}

	if state.CancelFunc != nil {
		state.CancelFunc()
	}

	state.Status = statusCancelled
	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now

	s.logger.Info("Solve cancelled", zap.String("solve_id", id))

	return nil
}

// solveIDParam extracts the solve_id parameter from JSON-RPC params.
func solveIDParam(params []interface{}) (string, error) {
	if len(params) == 0 {
		return "", fmt.Errorf("missing required parameters")
	}
	paramMap, ok := params[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid parameter format, expected object")
	}
	id, ok := paramMap["solve_id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("solve_id is required")
	}
	return id, nil
}

// startSolve validates the tableau, registers a job, and launches the
// solver in a goroutine. Tableau validation happens here so malformed
// input is rejected before a job is created.
func (s *Server) startSolve(rows [][]float64) (map[string]interface{}, error) {
	tableau, err := simplex.NewTableau(rows)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("lp_%d", time.Now().UnixNano())

	var ctx context.Context
	var cancel context.CancelFunc
	if s.cfg.Simplex.SolveTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), s.cfg.Simplex.SolveTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	now := time.Now()
	state := &SolveState{
		ID:          id,
		Status:      statusPending,
		StartTime:   now,
		CancelFunc:  cancel,
		LastUpdated: now,
	}

	s.solvesMu.Lock()
	s.solves[id] = state
	s.solvesMu.Unlock()

	go s.runSolve(ctx, id, tableau)

	return map[string]interface{}{
		"solve_id": id,
		"status":   statusPending,
	}, nil
}

// runSolve executes one solve job in a goroutine.
func (s *Server) runSolve(ctx context.Context, id string, tableau *simplex.Tableau) {
	s.solvesMu.Lock()
	if state, ok := s.solves[id]; ok && state.Status == statusPending {
		state.Status = statusRunning
		state.LastUpdated = time.Now()
	}
	s.solvesMu.Unlock()

	solver := simplex.NewSolver(simplex.SolverConfig{
		MaxIterations: s.cfg.Simplex.MaxIterations,
	})
	result, err := solver.Solve(ctx, tableau)

	s.solvesMu.Lock()
	defer s.solvesMu.Unlock()

	state, ok := s.solves[id]
	if !ok {
		return
	}

	now := time.Now()
	state.LastUpdated = now

	if err != nil {
		// A cancelled job already holds its terminal state.
		if state.Status == statusCancelled {
			solvesTotal.WithLabelValues(statusCancelled).Inc()
			return
		}
		s.logger.Error("Solve failed",
			zap.String("solve_id", id),
			zap.Error(err),
		)
		state.Status = statusFailed
		state.Error = err.Error()
		state.EndTime = &now
		solvesTotal.WithLabelValues(failureLabel(err)).Inc()
		return
	}

	state.Status = result.Status.String()
	state.Result = result
	state.EndTime = &now

	solvesTotal.WithLabelValues(state.Status).Inc()
	solvePivots.Observe(float64(result.Pivots))

	s.logger.Info("Solve finished",
		zap.String("solve_id", id),
		zap.String("status", state.Status),
		zap.Int("pivots", result.Pivots),
	)
}

// failureLabel maps a solve error to a metrics label.
func failureLabel(err error) string {
	switch {
	case simplex.IsKind(err, simplex.KindCycleSuspected):
		return "cycle_suspected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCancelled
	default:
		return statusFailed
	}
}

// statusResponse renders a solve state for both the HTTP and JSON-RPC
// status endpoints. Callers hold at least a read lock.
func statusResponse(state *SolveState) map[string]interface{} {
	response := map[string]interface{}{
		"solve_id":    state.ID,
		"status":      state.Status,
		"start_time":  state.StartTime.Format(time.RFC3339),
		"last_update": state.LastUpdated.Format(time.RFC3339),
	}

	if state.EndTime != nil {
		response["end_time"] = state.EndTime.Format(time.RFC3339)
	}

	if state.Error != "" {
		response["error"] = state.Error
	}

	if state.Result != nil {
		m, n := state.Result.Tableau.Dims()
		response["pivots"] = state.Result.Pivots
		response["objective_entry"] = state.Result.Tableau.At(m, n)
		response["solution"] = state.Result.Tableau.BasicSolution()
		response["tableau"] = state.Result.Tableau.Rows()
	}

	return response
}

// respondWithError sends a JSON-RPC 2.0 error response.
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error",
		zap.Int("code", code),
		zap.String("message", message),
	)

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Close cancels all running solves.
func (s *Server) Close() error {
	s.solvesMu.Lock()
	defer s.solvesMu.Unlock()

	for _, state := range s.solves {
		if state.CancelFunc != nil {
			state.CancelFunc()
		}
	}
	return nil
}

// handleSolve handles POST /api/v1/solve.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var reqBody struct {
		Tableau [][]float64 `json:"tableau"`
	}

	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(reqBody.Tableau) == 0 {
		http.Error(w, "tableau is required", http.StatusBadRequest)
		return
	}

	result, err := s.startSolve(reqBody.Tableau)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(result)
}

// handleStatus handles GET /api/v1/status/{id}.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing solve ID", http.StatusBadRequest)
		return
	}

	result, err := s.rpcStatus([]interface{}{map[string]interface{}{
		"solve_id": id,
	}})

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// handleCancel handles DELETE /api/v1/solve/{id}.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing solve ID", http.StatusBadRequest)
		return
	}

	err := s.rpcCancel([]interface{}{map[string]interface{}{
		"solve_id": id,
	}})

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "cancellation requested",
	})
}
