// Package status serves a minimal polled JSON status endpoint over the
// live simulation, adapted from the teacher's net/http + gorilla/mux
// server shape (server/server.go), with the websocket push loop dropped
// in favor of a plain GET.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fleetsim/sim"
)

// Snapshot is the JSON body returned by GET /status.
type Snapshot struct {
	Step          int            `json:"step"`
	MaxSteps      int            `json:"max_steps"`
	WorkerCount   int            `json:"worker_count"`
	TaskCount     int            `json:"task_count"`
	TasksDone     int            `json:"tasks_done"`
	AllTasksDone  bool           `json:"all_tasks_done"`
	MakespanSoFar float64        `json:"makespan_so_far"`
	DepotStock    map[string]int `json:"depot_stock"`
}

func snapshotModel(model *sim.Model) Snapshot {
	done := 0
	for _, t := range model.Tasks {
		if t.Status == sim.TaskDone {
			done++
		}
	}
	return Snapshot{
		Step:          model.Steps,
		MaxSteps:      model.MaxSteps,
		WorkerCount:   len(model.Workers),
		TaskCount:     len(model.Tasks),
		TasksDone:     done,
		AllTasksDone:  model.AllTasksDone(),
		MakespanSoFar: model.Makespan(),
		DepotStock:    model.Depot.CountByType(),
	}
}

// Server exposes the latest model snapshot over HTTP. ModelFunc is called
// fresh on every request, so the server always reports the simulation's
// current state without needing its own copy of model state.
type Server struct {
	addr    string
	srv     *http.Server
	modelFn func() *sim.Model
}

// NewServer builds a Server bound to addr; the simulation is polled via
// modelFn at request time.
func NewServer(addr string, modelFn func() *sim.Model) *Server {
	s := &Server{addr: addr, modelFn: modelFn}

	r := mux.NewRouter()
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	model := s.modelFn()
	if model == nil {
		http.Error(w, "simulation not yet started", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshotModel(model)); err != nil {
		http.Error(w, fmt.Sprintf("encoding status: %v", err), http.StatusInternalServerError)
	}
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
