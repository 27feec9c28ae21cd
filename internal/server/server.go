// Package server exposes the pipeline runner over HTTP: a push webhook that
// triggers runs and read endpoints for their status.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hoffa/kittenci/internal/pipeline"
	"github.com/hoffa/kittenci/internal/runner"
)

// PushEvent is the webhook payload that triggers a run.
type PushEvent struct {
	Repo   string `json:"repo"`
	Ref    string `json:"ref"`
	Commit string `json:"commit"`
}

// Run is one triggered pipeline run. Result is nil until the run finishes.
type Run struct {
	ID     string            `json:"id"`
	Event  PushEvent         `json:"event"`
	Status runner.Status     `json:"status"`
	Result *runner.RunResult `json:"result,omitempty"`
}

// Server holds the in-memory run registry. Each accepted hook gets its own
// goroutine; overlapping pushes run independently.
type Server struct {
	mu     sync.Mutex
	runs   map[string]*Run
	order  []string // run IDs, oldest first
	nextID int

	runner       *runner.Runner
	pipelinePath string
	logger       *log.Logger
}

// New creates a Server that runs the pipeline at pipelinePath on every push.
func New(r *runner.Runner, pipelinePath string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "server"})
	}
	return &Server{
		runs:         make(map[string]*Run),
		runner:       r,
		pipelinePath: pipelinePath,
		logger:       logger,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/hooks/push", s.handlePush)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr, "pipeline", s.pipelinePath)
	return http.ListenAndServe(addr, s.Routes())
}

// handlePush accepts a push event, validates the configured pipeline and
// starts an asynchronous run.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var event PushEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid push payload", http.StatusBadRequest)
		return
	}

	p, err := pipeline.Load(s.pipelinePath)
	if err != nil {
		http.Error(w, "cannot load pipeline: "+err.Error(), http.StatusInternalServerError)
		return
	}

	run := s.register(event)
	id, status := run.ID, run.Status
	s.logger.Info("push accepted", "run", id, "repo", event.Repo, "ref", event.Ref)

	go s.execute(id, p)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"id":     id,
		"status": string(status),
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Copy under the lock: the run goroutine mutates status in place.
	s.mu.Lock()
	run, ok := s.runs[id]
	var snapshot Run
	if ok {
		snapshot = *run
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- { // newest first
		out = append(out, *s.runs[s.order[i]])
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) register(event PushEvent) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run := &Run{
		ID:     fmt.Sprintf("r-%d", s.nextID),
		Event:  event,
		Status: runner.StatusPending,
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	return run
}

func (s *Server) execute(id string, p *pipeline.Pipeline) {
	s.setStatus(id, runner.StatusRunning, nil)

	res, err := s.runner.Run(context.Background(), p)
	if err != nil {
		s.logger.Error("run aborted", "run", id, "err", err)
		s.setStatus(id, runner.StatusFailed, nil)
		return
	}

	status := runner.StatusPassed
	if !res.Passed {
		status = runner.StatusFailed
	}
	s.setStatus(id, status, res)
}

func (s *Server) setStatus(id string, status runner.Status, res *runner.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Status = status
		if res != nil {
			run.Result = res
		}
	}
}
