// Package server exposes the projection engine over an HTTP JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/model"
	"github.com/drubhattacharya/budget-simulator/internal/report"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ScenarioStore is the subset of the history store the server needs.
type ScenarioStore interface {
	SaveScenario(ctx context.Context, r model.SavedScenario) (int64, error)
	ListScenarios(ctx context.Context, limit int) ([]model.SavedScenario, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr          string
	Defaults      engine.Scenario
	RecentBuffer  int
	Store         ScenarioStore // optional
	Logger        *zap.Logger
	ShutdownGrace time.Duration
}

// Result is a compact record of one served projection.
type Result struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	GrownMinutes  float64   `json:"grown_minutes"`
	SavingsAnnual float64   `json:"savings_annual"`
	Outcome       string    `json:"outcome"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt      time.Time `json:"started_at"`
	Requests       int64     `json:"requests"`
	InvalidInputs  int64     `json:"invalid_inputs"`
	LastError      string    `json:"last_error,omitempty"`
	HistoryEnabled bool      `json:"history_enabled"`
	Recent         []Result  `json:"recent"`
}

// ProjectResponse is the body of a successful POST /v1/project.
type ProjectResponse struct {
	Report     report.Report     `json:"report"`
	Projection engine.Projection `json:"projection"`
	SavedID    int64             `json:"saved_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Service provides the HTTP API.
type Service struct {
	cfg Config
	log *zap.Logger

	mu        sync.RWMutex
	startedAt time.Time
	requests  int64
	invalid   int64
	lastError string
	nextID    int64
	recent    []Result
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.RecentBuffer < 1 {
		cfg.RecentBuffer = 50
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		startedAt: time.Now(),
	}
}

// Handler returns the API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/defaults", s.handleDefaults)
	mux.HandleFunc("POST /v1/project", s.handleProject)
	mux.HandleFunc("GET /v1/scenarios", s.handleScenarios)
	return mux
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
		defer cancel()
		s.log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Service) record(p engine.Projection) {
	outcome := "savings"
	if p.Savings.IsLoss() {
		outcome = "loss"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.recent = append(s.recent, Result{
		ID:            s.nextID,
		Timestamp:     time.Now(),
		GrownMinutes:  p.GrownMinutes,
		SavingsAnnual: p.Savings.Annual,
		Outcome:       outcome,
	})
	if len(s.recent) > s.cfg.RecentBuffer {
		s.recent = s.recent[len(s.recent)-s.cfg.RecentBuffer:]
	}
}

func (s *Service) noteRequest(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if err == nil {
		return
	}
	s.lastError = err.Error()
	if errors.Is(err, engine.ErrInvalidInput) {
		s.invalid++
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]Result, len(s.recent))
	copy(recent, s.recent)

	return Status{
		StartedAt:      s.startedAt,
		Requests:       s.requests,
		InvalidInputs:  s.invalid,
		LastError:      s.lastError,
		HistoryEnabled: s.cfg.Store != nil,
		Recent:         recent,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, defaultsRequest(s.cfg.Defaults))
}

func (s *Service) handleProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.noteRequest(err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decoding request: " + err.Error()})
		return
	}

	scenario, err := req.scenario(s.cfg.Defaults)
	if err == nil {
		var p engine.Projection
		if p, err = engine.Project(scenario); err == nil {
			s.respondProjection(w, r, req, scenario, p)
			return
		}
	}

	s.noteRequest(err)
	s.log.Debug("rejected projection", zap.Error(err))
	status := http.StatusInternalServerError
	if errors.Is(err, engine.ErrInvalidInput) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Service) respondProjection(w http.ResponseWriter, r *http.Request, req ProjectRequest, sc engine.Scenario, p engine.Projection) {
	s.noteRequest(nil)
	s.record(p)

	resp := ProjectResponse{Report: report.New(sc, p), Projection: p}

	if req.Save && s.cfg.Store != nil {
		id, err := s.cfg.Store.SaveScenario(r.Context(), model.NewSavedScenario(req.Name, sc, p, time.Now()))
		if err != nil {
			s.log.Error("saving scenario", zap.Error(err))
		} else {
			resp.SavedID = id
		}
	}

	s.log.Info("projection",
		zap.Float64("grown_minutes", p.GrownMinutes),
		zap.Float64("savings_annual", p.Savings.Annual),
		zap.Bool("loss", p.Savings.IsLoss()),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "scenario history is disabled"})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	list, err := s.cfg.Store.ListScenarios(r.Context(), limit)
	if err != nil {
		s.log.Error("listing scenarios", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "listing scenarios failed"})
		return
	}
	if list == nil {
		list = []model.SavedScenario{}
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
