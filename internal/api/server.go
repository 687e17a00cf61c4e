// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package api is the thin HTTP adapter over the orchestrator (spec.md
// §6). Grounded on the teacher's internal/api/server.go for timeouts and
// graceful-shutdown wiring, and on internal/api/ebpf_handlers.go for the
// gorilla/mux route-variable idiom this package needs for
// GET /traceroute/device-based/{id}. Trimmed to what a read-only trace
// endpoint needs: no TLS cert management and no session auth beyond an
// optional bearer token, since the firewall's own identity/auth stack is
// out of scope for a query tool.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pathtrace.dev/pathtrace/internal/iputil"
	"pathtrace.dev/pathtrace/internal/logging"
	"pathtrace.dev/pathtrace/internal/orchestrator"
)

// ServerConfig holds HTTP server timeout configuration, matching the
// teacher's DefaultServerConfig shape (Slowloris resistance, body/header
// limits).
type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	// BearerToken, if non-empty, is required as "Authorization: Bearer
	// <token>" on the trace endpoints. /healthz and /metrics stay open.
	BearerToken string
}

// DefaultServerConfig returns the teacher's Slowloris-resistant defaults,
// with a longer write timeout to cover a multi-hop trace's round trips.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}

// Server wires an Orchestrator into an HTTP surface: one synchronous
// trace endpoint, a poll endpoint for that trace's cached result,
// Prometheus metrics, and a liveness probe.
type Server struct {
	cfg    ServerConfig
	orch   *orchestrator.Orchestrator
	router *mux.Router
	log    *logging.Logger
	cache  *traceCache
}

// NewServer builds a Server ready for Run. gatherer is typically
// prometheus.DefaultGatherer; pass nil to use it.
func NewServer(orch *orchestrator.Orchestrator, cfg ServerConfig, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:    cfg,
		orch:   orch,
		router: mux.NewRouter(),
		log:    logging.With("component", "api"),
		cache:  newTraceCache(256),
	}
	s.routes(gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	traced := s.router.PathPrefix("/traceroute/device-based").Subrouter()
	if s.cfg.BearerToken != "" {
		traced.Use(s.requireBearerToken)
	}
	traced.HandleFunc("", s.handleTrace).Methods(http.MethodPost)
	traced.HandleFunc("/{id}", s.handleGetTrace).Methods(http.MethodGet)
}

// Handler returns the server's http.Handler, primarily for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// matching the teacher's http.Server timeout wiring in Server.Start.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		MaxHeaderBytes:    s.cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server starting", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("api server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) requireBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "Bearer " + s.cfg.BearerToken
		if r.Header.Get("Authorization") != want {
			respondError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// traceRequestBody is the POST /traceroute/device-based JSON body
// (spec.md §6).
type traceRequestBody struct {
	SourceIP        string `json:"source_ip"`
	DestinationIP   string `json:"destination_ip"`
	InitialContext  string `json:"initial_context,omitempty"`
	StartDevice     string `json:"start_device,omitempty"`
	Protocol        string `json:"protocol,omitempty"`
	DestinationPort int    `json:"destination_port,omitempty"`
	MaxHops         int    `json:"max_hops,omitempty"`
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var body traceRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !iputil.ValidIP(body.SourceIP) || !iputil.ValidIP(body.DestinationIP) {
		respondError(w, http.StatusBadRequest, "source_ip and destination_ip must be valid IPv4 addresses")
		return
	}

	trace := s.orch.Trace(r.Context(), orchestrator.Request{
		SourceIP:        body.SourceIP,
		DestinationIP:   body.DestinationIP,
		InitialContext:  body.InitialContext,
		StartDevice:     body.StartDevice,
		Protocol:        body.Protocol,
		DestinationPort: body.DestinationPort,
		MaxHops:         body.MaxHops,
	})
	s.cache.put(trace)

	// Every produced trace, including needs_input/ambiguous_hop/error,
	// is a 200: the request was served, whatever the path's outcome.
	respondJSON(w, http.StatusOK, trace)
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	trace, ok := s.cache.get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "no cached trace with that id")
		return
	}
	respondJSON(w, http.StatusOK, trace)
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
