package server

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"net/http"
	"time"
	"wipeit/internal/cleaner"
	"wipeit/internal/connectors"
	"wipeit/internal/destroyer"
	"wipeit/internal/inventory"
	"wipeit/internal/lib/retry"
	"wipeit/internal/report"
	"wipeit/internal/resources"
)

// SessionFactory returns the clients for a profile and region.
type SessionFactory func(profile, region string) (*connectors.SAwsSession, error)

type Server struct {
	Sessions SessionFactory
	Registry *cleaner.Registry
	Workers  int
	Retry    retry.Policy
}

func New(sessions SessionFactory, registry *cleaner.Registry) *Server {
	return &Server{
		Sessions: sessions,
		Registry: registry,
		Workers:  1,
		Retry:    retry.DefaultPolicy(),
	}
}

type inventoryRequest struct {
	Profile string                   `json:"profile"`
	Region  string                   `json:"region"`
	Types   []resources.ResourceType `json:"types,omitempty"`
}

// InventoryResponse is the reply of an inventory call.
type InventoryResponse struct {
	Success bool `json:"success"`
	inventory.Result
}

// DeleteResponse is the reply of a delete call.
type DeleteResponse struct {
	Success bool `json:"success"`
	report.Report
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(jsonContentType)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/inventory", s.handleInventory)
		r.Post("/delete", s.handleDelete)
	})
	return r
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(resources.ErrMalformedRequest, err.Error()).Error())
		return
	}
	if req.Profile == "" || req.Region == "" {
		writeError(w, http.StatusBadRequest, "profile and region are required")
		return
	}

	clients, err := s.Sessions(req.Profile, req.Region)
	if err != nil {
		log.Error().Err(err).Msg("failed to create aws session")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := inventory.New(clients).Discover(r.Context(), req.Types...)
	writeJSON(w, http.StatusOK, InventoryResponse{Success: true, Result: result})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, err := resources.ParseRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Profile == "" || req.Region == "" {
		writeError(w, http.StatusBadRequest, "profile and region are required")
		return
	}

	clients, err := s.Sessions(req.Profile, req.Region)
	if err != nil {
		log.Error().Err(err).Msg("failed to create aws session")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	d := destroyer.New(clients, s.Registry, destroyer.WithWorkers(s.Workers), destroyer.WithRetry(s.Retry))
	outcomes := d.Run(r.Context(), req.Selections)
	writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Report: report.New(outcomes)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

// ListenAndServe serves the api on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
