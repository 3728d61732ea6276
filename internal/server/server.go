package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwbudde/pixelscan/internal/store"
)

// Server exposes the vectorization job API over HTTP.
type Server struct {
	jobManager *JobManager
	store      store.Store
	addr       string
	server     *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates an HTTP server around a job store. The store must
// not be nil; completed scans and SVGs are served from it.
func NewServer(addr string, jobStore store.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		jobManager: NewJobManager(),
		store:      jobStore,
		addr:       addr,
		ctx:        ctx,
		cancel:     cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleCancelJob)
	mux.HandleFunc("GET /api/jobs/{id}/svg", s.artifactHandler(artifactSVG, "image/svg+xml"))
	mux.HandleFunc("GET /api/jobs/{id}/scan", s.artifactHandler(artifactScan, "text/plain; charset=utf-8"))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Start runs the server until Shutdown or a listener error.
func (s *Server) Start() error {
	slog.Info("Starting server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	slog.Info("Shutting down server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var config JobConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid job config: %w", err))
		return
	}

	job, err := s.jobManager.CreateJob(config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.SaveRecord(job.ID, toRecord(job)); err != nil {
		slog.Warn("Failed to persist new job", "job_id", job.ID, "error", err)
	}

	go func() {
		if err := runJob(s.ctx, s.jobManager, s.store, job.ID); err != nil {
			slog.Debug("Job goroutine finished with error", "job_id", job.ID, "error", err)
		}
	}()

	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobManager.ListJobs())
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		// Jobs from earlier runs are only on disk.
		rec, err := s.store.LoadRecord(jobID)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Errorf("job not found: %s", jobID))
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if err := s.jobManager.CancelJob(jobID); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	persistJob(s.jobManager, s.store, jobID)
	w.WriteHeader(http.StatusNoContent)
}

// artifactHandler streams a job artifact with the given content type.
func (s *Server) artifactHandler(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.PathValue("id")

		rc, err := s.store.OpenArtifact(jobID, name)
		if err != nil {
			var notFound *store.NotFoundError
			if errors.As(err, &notFound) {
				writeError(w, http.StatusNotFound, fmt.Errorf("artifact %s not available for job %s", name, jobID))
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", contentType)
		if _, err := io.Copy(w, rc); err != nil {
			slog.Warn("Failed to stream artifact", "job_id", jobID, "name", name, "error", err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
