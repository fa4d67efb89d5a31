package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/wikiquiz/internal/job"
)

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var spec job.Spec
	if err := decodeJSON(r, &spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "bad_request")
		return
	}

	j, err := s.jobs.Create(spec)
	if err != nil {
		var verr *job.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error(), "validation_error")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "internal")
		return
	}

	// The job outlives the request; its only deadline is the
	// per-provider-call timeout.
	go s.orch.Run(context.Background(), j)

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": j.ID()})
}

func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": s.jobs.Snapshots()})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found", "not_found")
		return
	}
	writeJSON(w, http.StatusOK, j.Snapshot())
}

func (s *Server) handleStopJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found", "not_found")
		return
	}
	j.RequestStop()
	writeJSON(w, http.StatusOK, j.Snapshot())
}
