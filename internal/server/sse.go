package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/wikiquiz/internal/events"
	"github.com/abhisek/wikiquiz/internal/job"
)

const sseKeepaliveInterval = 15 * time.Second

// handleJobEvents streams a job's event channels over SSE. The stream
// closes after the terminal event or when the client disconnects.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, ok := s.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found", "not_found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "internal")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	stream, unsubscribe := s.hub.SubscribeJob(id)
	defer unsubscribe()

	// A client attaching after the job ended still gets a terminal
	// snapshot instead of a stream that never closes.
	if snap := j.Snapshot(); snap.Status == job.StatusCompleted || snap.Status == job.StatusError {
		writeSSE(w, events.Event{Type: events.TypeCompleted, Payload: snap})
		flusher.Flush()
		return
	}

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case ev, ok := <-stream:
			if !ok {
				return
			}
			if err := writeSSE(w, ev); err != nil {
				s.log.Debug("sse write failed", zap.String("job_id", id), zap.Error(err))
				return
			}
			flusher.Flush()
			if ev.Type == events.TypeCompleted || ev.Type == events.TypeError {
				return
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, ev events.Event) error {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}
