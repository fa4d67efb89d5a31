package job

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks every job for the lifetime of the process. Jobs are
// retained after completion so clients can inspect terminal state.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create validates spec, registers a new running job, and returns it.
func (r *Registry) Create(spec Spec) (*Job, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	j := newJob(uuid.NewString(), spec)
	r.mu.Lock()
	r.jobs[j.id] = j
	r.mu.Unlock()
	return j, nil
}

// Get returns the job with the given id, or false.
func (r *Registry) Get(id string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}

// Snapshots returns a snapshot of every known job.
func (r *Registry) Snapshots() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Snapshot, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Snapshot())
	}
	return out
}
