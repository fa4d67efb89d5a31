// Package job owns generation runs: the job state machine, the
// in-memory registry, and the orchestrator that walks work units.
package job

import (
	"sync"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusStopping  Status = "stopping"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Severity classifies a log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// LogEntry is one line of a job's ordered log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// Job is the mutable state of one generation run. All mutation goes
// through methods; the orchestrator is the only writer of progress and
// counters, stop requests may arrive from any goroutine.
type Job struct {
	mu sync.Mutex

	id        string
	spec      Spec
	status    Status
	progress  int
	calls     int
	questions int
	startedAt time.Time
	endedAt   *time.Time
	log       []LogEntry

	cancelRequested bool
}

func newJob(id string, spec Spec) *Job {
	return &Job{
		id:        id,
		spec:      spec,
		status:    StatusRunning,
		startedAt: time.Now().UTC(),
	}
}

// ID returns the job's identifier.
func (j *Job) ID() string { return j.id }

// Spec returns the submitted job spec.
func (j *Job) Spec() Spec { return j.spec }

// RequestStop flags the job for cooperative cancellation. Honored at
// the next unit boundary; a no-op once the job is terminal.
func (j *Job) RequestStop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.cancelRequested = true
	j.status = StatusStopping
}

// StopRequested reports whether a stop has been requested.
func (j *Job) StopRequested() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelRequested
}

// appendLog records a log entry and returns it with the timestamp set.
func (j *Job) appendLog(sev Severity, msg string) LogEntry {
	entry := LogEntry{Timestamp: time.Now().UTC(), Message: msg, Severity: sev}
	j.mu.Lock()
	j.log = append(j.log, entry)
	j.mu.Unlock()
	return entry
}

// setProgress updates the progress percentage, never decreasing it.
func (j *Job) setProgress(pct int) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	if pct > 100 {
		pct = 100
	}
	if pct > j.progress {
		j.progress = pct
	}
	return j.progress
}

func (j *Job) addCall() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	return j.calls
}

func (j *Job) callsMade() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls
}

func (j *Job) addQuestions(n int) {
	j.mu.Lock()
	j.questions += n
	j.mu.Unlock()
}

// finish moves the job to a terminal status.
func (j *Job) finish(status Status) {
	now := time.Now().UTC()
	j.mu.Lock()
	j.status = status
	j.endedAt = &now
	j.mu.Unlock()
}

// Snapshot is an immutable copy of job state for the API.
type Snapshot struct {
	ID                 string     `json:"jobId"`
	Status             Status     `json:"status"`
	ProgressPercent    int        `json:"progressPercent"`
	CallsMade          int        `json:"callsMade"`
	QuestionsGenerated int        `json:"questionsGenerated"`
	StartedAt          time.Time  `json:"startedAt"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	Log                []LogEntry `json:"log"`
}

// Snapshot returns a copy of the job's current state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	logCopy := make([]LogEntry, len(j.log))
	copy(logCopy, j.log)

	return Snapshot{
		ID:                 j.id,
		Status:             j.status,
		ProgressPercent:    j.progress,
		CallsMade:          j.calls,
		QuestionsGenerated: j.questions,
		StartedAt:          j.startedAt,
		EndedAt:            j.endedAt,
		Log:                logCopy,
	}
}
