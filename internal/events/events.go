// Package events is the fire-and-forget notification channel between
// the job orchestrator and its observers (the SSE API, tests).
package events

import (
	"fmt"
	"time"
)

// Type enumerates the event kinds a job emits.
type Type string

const (
	TypeLog                Type = "log"
	TypeProgress           Type = "progress"
	TypeQuestionsGenerated Type = "questionsGenerated"
	TypeCompleted          Type = "completed"
	TypeError              Type = "error"
)

// Event is one notification on a named channel.
type Event struct {
	Channel string    `json:"channel"`
	Type    Type      `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Sink accepts events. Publish must never block and must never fail the
// caller; implementations drop on backpressure.
type Sink interface {
	Publish(ev Event)
}

// JobChannel returns the channel name for one event type of one job,
// e.g. "job:1234:progress".
func JobChannel(jobID string, t Type) string {
	return fmt.Sprintf("job:%s:%s", jobID, t)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(Event) {}
