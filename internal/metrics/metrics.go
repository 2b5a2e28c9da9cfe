// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels for counter methods.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncSignup(outcome string)
	IncLogin(outcome string)
	IncTranscription(outcome string)
	ObserveTranscriptionDuration(duration time.Duration)
}
