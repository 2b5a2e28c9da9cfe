package metrics

import "time"

// noop is a Recorder that discards all events.
type noop struct{}

// NewNoop returns a Recorder that does nothing.
// Used when no metrics backend is configured.
func NewNoop() Recorder {
	return noop{}
}

func (noop) IncSignup(string)                           {}
func (noop) IncLogin(string)                            {}
func (noop) IncTranscription(string)                    {}
func (noop) ObserveTranscriptionDuration(time.Duration) {}
