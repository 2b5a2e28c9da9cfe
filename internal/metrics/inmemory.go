package metrics

import (
	"sync"
	"time"
)

// InMemory is a Recorder that accumulates counts in process memory.
// Suitable for tests and for the development readyz output.
type InMemory struct {
	mu sync.Mutex

	signups        map[string]int64
	logins         map[string]int64
	transcriptions map[string]int64

	transcriptionDurationTotal time.Duration
	transcriptionDurationCount int64
}

// Snapshot is a point-in-time copy of the accumulated counters.
type Snapshot struct {
	Signups        map[string]int64
	Logins         map[string]int64
	Transcriptions map[string]int64

	TranscriptionDurationAvg time.Duration
}

// NewInMemory returns an empty in-memory Recorder.
func NewInMemory() *InMemory {
	return &InMemory{
		signups:        make(map[string]int64),
		logins:         make(map[string]int64),
		transcriptions: make(map[string]int64),
	}
}

func (m *InMemory) IncSignup(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups[outcome]++
}

func (m *InMemory) IncLogin(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins[outcome]++
}

func (m *InMemory) IncTranscription(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcriptions[outcome]++
}

func (m *InMemory) ObserveTranscriptionDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcriptionDurationTotal += duration
	m.transcriptionDurationCount++
}

// Snapshot returns a copy of the current counters.
func (m *InMemory) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Signups:        copyCounts(m.signups),
		Logins:         copyCounts(m.logins),
		Transcriptions: copyCounts(m.transcriptions),
	}
	if m.transcriptionDurationCount > 0 {
		snap.TranscriptionDurationAvg = m.transcriptionDurationTotal / time.Duration(m.transcriptionDurationCount)
	}
	return snap
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
