package errors

import "sync"

// Statistics counts handled errors keyed by "<kind>:<code>". It is shared
// mutable state across every operation run through one handler instance;
// increments are safe for concurrent callers. Counts live for the process
// lifetime of the owner and are lost on restart.
type Statistics struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewStatistics creates an empty tracker.
func NewStatistics() *Statistics {
	return &Statistics{counts: map[string]int{}}
}

// Record increments the counter for the record's kind and code.
func (s *Statistics) Record(err *PluginError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[err.StatsKey()]++
}

// Snapshot returns a copy of the current counts. Mutating the snapshot does
// not affect subsequent recordings.
func (s *Statistics) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Reset clears all counters.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = map[string]int{}
}
