package services

import "sync"

// inflightGuard enforces at most one in-flight submission per record. It
// replaces the "disable the button while submitting" convention with a
// structural check: a duplicate submission for the same key is rejected
// outright instead of merely being discouraged in the UI.
type inflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{keys: make(map[string]struct{})}
}

// acquire reserves key for one submission. It reports false when a
// submission for the same key is already in flight.
func (g *inflightGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

// release frees key after the submission settles.
func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}

// msgSubmissionInFlight is shown when a duplicate submission is rejected.
const msgSubmissionInFlight = "A submission for this record is already in progress"
