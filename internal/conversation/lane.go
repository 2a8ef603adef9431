package conversation

import "sync"

// laneLock serializes message handling per user while letting different
// users proceed fully concurrently. Without it, two in-flight messages for
// one user would both load the same prior history and the later write
// would silently discard the other's turns.
//
// A global mutex guards the lane map; each lane carries its own mutex for
// intra-user serialization. The global mutex is held only to look up or
// create the per-user entry.
type laneLock struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	mu   sync.Mutex
	refs int
}

func newLaneLock() *laneLock {
	return &laneLock{lanes: make(map[string]*lane)}
}

// acquire locks the lane for the user, creating it on first use.
func (l *laneLock) acquire(userID string) {
	l.mu.Lock()
	ln, ok := l.lanes[userID]
	if !ok {
		ln = &lane{}
		l.lanes[userID] = ln
	}
	ln.refs++
	l.mu.Unlock()

	// Lock outside the global mutex so other users are not blocked.
	ln.mu.Lock()
}

// release unlocks the user's lane and drops the map entry once no one is
// holding or waiting on it, keeping the map bounded by active users.
func (l *laneLock) release(userID string) {
	l.mu.Lock()
	ln, ok := l.lanes[userID]
	if !ok {
		l.mu.Unlock()
		return
	}
	ln.refs--
	if ln.refs == 0 {
		delete(l.lanes, userID)
	}
	l.mu.Unlock()

	ln.mu.Unlock()
}
