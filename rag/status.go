package rag

import (
	"sync"
	"time"

	"github.com/sitechat/sitechat"
)

// StatusTracker records the build state of each domain's index and
// admits at most one running build per domain. Safe for concurrent use.
type StatusTracker struct {
	mu       sync.Mutex
	statuses map[string]*sitechat.IndexStatus
}

// NewStatusTracker creates an empty StatusTracker.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{statuses: make(map[string]*sitechat.IndexStatus)}
}

// Begin marks a domain as building. Returns false when a build is
// already running for the domain.
func (t *StatusTracker) Begin(domain string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st := t.statuses[domain]; st != nil && st.State == sitechat.StateBuilding {
		return false
	}
	t.statuses[domain] = &sitechat.IndexStatus{
		Domain:    domain,
		State:     sitechat.StateBuilding,
		UpdatedAt: time.Now().UTC(),
	}
	return true
}

// Finish records the outcome of a build started with Begin.
func (t *StatusTracker) Finish(domain string, meta *sitechat.IndexMeta, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := &sitechat.IndexStatus{
		Domain:    domain,
		UpdatedAt: time.Now().UTC(),
	}
	if err != nil {
		st.State = sitechat.StateFailed
		st.Error = sitechat.ErrorMessage(err)
	} else {
		st.State = sitechat.StateReady
		if meta != nil {
			st.PageCount = meta.PageCount
			st.ChunkCount = meta.ChunkCount
		}
	}
	t.statuses[domain] = st
}

// Status returns the current state of a domain. A domain that has never
// built reports StateIdle.
func (t *StatusTracker) Status(domain string) *sitechat.IndexStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st, ok := t.statuses[domain]; ok {
		out := *st
		return &out
	}
	return &sitechat.IndexStatus{Domain: domain, State: sitechat.StateIdle}
}
