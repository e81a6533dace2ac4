package aggregator

import (
	"sync"

	tradev1 "github.com/djibygass/trade-datahub/internal/domain/trade/v1"
)

// recentRing keeps a bounded ring of the most recently consumed raw
// feed records for the best-effort GET /trades snapshot.
type recentRing struct {
	mu      sync.RWMutex
	records []tradev1.RawRecord
	next    int
	full    bool
}

func newRecentRing(size int) *recentRing {
	if size <= 0 {
		size = 1
	}
	return &recentRing{records: make([]tradev1.RawRecord, size)}
}

func (r *recentRing) add(record tradev1.RawRecord) {
	r.mu.Lock()
	r.records[r.next] = record
	r.next = (r.next + 1) % len(r.records)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// snapshot returns the buffered records, oldest first.
func (r *recentRing) snapshot() []tradev1.RawRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		out := make([]tradev1.RawRecord, r.next)
		copy(out, r.records[:r.next])
		return out
	}

	out := make([]tradev1.RawRecord, 0, len(r.records))
	out = append(out, r.records[r.next:]...)
	out = append(out, r.records[:r.next]...)
	return out
}
