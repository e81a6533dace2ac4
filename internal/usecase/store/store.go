package store

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/djibygass/trade-datahub/pkg/window"
)

// Stable store identifiers exposed for external inspection.
const (
	TradeCountName            = "trade-count"
	TradeCountPerMinuteName   = "trade-count-per-minute"
	TradeVolumePerHourName    = "trade-volume-per-hour"
	TradeVolumePerMinuteName  = "trade-volume-per-minute"
	AveragePricePerMinuteName = "average-price-per-minute"
	OhlcPerMinuteName         = "ohlc-per-minute"
)

// DefaultShardCount is used when a non-positive shard count is requested.
const DefaultShardCount = 16

// Key identifies one window's aggregate within a store. The granularity
// is fixed per store instance, so it is not part of the key.
type Key struct {
	Symbol      string
	WindowStart int64
}

// Entry pairs a window start with its aggregate value, as returned by Range.
type Entry[A any] struct {
	WindowStart int64
	Value       A
}

// MergeFunc applies an incremental merge to the current value, or seeds
// a new one when exists is false.
type MergeFunc[A any] func(current A, exists bool) A

// Windowed is a concurrent associative store mapping (symbol, window
// start) to one aggregate value for a single granularity. It is sharded
// by key hash with per-shard locking: merges for the same key are
// mutually exclusive, merges for different keys may run in parallel,
// and readers never observe a partially merged value.
type Windowed[A any] struct {
	name        string
	granularity window.Granularity
	shards      []*shard[A]
}

type shard[A any] struct {
	mu      sync.RWMutex
	entries map[Key]A
}

// NewWindowed creates a store with the given stable name, granularity
// and shard count.
func NewWindowed[A any](name string, granularity window.Granularity, shardCount int) *Windowed[A] {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	shards := make([]*shard[A], shardCount)
	for i := range shards {
		shards[i] = &shard[A]{entries: make(map[Key]A)}
	}
	return &Windowed[A]{
		name:        name,
		granularity: granularity,
		shards:      shards,
	}
}

// Name returns the stable store identifier.
func (s *Windowed[A]) Name() string {
	return s.name
}

// Granularity returns the window size this store aggregates at.
func (s *Windowed[A]) Granularity() window.Granularity {
	return s.granularity
}

// Merge applies fn to the aggregate of the window starting at
// windowStart, creating it from the seed when absent. The shard lock is
// held only for the duration of one merge.
func (s *Windowed[A]) Merge(symbol string, windowStart int64, fn MergeFunc[A]) {
	key := Key{Symbol: symbol, WindowStart: windowStart}
	sh := s.shardFor(key)

	sh.mu.Lock()
	current, exists := sh.entries[key]
	sh.entries[key] = fn(current, exists)
	sh.mu.Unlock()
}

// Get returns the aggregate for the window containing instantMs, or
// false when no trade has been recorded for it.
func (s *Windowed[A]) Get(symbol string, instantMs int64) (A, bool) {
	key := Key{Symbol: symbol, WindowStart: s.granularity.Assign(instantMs)}
	sh := s.shardFor(key)

	sh.mu.RLock()
	value, exists := sh.entries[key]
	sh.mu.RUnlock()
	return value, exists
}

// Range returns the entries of all windows intersecting [fromMs, toMs)
// for symbol, ascending by window start and duplicate-free. Windows
// with no recorded trades are simply absent.
func (s *Windowed[A]) Range(symbol string, fromMs, toMs int64) []Entry[A] {
	if fromMs >= toMs {
		return nil
	}

	// the window containing fromMs intersects the range even when it
	// starts before it
	firstStart := s.granularity.Assign(fromMs)

	var entries []Entry[A]
	for _, sh := range s.shards {
		sh.mu.RLock()
		for key, value := range sh.entries {
			if key.Symbol != symbol {
				continue
			}
			if key.WindowStart >= firstStart && key.WindowStart < toMs {
				entries = append(entries, Entry[A]{WindowStart: key.WindowStart, Value: value})
			}
		}
		sh.mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].WindowStart < entries[j].WindowStart
	})
	return entries
}

// EvictBefore removes every window whose end boundary is at or before
// cutoffMs and returns the number of evicted windows. Evicted windows
// are observable only as absent data.
func (s *Windowed[A]) EvictBefore(cutoffMs int64) int {
	size := s.granularity.SizeMillis()
	evicted := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key := range sh.entries {
			if key.WindowStart+size <= cutoffMs {
				delete(sh.entries, key)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}

// Len returns the number of live windows across all shards.
func (s *Windowed[A]) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}

func (s *Windowed[A]) shardFor(key Key) *shard[A] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.Symbol))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key.WindowStart))
	_, _ = h.Write(buf[:])
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}
