package store

import (
	"sync"
	"testing"
	"time"

	aggregatev1 "github.com/djibygass/trade-datahub/internal/domain/aggregate/v1"
	"github.com/djibygass/trade-datahub/pkg/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC).UnixMilli()

func TestWindowed_MergeAndGet(t *testing.T) {
	s := NewWindowed[aggregatev1.Count](TradeCountPerMinuteName, window.PerMinute, 4)

	// lazy creation: nothing exists until the first merge
	_, exists := s.Get("BNBBTC", t0)
	assert.False(t, exists)

	s.Merge("BNBBTC", window.PerMinute.Assign(t0), func(c aggregatev1.Count, _ bool) aggregatev1.Count {
		return c.Add()
	})
	s.Merge("BNBBTC", window.PerMinute.Assign(t0+30_000), func(c aggregatev1.Count, _ bool) aggregatev1.Count {
		return c.Add()
	})

	got, exists := s.Get("BNBBTC", t0+45_000)
	require.True(t, exists)
	assert.Equal(t, int64(2), got.Count)

	// other symbols and windows remain untouched
	_, exists = s.Get("ETHBTC", t0)
	assert.False(t, exists)
	_, exists = s.Get("BNBBTC", t0+60_000)
	assert.False(t, exists)
}

func TestWindowed_Range(t *testing.T) {
	s := NewWindowed[aggregatev1.Count](TradeCountPerMinuteName, window.PerMinute, 4)

	add := func(symbol string, ts int64) {
		s.Merge(symbol, window.PerMinute.Assign(ts), func(c aggregatev1.Count, _ bool) aggregatev1.Count {
			return c.Add()
		})
	}

	add("BNBBTC", t0)
	add("BNBBTC", t0+61_000)
	// gap: minute 2 has no trades
	add("BNBBTC", t0+181_000)
	add("ETHBTC", t0)

	entries := s.Range("BNBBTC", t0, t0+240_000)
	require.Len(t, entries, 3)

	// ascending by window start, duplicate-free, gaps absent
	assert.Equal(t, t0, entries[0].WindowStart)
	assert.Equal(t, t0+60_000, entries[1].WindowStart)
	assert.Equal(t, t0+180_000, entries[2].WindowStart)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].WindowStart, entries[i-1].WindowStart)
	}
}

func TestWindowed_RangeIncludesWindowContainingFrom(t *testing.T) {
	s := NewWindowed[aggregatev1.Count](TradeCountPerMinuteName, window.PerMinute, 4)
	s.Merge("BNBBTC", window.PerMinute.Assign(t0), func(c aggregatev1.Count, _ bool) aggregatev1.Count {
		return c.Add()
	})

	// from lies mid-window; the window still intersects [from, to)
	entries := s.Range("BNBBTC", t0+30_000, t0+60_000)
	require.Len(t, entries, 1)
	assert.Equal(t, t0, entries[0].WindowStart)
}

func TestWindowed_RangeEmptyAndInverted(t *testing.T) {
	s := NewWindowed[aggregatev1.Count](TradeCountPerMinuteName, window.PerMinute, 4)

	assert.Empty(t, s.Range("BNBBTC", t0, t0+60_000))
	assert.Empty(t, s.Range("BNBBTC", t0+60_000, t0))
	assert.Empty(t, s.Range("BNBBTC", t0, t0))
}

func TestWindowed_EvictBefore(t *testing.T) {
	s := NewWindowed[aggregatev1.Volume](TradeVolumePerMinuteName, window.PerMinute, 4)

	for i := int64(0); i < 5; i++ {
		start := t0 + i*60_000
		s.Merge("BNBBTC", start, func(v aggregatev1.Volume, _ bool) aggregatev1.Volume {
			return v.Add(1)
		})
	}
	require.Equal(t, 5, s.Len())

	// evict the first two windows: both end at or before t0+120s
	evicted := s.EvictBefore(t0 + 120_000)
	assert.Equal(t, 2, evicted)
	assert.Equal(t, 3, s.Len())

	_, exists := s.Get("BNBBTC", t0)
	assert.False(t, exists)
	_, exists = s.Get("BNBBTC", t0+120_000)
	assert.True(t, exists)
}

func TestWindowed_ConcurrentMerges(t *testing.T) {
	s := NewWindowed[aggregatev1.Count](TradeCountPerMinuteName, window.PerMinute, 8)
	start := window.PerMinute.Assign(t0)

	const goroutines = 16
	const perGoroutine = 500

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				s.Merge("BNBBTC", start, func(c aggregatev1.Count, _ bool) aggregatev1.Count {
					return c.Add()
				})
			}
		}()
	}
	wg.Wait()

	got, exists := s.Get("BNBBTC", t0)
	require.True(t, exists)
	assert.Equal(t, int64(goroutines*perGoroutine), got.Count)
}
