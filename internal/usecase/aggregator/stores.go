package aggregator

import (
	aggregatev1 "github.com/djibygass/trade-datahub/internal/domain/aggregate/v1"
	"github.com/djibygass/trade-datahub/internal/usecase/store"
	"github.com/djibygass/trade-datahub/pkg/window"
)

// Stores groups the windowed state stores owned by the engine. Each
// aggregation stage exclusively mutates its own stores; the query layer
// only ever reads them.
type Stores struct {
	CountPerHour    *store.Windowed[aggregatev1.Count]
	CountPerMinute  *store.Windowed[aggregatev1.Count]
	VolumePerHour   *store.Windowed[aggregatev1.Volume]
	VolumePerMinute *store.Windowed[aggregatev1.Volume]
	PricePerMinute  *store.Windowed[aggregatev1.Price]
	OhlcPerMinute   *store.Windowed[aggregatev1.Ohlc]
}

// NewStores creates the six stores with their stable names.
func NewStores(shardCount int) *Stores {
	return &Stores{
		CountPerHour:    store.NewWindowed[aggregatev1.Count](store.TradeCountName, window.PerHour, shardCount),
		CountPerMinute:  store.NewWindowed[aggregatev1.Count](store.TradeCountPerMinuteName, window.PerMinute, shardCount),
		VolumePerHour:   store.NewWindowed[aggregatev1.Volume](store.TradeVolumePerHourName, window.PerHour, shardCount),
		VolumePerMinute: store.NewWindowed[aggregatev1.Volume](store.TradeVolumePerMinuteName, window.PerMinute, shardCount),
		PricePerMinute:  store.NewWindowed[aggregatev1.Price](store.AveragePricePerMinuteName, window.PerMinute, shardCount),
		OhlcPerMinute:   store.NewWindowed[aggregatev1.Ohlc](store.OhlcPerMinuteName, window.PerMinute, shardCount),
	}
}

// Names returns the stable identifiers of every store.
func (s *Stores) Names() []string {
	return []string{
		s.CountPerHour.Name(),
		s.CountPerMinute.Name(),
		s.VolumePerHour.Name(),
		s.VolumePerMinute.Name(),
		s.PricePerMinute.Name(),
		s.OhlcPerMinute.Name(),
	}
}

// evictBefore drops every window ending at or before cutoffMs from all stores.
func (s *Stores) evictBefore(cutoffMs int64) int {
	evicted := 0
	evicted += s.CountPerHour.EvictBefore(cutoffMs)
	evicted += s.CountPerMinute.EvictBefore(cutoffMs)
	evicted += s.VolumePerHour.EvictBefore(cutoffMs)
	evicted += s.VolumePerMinute.EvictBefore(cutoffMs)
	evicted += s.PricePerMinute.EvictBefore(cutoffMs)
	evicted += s.OhlcPerMinute.EvictBefore(cutoffMs)
	return evicted
}
