package query

import (
	"context"
	"strconv"
	"time"

	tradev1 "github.com/djibygass/trade-datahub/internal/domain/trade/v1"
	"github.com/djibygass/trade-datahub/internal/usecase/aggregator"
	"github.com/djibygass/trade-datahub/pkg/errors"
	"github.com/djibygass/trade-datahub/pkg/logger"
)

// StatsLookback is the trailing window the stats query covers.
const StatsLookback = time.Hour

// Stats is the trailing-hour summary for one symbol pair.
type Stats struct {
	Pair         string  `json:"pair"`
	TradeCount   int64   `json:"trades_over_last_hour"`
	Volume       float64 `json:"volume_over_last_hour"`
	AveragePrice float64 `json:"average_price_over_last_hour"`
}

// Candle is one OHLC window with its traded volume attached.
type Candle struct {
	WindowStart int64   `json:"window_start"`
	Open        float64 `json:"open"`
	Close       float64 `json:"close"`
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Volume      float64 `json:"volume"`
}

// Candles is the response for a candle range query.
type Candles struct {
	Pair    string   `json:"pair"`
	Candles []Candle `json:"candles"`
}

// RecentSource exposes the engine's raw-record snapshot to the query layer.
type RecentSource interface {
	RecentTrades() []tradev1.RawRecord
}

// Service serves point and range queries against the engine's stores.
// It holds the stores as a read-only capability and never mutates them.
type Service struct {
	stores *aggregator.Stores
	recent RecentSource
	logger logger.Interface
	now    func() time.Time
}

// NewService creates a query service over the given stores.
func NewService(stores *aggregator.Stores, recent RecentSource, log logger.Interface) *Service {
	return &Service{
		stores: stores,
		recent: recent,
		logger: log,
		now:    time.Now,
	}
}

// Stats sums the per-minute count, volume and price windows of the
// trailing hour. A symbol with no trades in range yields zeroes, not an
// error.
func (s *Service) Stats(ctx context.Context, symbol string) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, errors.NewDomainError(errors.QueryValidationError, "pair is required")
	}

	to := s.now().UnixMilli()
	from := to - StatsLookback.Milliseconds()

	stats := &Stats{Pair: symbol}
	for _, entry := range s.stores.CountPerMinute.Range(symbol, from, to) {
		stats.TradeCount += entry.Value.Count
	}
	for _, entry := range s.stores.VolumePerMinute.Range(symbol, from, to) {
		stats.Volume += entry.Value.Volume
	}

	var sumPrice float64
	var priceCount int64
	for _, entry := range s.stores.PricePerMinute.Range(symbol, from, to) {
		sumPrice += entry.Value.SumPrice
		priceCount += entry.Value.Count
	}
	if priceCount > 0 {
		stats.AveragePrice = sumPrice / float64(priceCount)
	}

	s.logger.DebugContext(ctx, "stats query served",
		logger.Field{Key: "pair", Value: symbol},
		logger.Field{Key: "trade_count", Value: stats.TradeCount},
	)
	return stats, nil
}

// CandleRange returns one candle per OHLC window intersecting
// [from, to), ascending by window start. Volume defaults to 0 for
// windows without a matching volume entry.
func (s *Service) CandleRange(ctx context.Context, symbol string, fromRaw, toRaw string) (*Candles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, errors.NewDomainError(errors.QueryValidationError, "pair is required")
	}

	from, err := ParseTimestamp(fromRaw)
	if err != nil {
		return nil, err
	}
	to, err := ParseTimestamp(toRaw)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, errors.NewDomainErrorf(errors.QueryValidationError, "from %d is after to %d", from, to)
	}

	volumes := make(map[int64]float64)
	for _, entry := range s.stores.VolumePerMinute.Range(symbol, from, to) {
		volumes[entry.WindowStart] = entry.Value.Volume
	}

	ohlcEntries := s.stores.OhlcPerMinute.Range(symbol, from, to)
	candles := make([]Candle, 0, len(ohlcEntries))
	for _, entry := range ohlcEntries {
		candles = append(candles, Candle{
			WindowStart: entry.WindowStart,
			Open:        entry.Value.Open,
			Close:       entry.Value.Close,
			Low:         entry.Value.Low,
			High:        entry.Value.High,
			Volume:      volumes[entry.WindowStart],
		})
	}

	return &Candles{Pair: symbol, Candles: candles}, nil
}

// RecentTrades returns the best-effort snapshot of recently consumed
// raw feed records.
func (s *Service) RecentTrades(ctx context.Context) ([]tradev1.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.recent.RecentTrades(), nil
}

// ParseTimestamp accepts epoch milliseconds or RFC3339 and returns
// epoch milliseconds. Unparsable input is a QueryValidationError.
func ParseTimestamp(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.NewDomainError(errors.QueryValidationError, "timestamp is required")
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UnixMilli(), nil
	}
	return 0, errors.NewDomainErrorf(errors.QueryValidationError, "unparsable timestamp %q", raw)
}
