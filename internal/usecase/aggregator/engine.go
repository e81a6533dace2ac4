package aggregator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	aggregatev1 "github.com/djibygass/trade-datahub/internal/domain/aggregate/v1"
	tradev1 "github.com/djibygass/trade-datahub/internal/domain/trade/v1"
	tradereaderv1 "github.com/djibygass/trade-datahub/internal/domain/trade-reader/v1"
	"github.com/djibygass/trade-datahub/pkg/errors"
	"github.com/djibygass/trade-datahub/pkg/logger"
	"github.com/djibygass/trade-datahub/pkg/window"
)

// Engine consumes the trade feed and maintains the windowed aggregates.
// One reader goroutine decodes records and fans them out over bounded
// channels to four independent merge stages, each of which exclusively
// owns its stores. A janitor goroutine evicts windows past the grace
// and retention horizon.
type Engine struct {
	reader  tradereaderv1.TradeReader
	stores  *Stores
	recent  *recentRing
	logger  logger.Interface
	options *Options

	countCh  chan *tradev1.Trade
	volumeCh chan *tradev1.Trade
	priceCh  chan *tradev1.Trade
	ohlcCh   chan *tradev1.Trade

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	consumed atomic.Int64
	dropped  atomic.Int64
}

// NewEngine creates an engine with default options.
func NewEngine(reader tradereaderv1.TradeReader, stores *Stores, log logger.Interface) *Engine {
	return NewEngineWithOptions(reader, stores, log, DefaultOptions())
}

// NewEngineWithOptions creates an engine with custom options.
func NewEngineWithOptions(reader tradereaderv1.TradeReader, stores *Stores, log logger.Interface, options *Options) *Engine {
	return &Engine{
		reader:  reader,
		stores:  stores,
		recent:  newRecentRing(options.RecentTradesSize),
		logger:  log,
		options: options,

		countCh:  make(chan *tradev1.Trade, options.StageQueueDepth),
		volumeCh: make(chan *tradev1.Trade, options.StageQueueDepth),
		priceCh:  make(chan *tradev1.Trade, options.StageQueueDepth),
		ohlcCh:   make(chan *tradev1.Trade, options.StageQueueDepth),
	}
}

// Stores returns the engine's state stores as a read capability for the
// query layer.
func (e *Engine) Stores() *Stores {
	return e.stores
}

// RecentTrades returns a best-effort snapshot of recently consumed raw
// records, oldest first.
func (e *Engine) RecentTrades() []tradev1.RawRecord {
	return e.recent.snapshot()
}

// Consumed returns the number of successfully decoded trades.
func (e *Engine) Consumed() int64 {
	return e.consumed.Load()
}

// Dropped returns the number of records dropped on decode failure.
func (e *Engine) Dropped() int64 {
	return e.dropped.Load()
}

// Start launches the reader, the four aggregation stages and the janitor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runReader()

	e.wg.Add(4)
	go e.runCountStage()
	go e.runVolumeStage()
	go e.runPriceStage()
	go e.runOhlcStage()

	e.wg.Add(1)
	go e.runJanitor()

	e.logger.Info("aggregation engine started",
		logger.Field{Key: "stores", Value: e.stores.Names()},
	)
	return nil
}

// Stop gracefully shuts down the engine, waiting for in-flight work
// until ctx expires.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("aggregation engine stopped",
			logger.Field{Key: "consumed", Value: e.Consumed()},
			logger.Field{Key: "dropped", Value: e.Dropped()},
		)
		return nil
	case <-ctx.Done():
		e.logger.Warn("engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runReader reads the feed, keeps the raw-record ring current and fans
// decoded trades out to the stages. Closing the stage channels on exit
// drains the stages.
func (e *Engine) runReader() {
	defer e.wg.Done()
	defer func() {
		if err := e.reader.Close(); err != nil {
			e.logger.Error(err, logger.Field{Key: "action", Value: "close_reader"})
		}
		close(e.countCh)
		close(e.volumeCh)
		close(e.priceCh)
		close(e.ohlcCh)
	}()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("trade reader shutting down")
			return
		default:
			msg, trade, err := e.reader.ReadMessage(e.ctx)
			if err != nil {
				switch errors.CodeOf(err) {
				case errors.TradeDecodeError:
					// drop the record, keep the raw snapshot honest
					e.recent.add(tradev1.RawRecord{Key: string(msg.Key), Value: string(msg.Value)})
					e.dropped.Add(1)
					e.logger.Warn("dropped undecodable trade record",
						logger.Field{Key: "key", Value: string(msg.Key)},
						logger.Field{Key: "dropped_total", Value: e.Dropped()},
					)
				case errors.FeedPollTimeoutError:
					e.logger.Debug("trade feed poll timed out")
				default:
					if e.ctx.Err() != nil {
						continue
					}
					e.logger.Error(err, logger.Field{Key: "action", Value: "read_trade"})
					time.Sleep(e.options.ReadBackoff)
				}
				continue
			}

			e.recent.add(tradev1.RawRecord{Key: string(msg.Key), Value: string(msg.Value)})
			e.consumed.Add(1)
			if !e.dispatch(trade) {
				return
			}
		}
	}
}

// dispatch sends one trade to every stage. Sends block when a stage
// queue is full; that backpressure is what keeps ingest bounded.
func (e *Engine) dispatch(trade *tradev1.Trade) bool {
	for _, ch := range []chan *tradev1.Trade{e.countCh, e.volumeCh, e.priceCh, e.ohlcCh} {
		select {
		case ch <- trade:
		case <-e.ctx.Done():
			return false
		}
	}
	return true
}

func (e *Engine) runCountStage() {
	defer e.wg.Done()
	for trade := range e.countCh {
		e.stores.CountPerMinute.Merge(trade.Symbol, window.PerMinute.Assign(trade.EventTime), addCount)
		e.stores.CountPerHour.Merge(trade.Symbol, window.PerHour.Assign(trade.EventTime), addCount)
	}
}

func (e *Engine) runVolumeStage() {
	defer e.wg.Done()
	for trade := range e.volumeCh {
		quantity := trade.Quantity
		e.stores.VolumePerMinute.Merge(trade.Symbol, window.PerMinute.Assign(trade.EventTime), addVolume(quantity))
		e.stores.VolumePerHour.Merge(trade.Symbol, window.PerHour.Assign(trade.EventTime), addVolume(quantity))
	}
}

func (e *Engine) runPriceStage() {
	defer e.wg.Done()
	for trade := range e.priceCh {
		price := trade.Price
		e.stores.PricePerMinute.Merge(trade.Symbol, window.PerMinute.Assign(trade.EventTime),
			func(p aggregatev1.Price, _ bool) aggregatev1.Price {
				return p.Add(price)
			})
	}
}

func (e *Engine) runOhlcStage() {
	defer e.wg.Done()
	for trade := range e.ohlcCh {
		price := trade.Price
		e.stores.OhlcPerMinute.Merge(trade.Symbol, window.PerMinute.Assign(trade.EventTime),
			func(o aggregatev1.Ohlc, exists bool) aggregatev1.Ohlc {
				return o.Apply(price, exists)
			})
	}
}

func addCount(c aggregatev1.Count, _ bool) aggregatev1.Count {
	return c.Add()
}

func addVolume(quantity float64) func(aggregatev1.Volume, bool) aggregatev1.Volume {
	return func(v aggregatev1.Volume, _ bool) aggregatev1.Volume {
		return v.Add(quantity)
	}
}

// runJanitor periodically evicts windows whose grace and retention
// horizons have both passed.
func (e *Engine) runJanitor() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.EvictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.Add(-e.options.GracePeriod - e.options.Retention).UnixMilli()
			if evicted := e.stores.evictBefore(cutoff); evicted > 0 {
				e.logger.Debug("evicted expired windows",
					logger.Field{Key: "evicted", Value: evicted},
					logger.Field{Key: "cutoff", Value: cutoff},
				)
			}
		}
	}
}
