package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	tradev1 "github.com/djibygass/trade-datahub/internal/domain/trade/v1"
	tradereaderv1_mock "github.com/djibygass/trade-datahub/internal/domain/trade-reader/v1/mock"
	"github.com/djibygass/trade-datahub/pkg/errors"
	loggerMock "github.com/djibygass/trade-datahub/pkg/logger/mock"
	"github.com/djibygass/trade-datahub/pkg/window"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC).UnixMilli()

func tradeMessage(t *testing.T, symbol string, eventTime int64, price, quantity float64) (kafka.Message, *tradev1.Trade) {
	t.Helper()

	raw := tradev1.RawTradeEvent{
		EventType: "trade",
		EventTime: eventTime,
		Symbol:    symbol,
		TradeID:   eventTime,
		Price:     fmt.Sprintf("%v", price),
		Quantity:  fmt.Sprintf("%v", quantity),
		TradeTime: eventTime,
	}
	value, err := json.Marshal(raw)
	require.NoError(t, err)

	msg := kafka.Message{Key: []byte(symbol), Value: value}
	trade, err := tradev1.Decode(value)
	require.NoError(t, err)
	return msg, trade
}

func quietLogger(ctrl *gomock.Controller) *loggerMock.MockInterface {
	log := loggerMock.NewMockInterface(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func startEngine(t *testing.T, reader *tradereaderv1_mock.MockTradeReader, log *loggerMock.MockInterface) (*Engine, func()) {
	t.Helper()

	opts := DefaultOptions()
	opts.EvictionInterval = time.Hour // keep the janitor quiet during tests
	engine := NewEngineWithOptions(reader, NewStores(4), log, opts)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, engine.Start(ctx))

	stop := func() {
		cancel()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		require.NoError(t, engine.Stop(stopCtx))
	}
	return engine, stop
}

func TestEngine_AggregatesTrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := tradereaderv1_mock.NewMockTradeReader(ctrl)
	log := quietLogger(ctrl)

	// trades for BNBBTC at t0, t0+30s, t0+61s with prices 0.001, 0.002, 0.003
	msg1, trade1 := tradeMessage(t, "BNBBTC", t0, 0.001, 10)
	msg2, trade2 := tradeMessage(t, "BNBBTC", t0+30_000, 0.002, 20)
	msg3, trade3 := tradeMessage(t, "BNBBTC", t0+61_000, 0.003, 30)

	gomock.InOrder(
		reader.EXPECT().ReadMessage(gomock.Any()).Return(msg1, trade1, nil),
		reader.EXPECT().ReadMessage(gomock.Any()).Return(msg2, trade2, nil),
		reader.EXPECT().ReadMessage(gomock.Any()).Return(msg3, trade3, nil),
	)
	reader.EXPECT().ReadMessage(gomock.Any()).
		Return(kafka.Message{}, nil, errors.NewDomainError(errors.FeedPollTimeoutError, "poll timeout")).
		AnyTimes()
	reader.EXPECT().Close().Return(nil)

	engine, stop := startEngine(t, reader, log)
	defer stop()

	require.Eventually(t, func() bool {
		return engine.Consumed() == 3
	}, 5*time.Second, 10*time.Millisecond)

	stores := engine.Stores()

	// first minute window: two trades
	require.Eventually(t, func() bool {
		count, ok := stores.CountPerMinute.Get("BNBBTC", t0)
		return ok && count.Count == 2
	}, 5*time.Second, 10*time.Millisecond)

	ohlc, ok := stores.OhlcPerMinute.Get("BNBBTC", t0)
	require.True(t, ok)
	assert.Equal(t, 0.001, ohlc.Open)
	assert.Equal(t, 0.002, ohlc.Close)
	assert.Equal(t, 0.002, ohlc.High)
	assert.Equal(t, 0.001, ohlc.Low)

	// second minute window: single trade, all four prices equal
	require.Eventually(t, func() bool {
		_, ok := stores.OhlcPerMinute.Get("BNBBTC", t0+60_000)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	ohlc2, _ := stores.OhlcPerMinute.Get("BNBBTC", t0+60_000)
	assert.Equal(t, 0.003, ohlc2.Open)
	assert.Equal(t, 0.003, ohlc2.Close)
	assert.Equal(t, 0.003, ohlc2.High)
	assert.Equal(t, 0.003, ohlc2.Low)

	count2, _ := stores.CountPerMinute.Get("BNBBTC", t0+60_000)
	assert.Equal(t, int64(1), count2.Count)

	// hour window accumulates all three trades
	require.Eventually(t, func() bool {
		count, ok := stores.CountPerHour.Get("BNBBTC", t0)
		return ok && count.Count == 3
	}, 5*time.Second, 10*time.Millisecond)

	volume, _ := stores.VolumePerHour.Get("BNBBTC", t0)
	assert.InDelta(t, 60, volume.Volume, 1e-9)

	price, _ := stores.PricePerMinute.Get("BNBBTC", t0)
	assert.InDelta(t, 0.003, price.SumPrice, 1e-12)
	assert.Equal(t, int64(2), price.Count)
	assert.InDelta(t, 0.0015, price.Average(), 1e-12)

	// raw-record snapshot reflects delivery order
	records := engine.RecentTrades()
	require.Len(t, records, 3)
	assert.Equal(t, "BNBBTC", records[0].Key)
	assert.Equal(t, string(msg1.Value), records[0].Value)
}

func TestEngine_DropsUndecodableRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := tradereaderv1_mock.NewMockTradeReader(ctrl)
	log := quietLogger(ctrl)

	badMsg := kafka.Message{Key: []byte("BNBBTC"), Value: []byte(`{"s":"BNBBTC","p":"oops"}`)}
	goodMsg, goodTrade := tradeMessage(t, "BNBBTC", t0, 0.001, 1)

	gomock.InOrder(
		reader.EXPECT().ReadMessage(gomock.Any()).
			Return(badMsg, nil, errors.NewDomainError(errors.TradeDecodeError, "non-numeric price")),
		reader.EXPECT().ReadMessage(gomock.Any()).Return(goodMsg, goodTrade, nil),
	)
	reader.EXPECT().ReadMessage(gomock.Any()).
		Return(kafka.Message{}, nil, errors.NewDomainError(errors.FeedPollTimeoutError, "poll timeout")).
		AnyTimes()
	reader.EXPECT().Close().Return(nil)

	engine, stop := startEngine(t, reader, log)
	defer stop()

	// the pipeline keeps going after the bad record
	require.Eventually(t, func() bool {
		return engine.Consumed() == 1 && engine.Dropped() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		count, ok := engine.Stores().CountPerMinute.Get("BNBBTC", t0)
		return ok && count.Count == 1
	}, 5*time.Second, 10*time.Millisecond)

	// the dropped record still shows up in the raw snapshot
	require.Eventually(t, func() bool {
		return len(engine.RecentTrades()) == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestEngine_ClosesReaderWhenShutdownInterruptsDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := tradereaderv1_mock.NewMockTradeReader(ctrl)
	log := quietLogger(ctrl)

	msg, trade := tradeMessage(t, "BNBBTC", t0, 0.001, 1)
	reader.EXPECT().ReadMessage(gomock.Any()).Return(msg, trade, nil).AnyTimes()
	reader.EXPECT().Close().Return(nil)

	opts := DefaultOptions()
	opts.StageQueueDepth = 1
	opts.EvictionInterval = time.Hour
	engine := NewEngineWithOptions(reader, NewStores(4), log, opts)
	engine.ctx, engine.cancel = context.WithCancel(context.Background())

	// run only the reader so the stage queues fill up and a dispatch blocks
	engine.wg.Add(1)
	go engine.runReader()

	require.Eventually(t, func() bool {
		return engine.Consumed() >= 2
	}, 5*time.Second, time.Millisecond)

	// cancelling while the reader is stuck in dispatch must still close it
	engine.cancel()
	engine.wg.Wait()
}

func TestEngine_EvictsExpiredWindows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stores := NewStores(4)
	old := time.Now().Add(-48 * time.Hour).UnixMilli()
	stores.CountPerMinute.Merge("BNBBTC", window.PerMinute.Assign(old), addCount)
	require.Equal(t, 1, stores.CountPerMinute.Len())

	cutoff := time.Now().Add(-25 * time.Hour).UnixMilli()
	assert.Equal(t, 1, stores.evictBefore(cutoff))
	assert.Equal(t, 0, stores.CountPerMinute.Len())
}
