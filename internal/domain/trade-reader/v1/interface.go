package tradereaderv1

import (
	"context"

	tradev1 "github.com/djibygass/trade-datahub/internal/domain/trade/v1"
	"github.com/segmentio/kafka-go"
)

// TradeReader defines the interface for reading trades from the feed.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradereaderv1_mock
type TradeReader interface {
	// ReadMessage reads one feed record and returns it with the decoded
	// trade. On a decode failure the raw message is still returned with a
	// TradeDecodeError so the caller can count the drop; on a feed
	// failure the error carries FeedConnectivityError or
	// FeedPollTimeoutError.
	ReadMessage(ctx context.Context) (kafka.Message, *tradev1.Trade, error)
	// Close closes the reader
	Close() error
}
