package tradereader

import (
	"context"
	"time"

	tradev1 "github.com/djibygass/trade-datahub/internal/domain/trade/v1"
	"github.com/djibygass/trade-datahub/pkg/config"
	"github.com/djibygass/trade-datahub/pkg/errors"
	"github.com/djibygass/trade-datahub/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader consumes raw trade records from the `trades` topic. It
// implements the TradeReader interface.
type Reader struct {
	kafkaReader *kafka.Reader
	pollTimeout time.Duration
	logger      logger.Interface
}

// NewReader creates a Kafka reader for the trade feed. Each poll waits
// at most cfg.PollTimeout before giving up with a timeout error rather
// than blocking indefinitely.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		pollTimeout: cfg.PollTimeout,
		logger:      log,
	}
}

// ReadMessage reads one record from the feed and decodes it. Decode
// failures return the raw message alongside the error so the caller can
// still account for the record.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *tradev1.Trade, error) {
	pollCtx, cancel := context.WithTimeout(ctx, r.pollTimeout)
	defer cancel()

	msg, err := r.kafkaReader.ReadMessage(pollCtx)
	if err != nil {
		if pollCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return kafka.Message{}, nil, errors.NewDomainError(errors.FeedPollTimeoutError, "no trade record within poll timeout").Wrap(err)
		}
		if ctx.Err() != nil {
			return kafka.Message{}, nil, ctx.Err()
		}
		return kafka.Message{}, nil, errors.NewDomainError(errors.FeedConnectivityError, "failed to read from trade feed").Wrap(err)
	}

	trade, err := tradev1.Decode(msg.Value)
	if err != nil {
		return msg, nil, err
	}

	return msg, trade, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logger.Error(errors.TracerFromError(err), logger.Field{Key: "operation", Value: "Close"})
		return err
	}
	return nil
}
