package aggregator

import (
	"time"

	"github.com/djibygass/trade-datahub/pkg/config"
)

// Options configures the aggregation engine.
type Options struct {
	// StageQueueDepth bounds the channel feeding each aggregation stage.
	// The fan-out blocks when a queue is full so a slow stage applies
	// backpressure instead of dropping trades.
	StageQueueDepth int
	// GracePeriod is how long past its end boundary a window keeps
	// accepting late trades.
	GracePeriod time.Duration
	// Retention is how long windows stay queryable after the grace
	// period before the janitor evicts them.
	Retention time.Duration
	// EvictionInterval is how often the janitor scans for expired windows.
	EvictionInterval time.Duration
	// RecentTradesSize bounds the ring of raw records served by GET /trades.
	RecentTradesSize int
	// ReadBackoff is the pause after a feed read failure.
	ReadBackoff time.Duration
}

// DefaultOptions returns the default engine options.
func DefaultOptions() *Options {
	return &Options{
		StageQueueDepth:  1024,
		GracePeriod:      5 * time.Minute,
		Retention:        24 * time.Hour,
		EvictionInterval: time.Minute,
		RecentTradesSize: 256,
		ReadBackoff:      100 * time.Millisecond,
	}
}

// OptionsFromConfig maps the window configuration onto engine options.
func OptionsFromConfig(cfg config.WindowConfig) *Options {
	opts := DefaultOptions()
	if cfg.StageQueueDepth > 0 {
		opts.StageQueueDepth = cfg.StageQueueDepth
	}
	if cfg.GracePeriod > 0 {
		opts.GracePeriod = cfg.GracePeriod
	}
	if cfg.Retention > 0 {
		opts.Retention = cfg.Retention
	}
	if cfg.EvictionInterval > 0 {
		opts.EvictionInterval = cfg.EvictionInterval
	}
	if cfg.RecentTradesSize > 0 {
		opts.RecentTradesSize = cfg.RecentTradesSize
	}
	return opts
}
