package bootstrap

import (
	tradereaderv1 "github.com/djibygass/trade-datahub/internal/domain/trade-reader/v1"
	httpapi "github.com/djibygass/trade-datahub/internal/http"
	"github.com/djibygass/trade-datahub/internal/usecase/aggregator"
	"github.com/djibygass/trade-datahub/internal/usecase/query"
	tradereader "github.com/djibygass/trade-datahub/internal/usecase/trade-reader"
	"github.com/djibygass/trade-datahub/pkg/config"
	"github.com/djibygass/trade-datahub/pkg/logger"
)

// Bootstrap wires the trade-datahub service together.
type Bootstrap struct {
	Config *config.Config
	Logger logger.Interface

	Reader tradereaderv1.TradeReader
	Engine *aggregator.Engine
	Query  *query.Service
	Server *httpapi.Server
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	Config *config.Config
	Logger logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(cfg BootstrapConfig) Bootstrap {
	b.Config = cfg.Config
	b.Logger = cfg.Logger

	b.registerReader()
	b.registerEngine()
	b.registerQuery()
	b.registerServer()

	return *b
}

func (b *Bootstrap) registerReader() {
	b.Reader = tradereader.NewReader(b.Config.Kafka, b.Logger)
}

func (b *Bootstrap) registerEngine() {
	stores := aggregator.NewStores(b.Config.Window.ShardCount)
	b.Engine = aggregator.NewEngineWithOptions(b.Reader, stores, b.Logger, aggregator.OptionsFromConfig(b.Config.Window))
}

func (b *Bootstrap) registerQuery() {
	// the query layer receives the stores as a read-only capability
	b.Query = query.NewService(b.Engine.Stores(), b.Engine, b.Logger)
}

func (b *Bootstrap) registerServer() {
	b.Server = httpapi.NewServer(b.Config.App, b.Query, b.Logger)
}
