package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/djibygass/trade-datahub/internal/usecase/query"
	"github.com/djibygass/trade-datahub/pkg/config"
	"github.com/djibygass/trade-datahub/pkg/logger"
)

// Server exposes the query API over HTTP.
type Server struct {
	srv     *http.Server
	handler *Handler
	logger  logger.Interface
}

// NewServer wires the query service into an HTTP server.
func NewServer(cfg config.AppConfig, svc *query.Service, log logger.Interface) *Server {
	handler := NewHandler(svc, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /trades", handler.RecentTrades)
	mux.HandleFunc("GET /trades/{pair}/stats", handler.Stats)
	mux.HandleFunc("GET /trades/{pair}/candles", handler.Candles)

	return &Server{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: RequestID(mux),
		},
		handler: handler,
		logger:  log,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(err, logger.Field{Key: "action", Value: "http_shutdown"})
		}
	}()

	s.logger.Info("http server starting", logger.Field{Key: "addr", Value: s.srv.Addr})
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
