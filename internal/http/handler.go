package http

import (
	"encoding/json"
	"net/http"

	"github.com/djibygass/trade-datahub/internal/usecase/query"
	"github.com/djibygass/trade-datahub/pkg/errors"
	"github.com/djibygass/trade-datahub/pkg/logger"
)

// Handler serves the query API endpoints.
type Handler struct {
	svc    *query.Service
	logger logger.Interface
}

// NewHandler creates a Handler over the query service.
func NewHandler(svc *query.Service, log logger.Interface) *Handler {
	return &Handler{svc: svc, logger: log}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecentTrades handles GET /trades.
func (h *Handler) RecentTrades(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.RecentTrades(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, records)
}

// Stats handles GET /trades/{pair}/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), r.PathValue("pair"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, stats)
}

// Candles handles GET /trades/{pair}/candles?from=<timestamp>&to=<timestamp>.
func (h *Handler) Candles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	candles, err := h.svc.CandleRange(r.Context(), r.PathValue("pair"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, candles)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), err, logger.Field{Key: "action", Value: "encode_response"})
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.QueryValidationError, errors.GeneralBadRequestError:
		status = http.StatusBadRequest
	case errors.GeneralNotFoundError:
		status = http.StatusNotFound
	case errors.FeedConnectivityError, errors.FeedPollTimeoutError:
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), errors.TracerFromError(err), logger.Field{Key: "path", Value: r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: string(code), Message: err.Error()})
}
