package tradev1

import (
	"encoding/json"
	"strconv"

	"github.com/djibygass/trade-datahub/pkg/errors"
)

// RawTradeEvent is the wire form of one trade on the `trades` topic,
// using the feed's single-letter field names.
type RawTradeEvent struct {
	EventType     string `json:"e"`
	EventTime     int64  `json:"E"`
	Symbol        string `json:"s"`
	TradeID       int64  `json:"t"`
	Price         string `json:"p"`
	Quantity      string `json:"q"`
	BuyerOrderID  int64  `json:"b"`
	SellerOrderID int64  `json:"a"`
	TradeTime     int64  `json:"T"`
	IsBuyerMaker  bool   `json:"m"`
	IsBestMatch   bool   `json:"M"`
}

// Trade is one observed execution, immutable once constructed.
type Trade struct {
	EventTime     int64
	Symbol        string
	TradeID       int64
	Price         float64
	Quantity      float64
	BuyerOrderID  int64
	SellerOrderID int64
	TradeTime     int64
	IsBuyerMaker  bool
	IsBestMatch   bool
}

// Decode parses a raw feed record into a Trade. It fails with a
// TradeDecodeError on malformed JSON, missing required fields, or
// non-numeric price/quantity. A decode failure never halts the
// pipeline; callers drop the record and count the failure.
func Decode(value []byte) (*Trade, error) {
	var raw RawTradeEvent
	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, errors.NewDomainError(errors.TradeDecodeError, "malformed trade record").Wrap(err)
	}
	return raw.ToTrade()
}

// ToTrade validates the raw event and converts it to a typed Trade.
func (r *RawTradeEvent) ToTrade() (*Trade, error) {
	if r.Symbol == "" {
		return nil, errors.NewDomainError(errors.TradeDecodeError, "missing symbol")
	}
	if r.EventTime <= 0 {
		return nil, errors.NewDomainError(errors.TradeDecodeError, "missing event time")
	}

	price, err := strconv.ParseFloat(r.Price, 64)
	if err != nil {
		return nil, errors.NewDomainErrorf(errors.TradeDecodeError, "non-numeric price %q", r.Price).Wrap(err)
	}
	quantity, err := strconv.ParseFloat(r.Quantity, 64)
	if err != nil {
		return nil, errors.NewDomainErrorf(errors.TradeDecodeError, "non-numeric quantity %q", r.Quantity).Wrap(err)
	}

	return &Trade{
		EventTime:     r.EventTime,
		Symbol:        r.Symbol,
		TradeID:       r.TradeID,
		Price:         price,
		Quantity:      quantity,
		BuyerOrderID:  r.BuyerOrderID,
		SellerOrderID: r.SellerOrderID,
		TradeTime:     r.TradeTime,
		IsBuyerMaker:  r.IsBuyerMaker,
		IsBestMatch:   r.IsBestMatch,
	}, nil
}

// RawRecord is one consumed feed record as exposed by GET /trades.
type RawRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
