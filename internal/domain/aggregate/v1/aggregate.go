package aggregatev1

// Count is the number of trades observed in one window.
type Count struct {
	Count int64 `json:"count"`
}

// Add merges one trade into the count.
func (c Count) Add() Count {
	c.Count++
	return c
}

// Volume is the traded quantity accumulated over one window.
type Volume struct {
	Volume float64 `json:"volume"`
}

// Add merges one trade's quantity into the volume.
func (v Volume) Add(quantity float64) Volume {
	v.Volume += quantity
	return v
}

// Price accumulates the price sum and trade count of one window so the
// average can be derived at query time.
type Price struct {
	SumPrice float64 `json:"sum_price"`
	Count    int64   `json:"count"`
}

// Add merges one trade's price into the accumulator.
func (p Price) Add(price float64) Price {
	p.SumPrice += price
	p.Count++
	return p
}

// Average derives the mean price, 0 when no trades were recorded.
func (p Price) Average() float64 {
	if p.Count == 0 {
		return 0
	}
	return p.SumPrice / float64(p.Count)
}

// Ohlc is the open/high/low/close price summary of one window.
// Open is fixed by the first trade processed for the window; Close
// reflects the most recently processed trade.
type Ohlc struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Apply merges one trade's price into the summary. exists reports
// whether the window already holds a value; the first trade seeds all
// four fields.
func (o Ohlc) Apply(price float64, exists bool) Ohlc {
	if !exists {
		return Ohlc{Open: price, High: price, Low: price, Close: price}
	}
	if price > o.High {
		o.High = price
	}
	if price < o.Low {
		o.Low = price
	}
	o.Close = price
	return o
}
