package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// tradeEvent mirrors the feed's wire format on the `trades` topic.
type tradeEvent struct {
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

func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic     = flag.String("topic", "trades", "Kafka topic name")
		symbols   = flag.String("symbols", "BNBBTC,ETHBTC", "Symbol pairs to generate (comma-separated)")
		delay     = flag.Duration("delay", 100*time.Millisecond, "Delay between trades")
		count     = flag.Int("count", 1000, "Number of trades to generate")
		basePrice = flag.Float64("base-price", 0.0042, "Base price for generated trades")
	)
	flag.Parse()

	pairs := strings.Split(*symbols, ",")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	log.Printf("Sending %d trades to topic %s on %s", *count, *topic, *brokers)

	for i := 0; i < *count; i++ {
		symbol := pairs[rand.Intn(len(pairs))]
		now := time.Now().UnixMilli()

		// walk the price around the base within ±5%
		price := *basePrice * (1 + (rand.Float64()-0.5)/10)
		quantity := 0.01 + rand.Float64()*9.99

		event := tradeEvent{
			EventType:     "trade",
			EventTime:     now,
			Symbol:        symbol,
			TradeID:       int64(i + 1),
			Price:         strconv.FormatFloat(price, 'f', 8, 64),
			Quantity:      strconv.FormatFloat(quantity, 'f', 4, 64),
			BuyerOrderID:  rand.Int63n(1_000_000),
			SellerOrderID: rand.Int63n(1_000_000),
			TradeTime:     now,
			IsBuyerMaker:  rand.Float64() < 0.5,
			IsBestMatch:   true,
		}

		value, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal trade %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(symbol),
			Value: value,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send trade %d (%s): %v", i+1, symbol, err)
			continue
		}

		if (i+1)%100 == 0 || i == *count-1 {
			log.Printf("Sent trade %d/%d: %s @ %s x %s", i+1, *count, symbol, event.Price, event.Quantity)
		}

		if i < *count-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Successfully sent all %d trades", *count)
}
