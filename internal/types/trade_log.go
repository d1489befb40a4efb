package types

import "time"

// TradeLogHeader is the fixed column order of the live trade log.
var TradeLogHeader = []string{"timestamp", "symbol", "action", "quantity", "price"}

// TradeLogTimestampLayout formats the timestamp column of the trade log.
const TradeLogTimestampLayout = "2006-01-02 15:04:05"

// TradeLogEntry is one live instruction sent to the broker.
type TradeLogEntry struct {
	Timestamp time.Time    `csv:"timestamp"`
	Symbol    string       `csv:"symbol"`
	Action    PurchaseType `csv:"action"`
	Quantity  float64      `csv:"quantity"`
	Price     float64      `csv:"price"`
}
