package types

import "time"

// PriceSnapshot is the per-instrument price view for one simulated day or one
// real-time poll. Instrument ids are indexes into Symbols.
type PriceSnapshot struct {
	Date    time.Time `yaml:"date" json:"date"`
	Symbols []string  `yaml:"symbols" json:"symbols"`
	// Open holds the open price, or the latest traded price for a real-time view.
	Open []float64 `yaml:"open" json:"open"`
}

// DayRange is the full-day range revealed after the open has been processed.
type DayRange struct {
	Date  time.Time `yaml:"date" json:"date"`
	Low   []float64 `yaml:"low" json:"low"`
	High  []float64 `yaml:"high" json:"high"`
	Close []float64 `yaml:"close" json:"close"`
}

// Bar is one daily OHLC row for a symbol.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Price returns the open price of instrument id, or 0 when id is out of range.
func (p PriceSnapshot) Price(id int) float64 {
	if id < 0 || id >= len(p.Open) {
		return 0
	}

	return p.Open[id]
}

// Symbol returns the symbol of instrument id, or "" when id is out of range.
func (p PriceSnapshot) Symbol(id int) string {
	if id < 0 || id >= len(p.Symbols) {
		return ""
	}

	return p.Symbols[id]
}
