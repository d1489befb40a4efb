package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/types"
)

// BarGenerator generates daily bars for testing and benchmarking.
type BarGenerator struct {
	rng *rand.Rand
}

// NewBarGenerator creates a new BarGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewBarGenerator(seed int64) *BarGenerator {
	return &BarGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the instrument symbol (e.g., "AAPL", "BTCUSDT")
	Symbol string
	// StartDate is the first bar's day
	StartDate time.Time
	// Days is the number of daily bars to generate
	Days int
	// InitialPrice is the first open
	InitialPrice float64
	// Volatility is the typical daily move (0.02 = 2%)
	Volatility float64
	// Drift is the expected daily return
	Drift float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
}

// DefaultConfig returns a year of daily bars around 100.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "TEST",
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:         365,
		InitialPrice: 100.0,
		Volatility:   0.02,
		Drift:        0.0,
		VolumeBase:   10000,
	}
}

// Generate creates daily bars following a geometric Brownian motion.
// Each open equals the previous close.
func (g *BarGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Days)
	price := config.InitialPrice

	for i := 0; i < config.Days; i++ {
		open := price

		// Box-Muller
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Drift + config.Volatility*z)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) * (1 + g.rng.Float64()*config.Volatility*0.5)
		low := math.Min(open, closePrice) * (1 - g.rng.Float64()*config.Volatility*0.5)

		bars[i] = types.Bar{
			Time:   config.StartDate.AddDate(0, 0, i),
			Symbol: config.Symbol,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(config.VolumeBase*(0.7+g.rng.Float64()*0.6), 2),
		}

		price = closePrice
	}

	return bars
}

// GenerateUniverse generates bars for every symbol, ordered by day then
// symbol the way the bar loader returns them. Initial price and volatility
// vary slightly per symbol.
func (g *BarGenerator) GenerateUniverse(symbols []string, base GeneratorConfig) []types.Bar {
	series := make([][]types.Bar, len(symbols))

	for i, symbol := range symbols {
		config := base
		config.Symbol = symbol
		config.InitialPrice = base.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = base.Volatility * (0.8 + g.rng.Float64()*0.4)
		series[i] = g.Generate(config)
	}

	bars := make([]types.Bar, 0, len(symbols)*base.Days)

	for day := 0; day < base.Days; day++ {
		for i := range symbols {
			bars = append(bars, series[i][day])
		}
	}

	return bars
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
