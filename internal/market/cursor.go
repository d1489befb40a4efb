package market

import (
	"context"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Cursor steps through historical days and can fetch a real-time view.
type Cursor interface {
	// Symbols returns the instrument universe. Instrument ids index into it.
	Symbols() []string
	// OpenView returns the open prices of the current day.
	OpenView() types.PriceSnapshot
	// RangeView returns the low, high and close of the current day.
	RangeView() types.DayRange
	// AdvanceDay moves to the next day and reports whether one existed.
	AdvanceDay() bool
	// RealTimeView returns the latest prices for symbols, in the same order.
	RealTimeView(ctx context.Context, symbols []string) (types.PriceSnapshot, error)
}

// RealTimeSource fetches the latest traded price of each symbol.
type RealTimeSource interface {
	LatestPrices(ctx context.Context, symbols []string) ([]float64, error)
}

type day struct {
	date  time.Time
	open  []float64
	low   []float64
	high  []float64
	close []float64
}

// DailyCursor is an in-memory Cursor over daily bars.
type DailyCursor struct {
	symbols  []string
	days     []day
	current  int
	realtime RealTimeSource
}

// NewDailyCursor arranges bars into days for symbols.
//
// Days start at the first date on which every symbol has a bar. A symbol
// missing on a later date is carried forward at its previous close.
// realtime may be nil, in which case RealTimeView fails.
func NewDailyCursor(symbols []string, bars []types.Bar, realtime RealTimeSource) (*DailyCursor, error) {
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeMissingParameter, "at least one symbol is required")
	}

	index := make(map[string]int, len(symbols))
	for i, s := range symbols {
		index[s] = i
	}

	byDate := map[time.Time]map[int]types.Bar{}

	for _, bar := range bars {
		id, ok := index[bar.Symbol]
		if !ok {
			continue
		}

		date := truncateDay(bar.Time)
		if byDate[date] == nil {
			byDate[date] = map[int]types.Bar{}
		}

		byDate[date][id] = bar
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var (
		days    []day
		last    = make([]float64, len(symbols))
		seen    = make([]bool, len(symbols))
		started bool
	)

	for _, date := range dates {
		d := day{
			date:  date,
			open:  make([]float64, len(symbols)),
			low:   make([]float64, len(symbols)),
			high:  make([]float64, len(symbols)),
			close: make([]float64, len(symbols)),
		}

		complete := true

		for id := range symbols {
			bar, ok := byDate[date][id]
			if ok {
				d.open[id], d.low[id], d.high[id], d.close[id] = bar.Open, bar.Low, bar.High, bar.Close
				last[id] = bar.Close
				seen[id] = true

				continue
			}

			if !seen[id] {
				complete = false

				continue
			}

			d.open[id], d.low[id], d.high[id], d.close[id] = last[id], last[id], last[id], last[id]
		}

		if !started && !complete {
			continue
		}

		started = true

		days = append(days, d)
	}

	if len(days) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no day has bars for all %d symbols", len(symbols))
	}

	return &DailyCursor{
		symbols:  append([]string(nil), symbols...),
		days:     days,
		current:  0,
		realtime: realtime,
	}, nil
}

// Symbols implements Cursor.
func (c *DailyCursor) Symbols() []string {
	return c.symbols
}

// Len returns the number of days the cursor holds.
func (c *DailyCursor) Len() int {
	return len(c.days)
}

// OpenView implements Cursor.
func (c *DailyCursor) OpenView() types.PriceSnapshot {
	d := c.days[c.current]

	return types.PriceSnapshot{
		Date:    d.date,
		Symbols: c.symbols,
		Open:    d.open,
	}
}

// RangeView implements Cursor.
func (c *DailyCursor) RangeView() types.DayRange {
	d := c.days[c.current]

	return types.DayRange{
		Date:  d.date,
		Low:   d.low,
		High:  d.high,
		Close: d.close,
	}
}

// AdvanceDay implements Cursor.
func (c *DailyCursor) AdvanceDay() bool {
	if c.current+1 >= len(c.days) {
		return false
	}

	c.current++

	return true
}

// RealTimeView implements Cursor.
func (c *DailyCursor) RealTimeView(ctx context.Context, symbols []string) (types.PriceSnapshot, error) {
	if c.realtime == nil {
		return types.PriceSnapshot{}, errors.New(errors.ErrCodeDataSourceUnavailable, "no real-time source configured")
	}

	prices, err := c.realtime.LatestPrices(ctx, symbols)
	if err != nil {
		return types.PriceSnapshot{}, errors.Wrap(errors.ErrCodeRealTimeDataFailed, "failed to fetch real-time prices", err)
	}

	if len(prices) != len(symbols) {
		return types.PriceSnapshot{}, errors.Newf(errors.ErrCodeRealTimeDataFailed,
			"real-time source returned %d prices for %d symbols", len(prices), len(symbols))
	}

	return types.PriceSnapshot{
		Date:    time.Now(),
		Symbols: symbols,
		Open:    prices,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
