package strategy

import (
	"math"
	"sort"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// Momentum holds the NumberStocksInPortfolio instruments with the best mean
// log return over the last RlogSize closes. It rebalances every Prediccion
// days, buying Margen below the open and selling Margen above it.
//
// Fills are mirrored from the day range with the same limit rules the
// portfolio simulator applies, so cash and holdings stay an estimate until
// SetPortfolio is called with broker figures.
type Momentum struct {
	params   types.ParameterSet
	symbols  []string
	index    map[string]int
	closes   [][]float64
	cash     float64
	holdings map[int]float64
	last     types.PendingOrders
	days     int
	logger   *logger.Logger
}

// NewMomentum creates a Momentum strategy starting with cash.
func NewMomentum(params types.ParameterSet, cash float64, log *logger.Logger) (*Momentum, error) {
	if params.RlogSize <= 0 || params.NumberStocksInPortfolio <= 0 || params.Prediccion <= 0 {
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError,
			"rlog_size, numberStocksInPortfolio and prediccion must be positive, got %d, %d, %d",
			params.RlogSize, params.NumberStocksInPortfolio, params.Prediccion)
	}

	if params.RingSize < params.RlogSize+1 {
		params.RingSize = params.RlogSize + 1
	}

	return &Momentum{
		params:   params,
		symbols:  nil,
		index:    map[string]int{},
		closes:   nil,
		cash:     cash,
		holdings: map[int]float64{},
		last:     types.PendingOrders{},
		days:     0,
		logger:   log.Named("momentum"),
	}, nil
}

// Name implements Strategy.
func (m *Momentum) Name() string {
	return "momentum"
}

// PendingOrders implements Strategy.
func (m *Momentum) PendingOrders(snapshot types.PriceSnapshot) (types.PendingOrders, error) {
	if err := m.bind(snapshot.Symbols); err != nil {
		return types.PendingOrders{}, err
	}

	m.last = types.PendingOrders{}

	if len(snapshot.Open) != len(m.symbols) {
		return m.last, errors.Newf(errors.ErrCodeStrategyRuntimeError,
			"snapshot has %d prices for %d symbols", len(snapshot.Open), len(m.symbols))
	}

	if m.days%m.params.Prediccion != 0 {
		return m.last, nil
	}

	targets := m.rank()
	if targets == nil {
		return m.last, nil
	}

	for id, units := range m.holdings {
		if _, keep := targets[id]; keep || units <= 0 {
			continue
		}

		open := snapshot.Open[id]
		if open <= 0 {
			continue
		}

		price := open * (1 + m.params.Margen)
		m.last.Sell = append(m.last.Sell, m.instruction(id, types.PurchaseTypeSell, price, units*price))
	}

	var newIDs []int

	for id := range targets {
		if m.holdings[id] <= 0 && snapshot.Open[id] > 0 {
			newIDs = append(newIDs, id)
		}
	}

	sort.Ints(newIDs)

	if len(newIDs) > 0 && m.cash > 0 {
		budget := math.Min(m.equity(snapshot.Open)*m.params.Apalancamiento/float64(m.params.NumberStocksInPortfolio),
			m.cash/float64(len(newIDs)))

		for _, id := range newIDs {
			price := snapshot.Open[id] * (1 - m.params.Margen)
			m.last.Buy = append(m.last.Buy, m.instruction(id, types.PurchaseTypeBuy, price, budget))
		}
	}

	sort.Slice(m.last.Sell, func(i, j int) bool { return m.last.Sell[i].InstrumentID < m.last.Sell[j].InstrumentID })

	return m.last, nil
}

// UpdateState implements Strategy.
func (m *Momentum) UpdateState(day types.DayRange) error {
	if len(day.Close) != len(m.symbols) || len(day.Low) != len(m.symbols) || len(day.High) != len(m.symbols) {
		return errors.Newf(errors.ErrCodeStrategyRuntimeError,
			"day range has %d closes for %d symbols", len(day.Close), len(m.symbols))
	}

	for _, order := range m.last.Buy {
		if day.Low[order.InstrumentID] <= order.LimitPrice && order.NotionalAmount <= m.cash {
			m.holdings[order.InstrumentID] += order.NotionalAmount / order.LimitPrice
			m.cash -= order.NotionalAmount
		}
	}

	for _, order := range m.last.Sell {
		if day.High[order.InstrumentID] >= order.LimitPrice {
			units := math.Min(order.NotionalAmount/order.LimitPrice, m.holdings[order.InstrumentID])
			m.holdings[order.InstrumentID] -= units
			m.cash += units * order.LimitPrice

			if m.holdings[order.InstrumentID] <= 0 {
				delete(m.holdings, order.InstrumentID)
			}
		}
	}

	m.last = types.PendingOrders{}

	for id, price := range day.Close {
		m.closes[id] = append(m.closes[id], price)
		if len(m.closes[id]) > m.params.RingSize {
			m.closes[id] = m.closes[id][len(m.closes[id])-m.params.RingSize:]
		}
	}

	m.days++

	return nil
}

// SetPortfolio implements Strategy. Symbols not yet known are ignored.
func (m *Momentum) SetPortfolio(cash float64, positions map[string]float64) error {
	if cash < 0 {
		return errors.Newf(errors.ErrCodeStrategyRuntimeError, "cash cannot be negative: %f", cash)
	}

	m.cash = cash
	m.holdings = map[int]float64{}

	for symbol, units := range positions {
		id, ok := m.index[symbol]
		if !ok {
			m.logger.Warn("Position in unknown symbol ignored", zap.String("symbol", symbol))

			continue
		}

		if units > 0 {
			m.holdings[id] = units
		}
	}

	// the next view is a fresh decision point
	m.days = 0

	return nil
}

func (m *Momentum) bind(symbols []string) error {
	if m.symbols == nil {
		m.symbols = append([]string(nil), symbols...)
		m.closes = make([][]float64, len(symbols))

		for i, s := range symbols {
			m.index[s] = i
		}

		return nil
	}

	if len(symbols) != len(m.symbols) {
		return errors.Newf(errors.ErrCodeStrategyRuntimeError,
			"symbol universe changed from %d to %d instruments", len(m.symbols), len(symbols))
	}

	return nil
}

// rank returns the target instrument set, or nil while the window is still filling.
func (m *Momentum) rank() map[int]struct{} {
	type scored struct {
		id    int
		score float64
	}

	var scores []scored

	for id, series := range m.closes {
		if len(series) < m.params.RlogSize+1 {
			return nil
		}

		window := series[len(series)-m.params.RlogSize-1:]
		sum := 0.0
		valid := true

		for i := 1; i < len(window); i++ {
			if window[i-1] <= 0 || window[i] <= 0 {
				valid = false

				break
			}

			sum += math.Log(window[i] / window[i-1])
		}

		if valid {
			scores = append(scores, scored{id: id, score: sum / float64(m.params.RlogSize)})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	targets := map[int]struct{}{}

	for _, s := range scores {
		if len(targets) == m.params.NumberStocksInPortfolio || s.score <= 0 {
			break
		}

		targets[s.id] = struct{}{}
	}

	return targets
}

func (m *Momentum) equity(prices []float64) float64 {
	total := m.cash
	for id, units := range m.holdings {
		total += units * prices[id]
	}

	return total
}

func (m *Momentum) instruction(id int, side types.PurchaseType, price float64, amount float64) types.OrderInstruction {
	return types.OrderInstruction{
		InstrumentID:   id,
		Symbol:         m.symbols[id],
		Side:           side,
		LimitPrice:     price,
		NotionalAmount: amount,
	}
}
