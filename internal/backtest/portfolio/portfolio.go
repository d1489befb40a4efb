package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-sweep/internal/backtest/portfolio/commission_fee"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Accountant tracks cash and positions, realizes scheduled limit orders
// against the day's range and values the portfolio at the close.
type Accountant interface {
	// ScheduleBuy schedules a limit buy of amount cash worth of instrument id.
	ScheduleBuy(id int, price float64, amount float64) error
	// ScheduleSell schedules a limit sell of amount cash worth of instrument id.
	ScheduleSell(id int, price float64, amount float64) error
	// Execute fills the scheduled orders against day and returns the closing valuation.
	// Orders that do not fill expire with the day.
	Execute(day types.DayRange) (float64, error)
	InitialMoney() float64
	InitialDate() time.Time
	TotalCommission() float64
	Cash() float64
	// Positions returns units held keyed by instrument id.
	Positions() map[int]float64
}

type scheduledOrder struct {
	id         string
	instrument int
	side       types.PurchaseType
	price      decimal.Decimal
	amount     decimal.Decimal
}

// Simulator is the in-memory Accountant used by backtests.
type Simulator struct {
	symbols          []string
	cash             decimal.Decimal
	initialMoney     decimal.Decimal
	initialDate      time.Time
	started          bool
	positions        map[int]decimal.Decimal
	scheduled        []scheduledOrder
	commission       commission_fee.CommissionFee
	totalCommission  decimal.Decimal
	decimalPrecision int32
	logger           *logger.Logger
}

// NewSimulator creates a Simulator holding initialMoney in cash.
func NewSimulator(symbols []string, initialMoney float64, commission commission_fee.CommissionFee, decimalPrecision int32, log *logger.Logger) *Simulator {
	if commission == nil {
		commission = commission_fee.NewZeroCommissionFee()
	}

	money := decimal.NewFromFloat(initialMoney)

	return &Simulator{
		symbols:          symbols,
		cash:             money,
		initialMoney:     money,
		initialDate:      time.Time{},
		started:          false,
		positions:        make(map[int]decimal.Decimal),
		scheduled:        []scheduledOrder{},
		commission:       commission,
		totalCommission:  decimal.Zero,
		decimalPrecision: decimalPrecision,
		logger:           log.Named("portfolio"),
	}
}

// ScheduleBuy implements Accountant.
func (s *Simulator) ScheduleBuy(id int, price float64, amount float64) error {
	return s.schedule(id, types.PurchaseTypeBuy, price, amount)
}

// ScheduleSell implements Accountant.
func (s *Simulator) ScheduleSell(id int, price float64, amount float64) error {
	return s.schedule(id, types.PurchaseTypeSell, price, amount)
}

// Execute implements Accountant.
func (s *Simulator) Execute(day types.DayRange) (float64, error) {
	n := len(s.symbols)
	if len(day.Low) != n || len(day.High) != n || len(day.Close) != n {
		return 0, errors.Newf(errors.ErrCodeAccountantFailed,
			"day range has %d/%d/%d prices for %d symbols", len(day.Low), len(day.High), len(day.Close), n)
	}

	if !s.started {
		s.initialDate = day.Date
		s.started = true
	}

	for _, order := range s.scheduled {
		switch order.side {
		case types.PurchaseTypeBuy:
			if decimal.NewFromFloat(day.Low[order.instrument]).LessThanOrEqual(order.price) {
				s.fillBuy(order)
			}
		case types.PurchaseTypeSell:
			if decimal.NewFromFloat(day.High[order.instrument]).GreaterThanOrEqual(order.price) {
				s.fillSell(order)
			}
		}
	}

	s.scheduled = s.scheduled[:0]

	valuation := s.cash
	for id, units := range s.positions {
		valuation = valuation.Add(units.Mul(decimal.NewFromFloat(day.Close[id])))
	}

	return valuation.InexactFloat64(), nil
}

// InitialMoney implements Accountant.
func (s *Simulator) InitialMoney() float64 {
	return s.initialMoney.InexactFloat64()
}

// InitialDate implements Accountant. It is the date of the first executed day.
func (s *Simulator) InitialDate() time.Time {
	return s.initialDate
}

// TotalCommission implements Accountant.
func (s *Simulator) TotalCommission() float64 {
	return s.totalCommission.InexactFloat64()
}

// Cash implements Accountant.
func (s *Simulator) Cash() float64 {
	return s.cash.InexactFloat64()
}

// Positions implements Accountant.
func (s *Simulator) Positions() map[int]float64 {
	out := make(map[int]float64, len(s.positions))
	for id, units := range s.positions {
		out[id] = units.InexactFloat64()
	}

	return out
}

func (s *Simulator) schedule(id int, side types.PurchaseType, price float64, amount float64) error {
	if id < 0 || id >= len(s.symbols) {
		return errors.Newf(errors.ErrCodeInvalidOrder, "instrument %d is out of range for %d symbols", id, len(s.symbols))
	}

	if price <= 0 || amount <= 0 {
		return errors.Newf(errors.ErrCodeInvalidOrder, "%s %s needs a positive price and amount, got price=%f amount=%f",
			side, s.symbols[id], price, amount)
	}

	s.scheduled = append(s.scheduled, scheduledOrder{
		id:         uuid.New().String(),
		instrument: id,
		side:       side,
		price:      decimal.NewFromFloat(price),
		amount:     decimal.NewFromFloat(amount),
	})

	return nil
}

func (s *Simulator) fillBuy(order scheduledOrder) {
	units := order.amount.DivRound(order.price, s.decimalPrecision)
	if !units.IsPositive() {
		return
	}

	cost := units.Mul(order.price)
	fee := s.commission.Calculate(units, order.price)

	if cost.Add(fee).GreaterThan(s.cash) {
		s.logger.Warn("Buy rejected, insufficient cash",
			zap.String("order_id", order.id),
			zap.String("symbol", s.symbols[order.instrument]),
			zap.String("cost", cost.Add(fee).StringFixed(2)),
			zap.String("cash", s.cash.StringFixed(2)),
		)

		return
	}

	s.cash = s.cash.Sub(cost).Sub(fee)
	s.totalCommission = s.totalCommission.Add(fee)
	s.positions[order.instrument] = s.positions[order.instrument].Add(units)
}

func (s *Simulator) fillSell(order scheduledOrder) {
	held := s.positions[order.instrument]
	if !held.IsPositive() {
		return
	}

	units := decimal.Min(order.amount.DivRound(order.price, s.decimalPrecision), held)
	if !units.IsPositive() {
		return
	}

	fee := s.commission.Calculate(units, order.price)

	s.cash = s.cash.Add(units.Mul(order.price)).Sub(fee)
	s.totalCommission = s.totalCommission.Add(fee)

	remaining := held.Sub(units)
	if remaining.IsPositive() {
		s.positions[order.instrument] = remaining
	} else {
		delete(s.positions, order.instrument)
	}
}
