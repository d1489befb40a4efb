package engine_v1

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/market"
	"github.com/rxtech-lab/argo-sweep/internal/notifier"
	"github.com/rxtech-lab/argo-sweep/internal/strategy"
	"github.com/rxtech-lab/argo-sweep/internal/trading/broker"
	"github.com/rxtech-lab/argo-sweep/internal/trading/engine"
	"github.com/rxtech-lab/argo-sweep/internal/trading/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/internal/utils"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the production Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LiveTransitionV1 syncs the strategy with the broker account and polls
// real-time prices until the first non-empty order batch or the cutoff.
type LiveTransitionV1 struct {
	cursor   market.Cursor
	strategy strategy.Strategy
	gateway  broker.Gateway
	tradeLog *writers.TradeLogWriter
	notifier notifier.Notifier
	config   engine.LiveConfig
	clock    func() time.Time
	sleep    Sleeper
	logger   *logger.Logger
}

// NewLiveTransitionV1 creates the polling loop. A nil clock uses time.Now
// and a nil sleep uses ContextSleep.
func NewLiveTransitionV1(
	cursor market.Cursor,
	strat strategy.Strategy,
	gateway broker.Gateway,
	tradeLog *writers.TradeLogWriter,
	n notifier.Notifier,
	config engine.LiveConfig,
	clock func() time.Time,
	sleep Sleeper,
	log *logger.Logger,
) *LiveTransitionV1 {
	if clock == nil {
		clock = time.Now
	}

	if sleep == nil {
		sleep = ContextSleep
	}

	return &LiveTransitionV1{
		cursor:   cursor,
		strategy: strat,
		gateway:  gateway,
		tradeLog: tradeLog,
		notifier: n,
		config:   config,
		clock:    clock,
		sleep:    sleep,
		logger:   log.Named("live_transition"),
	}
}

// Run implements engine.LiveTransition.
func (l *LiveTransitionV1) Run(ctx context.Context, callbacks engine.LiveCallbacks) (outcome engine.Outcome, err error) {
	if err := l.preRunCheck(); err != nil {
		return "", err
	}

	defer func() {
		if err != nil {
			outcome = ""

			l.logger.Error("Live session aborted", zap.Error(err))
		}

		if callbacks.OnLiveStop != nil {
			(*callbacks.OnLiveStop)(outcome, err)
		}
	}()

	cutoff, err := l.config.CutoffOn(l.clock())
	if err != nil {
		return "", err
	}

	if err := l.prepare(ctx, callbacks); err != nil {
		return "", err
	}

	symbols := l.cursor.Symbols()

	for attempt := 1; ; attempt++ {
		now := l.clock()
		if !now.Before(cutoff) {
			l.logger.Info("Cutoff reached without signal", zap.Time("cutoff", cutoff), zap.Int("polls", attempt-1))

			return engine.OutcomeCutoffReached, nil
		}

		snapshot, err := l.cursor.RealTimeView(ctx, symbols)
		if err != nil {
			return "", err
		}

		snapshot.Date = now

		orders, err := l.strategy.PendingOrders(snapshot)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "strategy %s failed on real-time prices", l.strategy.Name())
		}

		if !orders.IsEmpty() {
			placed, err := l.place(ctx, orders, snapshot, now)
			if err != nil {
				return "", err
			}

			summary := FormatOrderSummary(now, placed)
			l.notify(ctx, summary)

			if callbacks.OnOrdersPlaced != nil {
				if err := (*callbacks.OnOrdersPlaced)(summary, placed); err != nil {
					return "", errors.Wrap(errors.ErrCodeCallbackFailed, "OnOrdersPlaced callback failed", err)
				}
			}

			return engine.OutcomeOrdersPlaced, nil
		}

		l.notify(ctx, FormatNoSignal(now, l.config.PollInterval))

		if callbacks.OnNoSignal != nil {
			if err := (*callbacks.OnNoSignal)(attempt, now); err != nil {
				return "", errors.Wrap(errors.ErrCodeCallbackFailed, "OnNoSignal callback failed", err)
			}
		}

		if err := l.sleep(ctx, l.config.PollInterval); err != nil {
			return "", errors.Wrap(errors.ErrCodeCancelled, "live polling cancelled", err)
		}
	}
}

// prepare hands the account state to the strategy and clears stale orders.
//
//nolint:funcorder // helper method used by Run
func (l *LiveTransitionV1) prepare(ctx context.Context, callbacks engine.LiveCallbacks) error {
	symbols := l.cursor.Symbols()

	cash, err := l.gateway.CashBalance(ctx)
	if err != nil {
		return err
	}

	positions, err := l.gateway.CurrentPositions(ctx, symbols)
	if err != nil {
		return err
	}

	if err := l.strategy.SetPortfolio(cash, positions); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "strategy %s rejected the account state", l.strategy.Name())
	}

	if err := l.gateway.CancelAllPendingOrders(ctx); err != nil {
		return err
	}

	l.logger.Info("Strategy synced with broker account",
		zap.Float64("cash", cash),
		zap.Int("symbols", len(symbols)),
	)

	if callbacks.OnLiveStart != nil {
		if err := (*callbacks.OnLiveStart)(symbols, cash, positions); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnLiveStart callback failed", err)
		}
	}

	return nil
}

// place sends every buy and then every sell to the broker. Each accepted
// instruction is written to the trade log before the next one is sent.
//
//nolint:funcorder // helper method used by Run
func (l *LiveTransitionV1) place(ctx context.Context, orders types.PendingOrders, snapshot types.PriceSnapshot, at time.Time) ([]types.TradeLogEntry, error) {
	placed := make([]types.TradeLogEntry, 0, orders.Len())

	for _, order := range orders.Buy {
		order.Symbol = symbolOf(order, snapshot)
		price := utils.RoundPrice(order.LimitPrice)
		quantity := utils.BuyQuantity(order.NotionalAmount, price)

		if quantity <= 0 {
			l.logger.Warn("Skipping buy below one unit",
				zap.String("symbol", order.Symbol),
				zap.Float64("amount", order.NotionalAmount),
				zap.Float64("price", price),
			)

			continue
		}

		if err := l.gateway.PlaceBuyLimit(ctx, order.Symbol, quantity, price); err != nil {
			return nil, err
		}

		entry := l.record(at, order.Symbol, types.PurchaseTypeBuy, quantity, price)
		if err := l.logTrade(entry); err != nil {
			return nil, err
		}

		placed = append(placed, entry)
	}

	for _, order := range orders.Sell {
		order.Symbol = symbolOf(order, snapshot)
		price := utils.RoundPrice(order.LimitPrice)
		quantity := utils.SellQuantity(order.NotionalAmount, price)

		if err := l.gateway.PlaceSellLimit(ctx, order.Symbol, quantity, price); err != nil {
			return nil, err
		}

		entry := l.record(at, order.Symbol, types.PurchaseTypeSell, quantity, price)
		if err := l.logTrade(entry); err != nil {
			return nil, err
		}

		placed = append(placed, entry)
	}

	return placed, nil
}

//nolint:funcorder // helper method used by place
func (l *LiveTransitionV1) logTrade(entry types.TradeLogEntry) error {
	if l.tradeLog == nil {
		return nil
	}

	return l.tradeLog.Write(entry)
}

func symbolOf(order types.OrderInstruction, snapshot types.PriceSnapshot) string {
	if order.Symbol != "" {
		return order.Symbol
	}

	return snapshot.Symbol(order.InstrumentID)
}

//nolint:funcorder // helper method used by place
func (l *LiveTransitionV1) record(at time.Time, symbol string, side types.PurchaseType, quantity float64, price float64) types.TradeLogEntry {
	l.logger.Info("Live order placed",
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("quantity", quantity),
		zap.Float64("price", price),
	)

	return types.TradeLogEntry{
		Timestamp: at,
		Symbol:    symbol,
		Action:    side,
		Quantity:  quantity,
		Price:     price,
	}
}

//nolint:funcorder // helper method used by Run
func (l *LiveTransitionV1) notify(ctx context.Context, message string) {
	if l.notifier == nil {
		return
	}

	if err := l.notifier.SendText(ctx, message); err != nil {
		l.logger.Warn("Notification not delivered", zap.Error(err))
	}
}

//nolint:funcorder // helper method used by Run
func (l *LiveTransitionV1) preRunCheck() error {
	if l.cursor == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "market cursor is not set")
	}

	if l.strategy == nil {
		return errors.New(errors.ErrCodeStrategyConfigError, "strategy is not set")
	}

	if l.gateway == nil {
		return errors.New(errors.ErrCodeBrokerUnavailable, "broker gateway is not set")
	}

	return l.config.Validate()
}
