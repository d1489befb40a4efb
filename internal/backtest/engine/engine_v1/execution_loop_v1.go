package engine

import (
	"context"

	"github.com/moznion/go-optional"
	engine_types "github.com/rxtech-lab/argo-sweep/internal/backtest/engine"
	"github.com/rxtech-lab/argo-sweep/internal/backtest/portfolio"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/market"
	"github.com/rxtech-lab/argo-sweep/internal/strategy"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// ExecutionLoopV1 is the day-stepped backtest loop.
type ExecutionLoopV1 struct {
	cursor     market.Cursor
	strategy   strategy.Strategy
	accountant portfolio.Accountant
	evaluator  optional.Option[engine_types.Evaluator]
	parameters types.ParameterSet
	logger     *logger.Logger
}

// NewExecutionLoopV1 creates a loop over cursor. The loop owns none of its collaborators.
func NewExecutionLoopV1(
	cursor market.Cursor,
	strat strategy.Strategy,
	accountant portfolio.Accountant,
	parameters types.ParameterSet,
	log *logger.Logger,
) *ExecutionLoopV1 {
	return &ExecutionLoopV1{
		cursor:     cursor,
		strategy:   strat,
		accountant: accountant,
		evaluator:  optional.None[engine_types.Evaluator](),
		parameters: parameters,
		logger:     log.Named("execution_loop"),
	}
}

// AttachEvaluator implements engine.ExecutionLoop.
func (e *ExecutionLoopV1) AttachEvaluator(evaluator engine_types.Evaluator) {
	if evaluator == nil {
		e.evaluator = optional.None[engine_types.Evaluator]()

		return
	}

	e.evaluator = optional.Some(evaluator)
}

// Run implements engine.ExecutionLoop.
func (e *ExecutionLoopV1) Run(ctx context.Context, callbacks engine_types.LifecycleCallbacks) (run types.SimulationRun, err error) {
	if err := e.preRunCheck(); err != nil {
		return types.SimulationRun{}, err
	}

	defer func() {
		if err != nil {
			run = types.SimulationRun{}

			e.logger.Error("Execution loop aborted", zap.Error(err))
		}

		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(run, err)
		}
	}()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(e.cursor.Symbols(), e.accountant.InitialMoney()); err != nil {
			return types.SimulationRun{}, errors.Wrap(errors.ErrCodeCallbackFailed, "OnRunStart callback failed", err)
		}
	}

	var (
		valuation float64
		lastDay   types.DayRange
		dayIndex  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return types.SimulationRun{}, errors.Wrap(errors.ErrCodeCancelled, "execution loop cancelled", err)
		}

		snapshot := e.cursor.OpenView()

		orders, err := e.strategy.PendingOrders(snapshot)
		if err != nil {
			return types.SimulationRun{}, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
				"strategy %s failed on %s", e.strategy.Name(), snapshot.Date.Format(types.LedgerDateLayout))
		}

		if err := e.forward(orders); err != nil {
			return types.SimulationRun{}, err
		}

		if callbacks.OnOrdersScheduled != nil && !orders.IsEmpty() {
			if err := (*callbacks.OnOrdersScheduled)(snapshot.Date, orders); err != nil {
				return types.SimulationRun{}, errors.Wrap(errors.ErrCodeCallbackFailed, "OnOrdersScheduled callback failed", err)
			}
		}

		lastDay = e.cursor.RangeView()

		if err := e.strategy.UpdateState(lastDay); err != nil {
			return types.SimulationRun{}, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err,
				"strategy %s failed to update on %s", e.strategy.Name(), lastDay.Date.Format(types.LedgerDateLayout))
		}

		valuation, err = e.accountant.Execute(lastDay)
		if err != nil {
			return types.SimulationRun{}, errors.Wrapf(errors.ErrCodeAccountantFailed, err,
				"accountant failed on %s", lastDay.Date.Format(types.LedgerDateLayout))
		}

		point := types.ValuationPoint{Date: lastDay.Date, Value: valuation}

		if e.evaluator.IsSome() {
			if err := e.evaluator.Unwrap().Add(point); err != nil {
				return types.SimulationRun{}, errors.Wrap(errors.ErrCodeValuationWriteFailed, "evaluator rejected valuation", err)
			}
		}

		if callbacks.OnDayEnd != nil {
			if err := (*callbacks.OnDayEnd)(dayIndex, point); err != nil {
				return types.SimulationRun{}, errors.Wrap(errors.ErrCodeCallbackFailed, "OnDayEnd callback failed", err)
			}
		}

		dayIndex++

		if !e.cursor.AdvanceDay() {
			break
		}
	}

	run = types.SimulationRun{
		InitialDate:     e.accountant.InitialDate(),
		InitialMoney:    e.accountant.InitialMoney(),
		FinalDate:       lastDay.Date,
		FinalMoney:      valuation,
		TotalCommission: e.accountant.TotalCommission(),
		Parameters:      e.parameters,
	}

	e.logger.Info("Execution loop finished",
		zap.Int("days", dayIndex),
		zap.Float64("initial_money", run.InitialMoney),
		zap.Float64("final_money", run.FinalMoney),
		zap.Float64("total_commission", run.TotalCommission),
	)

	return run, nil
}

// forward schedules every buy before any sell.
func (e *ExecutionLoopV1) forward(orders types.PendingOrders) error {
	for _, order := range orders.Buy {
		if err := e.accountant.ScheduleBuy(order.InstrumentID, order.LimitPrice, order.NotionalAmount); err != nil {
			return errors.Wrapf(errors.ErrCodeAccountantFailed, err, "failed to schedule buy of %s", order.Symbol)
		}
	}

	for _, order := range orders.Sell {
		if err := e.accountant.ScheduleSell(order.InstrumentID, order.LimitPrice, order.NotionalAmount); err != nil {
			return errors.Wrapf(errors.ErrCodeAccountantFailed, err, "failed to schedule sell of %s", order.Symbol)
		}
	}

	return nil
}

//nolint:funcorder // helper method used by Run
func (e *ExecutionLoopV1) preRunCheck() error {
	if e.cursor == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "market cursor is not set")
	}

	if e.strategy == nil {
		return errors.New(errors.ErrCodeBacktestConfigError, "strategy is not set")
	}

	if e.accountant == nil {
		return errors.New(errors.ErrCodeBacktestConfigError, "portfolio accountant is not set")
	}

	return nil
}
