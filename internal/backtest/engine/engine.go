package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/types"
)

// Lifecycle callback types for the execution loop.
// All callbacks with error return abort the loop if they return an error.

// OnRunStartCallback is called once before the first day is processed.
type OnRunStartCallback func(symbols []string, initialMoney float64) error

// OnOrdersScheduledCallback is called after a day's instructions were forwarded to the accountant.
type OnOrdersScheduledCallback func(date time.Time, orders types.PendingOrders) error

// OnDayEndCallback is called with the closing valuation of each day.
type OnDayEndCallback func(dayIndex int, point types.ValuationPoint) error

// OnRunEndCallback is called when the loop stops (always called via defer).
// run is the zero value when err is not nil.
type OnRunEndCallback func(run types.SimulationRun, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the execution loop.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart        *OnRunStartCallback
	OnOrdersScheduled *OnOrdersScheduledCallback
	OnDayEnd          *OnDayEndCallback
	OnRunEnd          *OnRunEndCallback
}

// Evaluator records the running valuation series of a backtest.
type Evaluator interface {
	Add(point types.ValuationPoint) error
}

// ExecutionLoop drives a market cursor day by day, relaying strategy
// instructions to a portfolio accountant.
type ExecutionLoop interface {
	// AttachEvaluator sets the evaluator that receives every day's valuation.
	AttachEvaluator(evaluator Evaluator)
	// Run processes every remaining day of the cursor. It returns the terminal
	// SimulationRun once the cursor is exhausted, or the first unrecovered error.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (types.SimulationRun, error)
}
