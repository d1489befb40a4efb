package strategy

import "github.com/rxtech-lab/argo-sweep/internal/types"

// Strategy turns price views into limit instructions.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string
	// PendingOrders returns the instructions for the given open (or real-time) view.
	PendingOrders(snapshot types.PriceSnapshot) (types.PendingOrders, error)
	// UpdateState lets the strategy consume the full range of the day.
	UpdateState(day types.DayRange) error
	// SetPortfolio replaces the strategy's view of cash and holdings (units keyed by symbol).
	SetPortfolio(cash float64, positions map[string]float64) error
}
