package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Outcome is how a live polling session ended without error.
type Outcome string

const (
	// OutcomeOrdersPlaced means a non-empty order batch was sent to the broker.
	OutcomeOrdersPlaced Outcome = "ORDERS_PLACED"
	// OutcomeCutoffReached means the daily cutoff passed with no signal.
	OutcomeCutoffReached Outcome = "CUTOFF_REACHED"
)

// Lifecycle callback types for the live polling phases.
// Callbacks returning an error abort the session.

// OnLiveStartCallback is called once the strategy has been synced with the account.
type OnLiveStartCallback func(symbols []string, cash float64, positions map[string]float64) error

// OnNoSignalCallback is called after a poll that produced no orders.
type OnNoSignalCallback func(attempt int, at time.Time) error

// OnOrdersPlacedCallback is called after the batch has reached the broker and the trade log.
type OnOrdersPlacedCallback func(summary string, placed []types.TradeLogEntry) error

// OnLiveStopCallback is called when the session ends (always called via defer).
type OnLiveStopCallback func(outcome Outcome, err error)

// LiveCallbacks holds the lifecycle callbacks. Nil fields are not invoked.
type LiveCallbacks struct {
	OnLiveStart    *OnLiveStartCallback
	OnNoSignal     *OnNoSignalCallback
	OnOrdersPlaced *OnOrdersPlacedCallback
	OnLiveStop     *OnLiveStopCallback
}

// LiveConfig bounds the polling loop.
type LiveConfig struct {
	// Cutoff is the local wall-clock time, HH:MM, after which no poll starts.
	Cutoff string `yaml:"cutoff" json:"cutoff" jsonschema:"title=Daily cutoff,description=HH:MM after which polling stops,default=18:00" validate:"required,datetime=15:04"`
	// PollInterval is the wait between polls that found no signal.
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval" jsonschema:"title=Poll interval,default=10m" validate:"gt=0"`
}

// DefaultLiveConfig polls every ten minutes until 18:00.
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{
		Cutoff:       "18:00",
		PollInterval: 600 * time.Second,
	}
}

// Validate checks the configuration.
func (c LiveConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid live config", err)
	}

	return nil
}

// CutoffOn returns the cutoff instant on the calendar day of now, in now's location.
func (c LiveConfig) CutoffOn(now time.Time) (time.Time, error) {
	var hour, minute int

	if _, err := fmt.Sscanf(c.Cutoff, "%d:%d", &hour, &minute); err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid cutoff %q, expected HH:MM", c.Cutoff)
	}

	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}

// LiveTransition polls real-time prices after a backtest and places the
// first non-empty order batch with the broker.
type LiveTransition interface {
	// Run blocks until orders are placed, the cutoff passes, or an error occurs.
	Run(ctx context.Context, callbacks LiveCallbacks) (Outcome, error)
}
