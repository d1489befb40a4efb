package ledger

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

const daysPerYear = 365.0

// ElapsedDays counts calendar days from initial to final, both inclusive.
func ElapsedDays(initial, final time.Time) int {
	from := time.Date(initial.Year(), initial.Month(), initial.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(final.Year(), final.Month(), final.Day(), 0, 0, 0, 0, time.UTC)

	return int(math.Round(to.Sub(from).Hours()/24)) + 1
}

// Tae annualizes the growth from initial to final over days.
func Tae(initial, final float64, days int) (float64, error) {
	if initial <= 0 {
		return 0, errors.Newf(errors.ErrCodeDomainError, "initial money must be positive, got %v", initial)
	}

	if days <= 0 {
		return 0, errors.Newf(errors.ErrCodeDomainError, "elapsed days must be positive, got %d", days)
	}

	if final < 0 {
		return 0, errors.Newf(errors.ErrCodeDomainError, "final money must not be negative, got %v", final)
	}

	tae := math.Pow(final/initial, daysPerYear/float64(days)) - 1
	if math.IsNaN(tae) || math.IsInf(tae, 0) {
		return 0, errors.Newf(errors.ErrCodeDomainError, "tae is not finite for %v -> %v over %d days", initial, final, days)
	}

	return tae, nil
}

// NewRecord derives the ledger row of a finished run. Values are kept at
// full precision; rounding happens when the row is written.
func NewRecord(run types.SimulationRun, recordedAt time.Time) (types.LedgerRecord, error) {
	days := ElapsedDays(run.InitialDate, run.FinalDate)

	tae, err := Tae(run.InitialMoney, run.FinalMoney, days)
	if err != nil {
		return types.LedgerRecord{}, err
	}

	return types.LedgerRecord{
		TimestampRecorded:       recordedAt.Truncate(time.Minute),
		FechaInicio:             run.InitialDate,
		FechaFin:                run.FinalDate,
		DineroInicial:           run.InitialMoney,
		DineroFinal:             run.FinalMoney,
		RentabilidadTotal:       optional.Some(run.FinalMoney/run.InitialMoney - 1),
		Tae:                     optional.Some(tae),
		Apalancamiento:          run.Parameters.Apalancamiento,
		Margen:                  run.Parameters.Margen,
		ComisionTotal:           run.TotalCommission,
		NumberStocksInPortfolio: run.Parameters.NumberStocksInPortfolio,
		Prediccion:              run.Parameters.Prediccion,
		Percentil:               run.Parameters.Percentil,
		RlogSize:                run.Parameters.RlogSize,
	}, nil
}
