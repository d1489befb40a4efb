package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Summarize aggregates records. Rows without a tae are left out of every
// figure. The last-N figures cover the most recent lastN valid rows in store
// order; a lastN beyond the row count covers them all.
func Summarize(records []types.LedgerRecord, lastN int) (types.SummaryReport, error) {
	if lastN <= 0 {
		return types.SummaryReport{}, errors.Newf(errors.ErrCodeInvalidParameter, "lastN must be positive, got %d", lastN)
	}

	valid := make([]types.LedgerRecord, 0, len(records))

	for _, r := range records {
		if r.Tae.IsSome() {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		return types.SummaryReport{}, errors.NewEmptyStoreError("", len(records))
	}

	tae := make([]float64, len(valid))
	rentabilidad := make([]float64, 0, len(valid))
	comision := make([]float64, len(valid))

	for i, r := range valid {
		tae[i] = r.Tae.Unwrap()
		comision[i] = r.ComisionTotal

		if r.RentabilidadTotal.IsSome() {
			rentabilidad = append(rentabilidad, r.RentabilidadTotal.Unwrap())
		}
	}

	last := tae
	if lastN < len(tae) {
		last = tae[len(tae)-lastN:]
	}

	return types.SummaryReport{
		TotalRecords:     len(valid),
		TaeMean:          mean(tae),
		TaeStd:           sampleStd(tae),
		TaeMax:           maxOf(tae),
		TaeMin:           minOf(tae),
		LastN:            lastN,
		LastTaeMean:      mean(last),
		LastTaeStd:       sampleStd(last),
		RentabilidadMean: mean(rentabilidad),
		ComisionMean:     mean(comision),
	}, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// sampleStd uses the n-1 denominator and needs at least two values.
func sampleStd(values []float64) optional.Option[float64] {
	if len(values) < 2 {
		return optional.None[float64]()
	}

	m := mean(values)

	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}

	return optional.Some(math.Sqrt(sq / float64(len(values)-1)))
}

func maxOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Max(out, v)
	}

	return out
}

func minOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Min(out, v)
	}

	return out
}

func fixed4(v optional.Option[float64]) string {
	if v.IsNone() {
		return "n/a"
	}

	return fmt.Sprintf("%.4f", v.Unwrap())
}

// FormatSummary renders report as the Markdown message sent to the operator.
func FormatSummary(report types.SummaryReport) string {
	var b strings.Builder

	b.WriteString("📈 *Resumen de Simulaciones*\n")
	fmt.Fprintf(&b, "📊 Simulaciones totales: %d\n\n", report.TotalRecords)

	b.WriteString("🔹 *TAE (todas):*\n")
	fmt.Fprintf(&b, "   - Media: %.4f\n", report.TaeMean)
	fmt.Fprintf(&b, "   - Desviación: %s\n", fixed4(report.TaeStd))
	fmt.Fprintf(&b, "   - Máx: %.4f\n", report.TaeMax)
	fmt.Fprintf(&b, "   - Mín: %.4f\n\n", report.TaeMin)

	fmt.Fprintf(&b, "🔹 *TAE (últimas %d):*\n", report.LastN)
	fmt.Fprintf(&b, "   - Media: %.4f\n", report.LastTaeMean)
	fmt.Fprintf(&b, "   - Desviación: %s\n\n", fixed4(report.LastTaeStd))

	fmt.Fprintf(&b, "🔹 Rentabilidad total promedio: %.4f\n", report.RentabilidadMean)
	fmt.Fprintf(&b, "🔹 Comisión promedio: $%.2f", report.ComisionMean)

	return b.String()
}
