// Package report renders the ledger charts as standalone HTML pages.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

const (
	// TaeHistogramFile is the TAE distribution chart.
	TaeHistogramFile = "tae_histograma.html"
	// ReturnTimelineFile is the return-over-time chart with its trend line.
	ReturnTimelineFile = "evolucion_rentabilidad_con_regresion.html"

	histogramBins = 20
	curvePoints   = 100

	chartWidth  = "1000px"
	chartHeight = "600px"
)

// Renderer writes chart files into a results directory.
type Renderer struct {
	dir    string
	logger *logger.Logger
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string, log *logger.Logger) *Renderer {
	return &Renderer{
		dir:    dir,
		logger: log.Named("report"),
	}
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// sample is a ledger row with every charted column present.
type sample struct {
	recorded     time.Time
	tae          float64
	rentabilidad float64
}

// Render writes every chart the records support and returns the written
// paths. Rows missing tae or rentabilidad_total are ignored. The timeline
// needs two rows and is skipped with fewer.
func (r *Renderer) Render(records []types.LedgerRecord) ([]string, error) {
	samples := validSamples(records)
	if len(samples) == 0 {
		return nil, errors.Newf(errors.ErrCodeReportRenderFailed, "no complete ledger rows to chart (%d rows read)", len(records))
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportRenderFailed, "failed to create results directory", err)
	}

	var paths []string

	histogram := filepath.Join(r.dir, TaeHistogramFile)
	if err := r.renderHistogram(samples, histogram); err != nil {
		return nil, err
	}

	paths = append(paths, histogram)

	if len(samples) < 2 {
		r.logger.Warn("Not enough rows for a trend line, timeline chart skipped", zap.Int("rows", len(samples)))

		return paths, nil
	}

	timeline := filepath.Join(r.dir, ReturnTimelineFile)
	if err := r.renderTimeline(samples, timeline); err != nil {
		return nil, err
	}

	paths = append(paths, timeline)

	return paths, nil
}

//nolint:funcorder // helper method used by Render
func (r *Renderer) renderHistogram(samples []sample, path string) error {
	tae := make([]float64, len(samples))
	for i, s := range samples {
		tae[i] = s.tae
	}

	centers, densities, err := Histogram(tae, histogramBins)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportRenderFailed, "failed to bin TAE values", err)
	}

	mean, std := meanStd(tae)

	r.logger.Info("TAE histogram", zap.Float64("mean", mean), zap.Float64("std", std))

	bars := make([]opts.BarData, len(centers))
	for i := range centers {
		bars[i] = opts.BarData{Value: []float64{centers[i], densities[i]}}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "TAE",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "📊 Distribución de TAE con Curva Normal"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "TAE", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Densidad",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)
	bar.AddSeries("TAE", bars, charts.WithItemStyleOpts(opts.ItemStyle{
		Color:       "skyblue",
		BorderColor: "black",
		Opacity:     opts.Float(0.6),
	}))

	// a single row has no spread, so there is no curve to draw
	if !math.IsNaN(std) && std > 0 {
		xs := Linspace(minOf(tae), maxOf(tae), curvePoints)
		curve := make([]opts.LineData, len(xs))

		for i, x := range xs {
			curve[i] = opts.LineData{Value: []float64{x, NormalPDF(x, mean, std)}}
		}

		line := charts.NewLine()
		line.AddSeries(fmt.Sprintf("N(μ=%.3f, σ=%.3f)", mean, std), curve,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "red", Type: "dashed", Width: 2}),
		)
		bar.Overlap(line)
	}

	return writeChart(bar, path)
}

//nolint:funcorder // helper method used by Render
func (r *Renderer) renderTimeline(samples []sample, path string) error {
	sorted := append([]sample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].recorded.Before(sorted[j].recorded) })

	origin := sorted[0].recorded
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	labels := make([]string, len(sorted))

	for i, s := range sorted {
		xs[i] = s.recorded.Sub(origin).Seconds()
		ys[i] = s.rentabilidad
		labels[i] = s.recorded.Format(types.LedgerTimestampLayout)
	}

	slope, intercept, err := LinearFit(xs, ys)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportRenderFailed, "failed to fit return trend", err)
	}

	r.logger.Info("Return trend", zap.Float64("slope", slope), zap.Float64("intercept", intercept))

	actual := make([]opts.LineData, len(sorted))
	trend := make([]opts.LineData, len(sorted))

	for i := range sorted {
		actual[i] = opts.LineData{Value: ys[i]}
		trend[i] = opts.LineData{Value: slope*xs[i] + intercept}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Rentabilidad",
			Width:     "1200px",
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: "📈 Evolución Temporal de la Rentabilidad Total"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Fecha de simulación", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Rentabilidad total",
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Rentabilidad", actual,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), SymbolSize: 3}),
	)
	line.AddSeries("Tendencia (Regresión lineal)", trend,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: "red", Type: "dashed", Width: 2}),
	)

	return writeChart(line, path)
}

type renderable interface {
	Render(w io.Writer) error
}

func writeChart(chart renderable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeReportRenderFailed, err, "failed to create chart file %s", path)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return errors.Wrapf(errors.ErrCodeReportRenderFailed, err, "failed to render chart %s", path)
	}

	return nil
}

func validSamples(records []types.LedgerRecord) []sample {
	out := make([]sample, 0, len(records))

	for _, rec := range records {
		if rec.Tae.IsNone() || rec.RentabilidadTotal.IsNone() || rec.TimestampRecorded.IsZero() {
			continue
		}

		tae := rec.Tae.Unwrap()
		rentabilidad := rec.RentabilidadTotal.Unwrap()

		if math.IsNaN(tae) || math.IsInf(tae, 0) || math.IsNaN(rentabilidad) || math.IsInf(rentabilidad, 0) {
			continue
		}

		out = append(out, sample{
			recorded:     rec.TimestampRecorded,
			tae:          tae,
			rentabilidad: rentabilidad,
		})
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

func maxOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		out = math.Max(out, v)
	}

	return out
}
