package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RendererTestSuite struct {
	suite.Suite
	dir      string
	renderer *Renderer
}

func TestRendererSuite(t *testing.T) {
	suite.Run(t, new(RendererTestSuite))
}

func (suite *RendererTestSuite) SetupTest() {
	suite.dir = filepath.Join(suite.T().TempDir(), "results")
	suite.renderer = NewRenderer(suite.dir, logger.NewNopLogger())
}

func record(minute int, tae float64, rentabilidad float64) types.LedgerRecord {
	return types.LedgerRecord{
		TimestampRecorded: time.Date(2024, 1, 1, 10, minute, 0, 0, time.UTC),
		Tae:               optional.Some(tae),
		RentabilidadTotal: optional.Some(rentabilidad),
	}
}

func (suite *RendererTestSuite) TestRendersBothCharts() {
	paths, err := suite.renderer.Render([]types.LedgerRecord{
		record(0, 0.10, 0.05),
		record(5, 0.20, 0.08),
		record(9, 0.15, 0.07),
	})
	suite.Require().NoError(err)
	suite.Equal([]string{
		filepath.Join(suite.dir, TaeHistogramFile),
		filepath.Join(suite.dir, ReturnTimelineFile),
	}, paths)

	histogram, err := os.ReadFile(paths[0])
	suite.Require().NoError(err)
	suite.Contains(string(histogram), "Distribución de TAE con Curva Normal")
	suite.Contains(string(histogram), "N(μ=0.150, σ=0.050)")

	timeline, err := os.ReadFile(paths[1])
	suite.Require().NoError(err)
	suite.Contains(string(timeline), "Tendencia (Regresión lineal)")
	suite.Contains(string(timeline), "2024-01-01 10:05")
}

func (suite *RendererTestSuite) TestSingleRowSkipsTimeline() {
	paths, err := suite.renderer.Render([]types.LedgerRecord{record(0, 0.1, 0.05)})
	suite.Require().NoError(err)
	suite.Equal([]string{filepath.Join(suite.dir, TaeHistogramFile)}, paths)

	_, err = os.Stat(filepath.Join(suite.dir, ReturnTimelineFile))
	suite.True(os.IsNotExist(err))
}

func (suite *RendererTestSuite) TestIncompleteRowsIgnored() {
	missing := record(1, 0.3, 0.1)
	missing.Tae = optional.None[float64]()

	_, err := suite.renderer.Render([]types.LedgerRecord{missing})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeReportRenderFailed))
}

func TestHistogram(t *testing.T) {
	centers, densities, err := Histogram([]float64{0, 1, 2, 3}, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.75, 2.25}, centers, 1e-9)
	// two values per bin of width 1.5
	assert.InDeltaSlice(t, []float64{2 / 6.0, 2 / 6.0}, densities, 1e-9)

	values := []float64{0.1, 0.4, 0.4, 0.7, 0.9, 1.3, 2.0}
	_, densities, err = Histogram(values, 20)
	require.NoError(t, err)

	width := (2.0 - 0.1) / 20
	area := 0.0

	for _, d := range densities {
		area += d * width
	}

	assert.InDelta(t, 1.0, area, 1e-9)

	centers, densities, err = Histogram([]float64{5, 5}, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4.625, centers[0], 1e-9)
	assert.InDelta(t, 4.0, densities[2], 1e-9)

	_, _, err = Histogram(nil, 20)
	assert.Error(t, err)
}

func TestNormalPDF(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), NormalPDF(0, 0, 1), 1e-12)
	assert.InDelta(t, 0.24197072451914337, NormalPDF(1, 0, 1), 1e-12)
	assert.InDelta(t, NormalPDF(0, 0, 1)/2, NormalPDF(3, 3, 2), 1e-12)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Len(t, Linspace(-1, 1, 100), 100)
}

func TestLinearFit(t *testing.T) {
	tests := []struct {
		name      string
		xs        []float64
		ys        []float64
		slope     float64
		intercept float64
		wantErr   bool
	}{
		{name: "exact line", xs: []float64{0, 1, 2}, ys: []float64{1, 3, 5}, slope: 2, intercept: 1},
		{name: "noisy", xs: []float64{0, 1, 2, 3}, ys: []float64{1, 2, 2, 3}, slope: 0.6, intercept: 1.1},
		{name: "same x", xs: []float64{4, 4}, ys: []float64{1, 3}, slope: 0, intercept: 2},
		{name: "one point", xs: []float64{1}, ys: []float64{1}, wantErr: true},
		{name: "length mismatch", xs: []float64{1, 2}, ys: []float64{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, intercept, err := LinearFit(tt.xs, tt.ys)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.slope, slope, 1e-9)
			assert.InDelta(t, tt.intercept, intercept, 1e-9)
		})
	}
}
