package ledger

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
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

type LedgerTestSuite struct {
	suite.Suite
	path   string
	now    time.Time
	logger *logger.Logger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "tests.csv")
	s.now = time.Date(2025, 5, 20, 14, 37, 52, 0, time.UTC)
	s.logger = logger.NewNopLogger()
}

func (s *LedgerTestSuite) clock() time.Time {
	return s.now
}

func (s *LedgerTestSuite) newLedger() *Ledger {
	return NewLedger(s.path, s.clock, s.logger)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRun(initial, final float64, from, to time.Time) types.SimulationRun {
	return types.SimulationRun{
		InitialDate:     from,
		InitialMoney:    initial,
		FinalDate:       to,
		FinalMoney:      final,
		TotalCommission: 12.5,
		Parameters:      types.DefaultParameterSet(),
	}
}

func (s *LedgerTestSuite) TestRecordAppendsRow() {
	l := s.newLedger()

	record, err := l.Record(sampleRun(1000, 1100, date(2024, 1, 1), date(2024, 12, 30)))
	s.Require().NoError(err)
	s.Equal(365, ElapsedDays(record.FechaInicio, record.FechaFin))
	s.InDelta(0.1, record.Tae.Unwrap(), 1e-9)
	s.InDelta(0.1, record.RentabilidadTotal.Unwrap(), 1e-9)
	s.Equal(time.Date(2025, 5, 20, 14, 37, 0, 0, time.UTC), record.TimestampRecorded)

	content, err := os.ReadFile(s.path)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	s.Require().Len(lines, 2)
	s.Equal(strings.Join(types.LedgerHeader, ","), lines[0])
	s.Equal("2025-05-20 14:37,2024-01-01,2024-12-30,1000.00,1100.00,0.1000,0.1000,1.6666666666666667,0.005,12.50,10,1,95,24", lines[1])
}

func (s *LedgerTestSuite) TestEmptyExistingFileGetsHeader() {
	s.Require().NoError(os.WriteFile(s.path, nil, 0644))

	l := s.newLedger()

	_, err := l.Record(sampleRun(1000, 1100, date(2024, 1, 1), date(2024, 12, 30)))
	s.Require().NoError(err)

	content, err := os.ReadFile(s.path)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	s.Require().Len(lines, 2)
	s.Equal(strings.Join(types.LedgerHeader, ","), lines[0])

	records, err := l.Read()
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *LedgerTestSuite) TestDomainErrorWritesNothing() {
	l := s.newLedger()

	_, err := l.Record(sampleRun(0, 1100, date(2024, 1, 1), date(2024, 1, 5)))
	s.Require().Error(err)
	s.True(errors.IsDomainError(err))

	_, err = l.Record(sampleRun(1000, 1100, date(2024, 1, 5), date(2024, 1, 1)))
	s.Require().Error(err)
	s.True(errors.IsDomainError(err))

	s.NoFileExists(s.path)
}

func (s *LedgerTestSuite) TestRoundTripKeepsOrder() {
	l := s.newLedger()

	written := make([]types.LedgerRecord, 0, 5)

	for i := 0; i < 5; i++ {
		record := types.LedgerRecord{
			TimestampRecorded:       time.Date(2025, 5, 20, 10, i, 0, 0, time.UTC),
			FechaInicio:             date(2024, 1, 1),
			FechaFin:                date(2024, 6, 1+i),
			DineroInicial:           100000,
			DineroFinal:             100000 + float64(i)*1234.56,
			RentabilidadTotal:       optional.Some(float64(i) * 0.0123),
			Tae:                     optional.Some(float64(i)*0.0321 - 0.05),
			Apalancamiento:          1.5,
			Margen:                  0.005,
			ComisionTotal:           float64(i) + 0.25,
			NumberStocksInPortfolio: 10 + i,
			Prediccion:              1,
			Percentil:               95,
			RlogSize:                24,
		}

		s.Require().NoError(l.Append(record))
		written = append(written, record)
	}

	read, err := l.Read()
	s.Require().NoError(err)
	s.Require().Len(read, len(written))

	for i := range written {
		s.True(written[i].TimestampRecorded.Equal(read[i].TimestampRecorded))
		s.True(written[i].FechaFin.Equal(read[i].FechaFin))
		s.InDelta(written[i].DineroFinal, read[i].DineroFinal, 1e-9)
		s.InDelta(written[i].Tae.Unwrap(), read[i].Tae.Unwrap(), 1e-9)
		s.InDelta(written[i].RentabilidadTotal.Unwrap(), read[i].RentabilidadTotal.Unwrap(), 1e-9)
		s.Equal(written[i].ComisionTotal, read[i].ComisionTotal)
		s.Equal(written[i].NumberStocksInPortfolio, read[i].NumberStocksInPortfolio)
		s.Equal(written[i].Apalancamiento, read[i].Apalancamiento)
		s.Equal(written[i].Margen, read[i].Margen)
	}
}

func (s *LedgerTestSuite) TestMissingTaeIsExcluded() {
	content := strings.Join(types.LedgerHeader, ",") + "\n" +
		"2025-05-20 10:00,2024-01-01,2024-12-30,1000,1100,0.1,0.1,1.5,0.005,2,10,1,95,24\n" +
		"2025-05-20 10:01,2024-01-01,2024-12-30,1000,1100,0.1,,1.5,0.005,100,10,1,95,24\n" +
		"2025-05-20 10:02,2024-01-01,2024-12-30,1000,1300,0.3,0.3,1.5,0.005,4,10,1,95,24\n"
	s.Require().NoError(os.WriteFile(s.path, []byte(content), 0644))

	l := s.newLedger()

	records, err := l.Read()
	s.Require().NoError(err)
	s.Len(records, 3)
	s.True(records[1].Tae.IsNone())

	report, err := l.Summarize(10)
	s.Require().NoError(err)
	s.Equal(2, report.TotalRecords)
	s.InDelta(0.2, report.TaeMean, 1e-12)
	s.InDelta(0.2, report.RentabilidadMean, 1e-12)
	s.InDelta(3.0, report.ComisionMean, 1e-12)
	s.InDelta(math.Sqrt(0.02), report.TaeStd.Unwrap(), 1e-12)
}

func (s *LedgerTestSuite) TestSummarizeIsIdempotent() {
	l := s.newLedger()

	for i, final := range []float64{1050, 990, 1200, 1010} {
		_, err := l.Record(sampleRun(1000, final, date(2024, 1, 1), date(2024, 3, 1+i)))
		s.Require().NoError(err)
	}

	first, err := l.Summarize(2)
	s.Require().NoError(err)

	second, err := l.Summarize(2)
	s.Require().NoError(err)
	s.Equal(first, second)
	s.Equal(4, first.TotalRecords)
	s.Equal(2, first.LastN)
}

func (s *LedgerTestSuite) TestEmptyStore() {
	l := s.newLedger()

	_, err := l.Summarize(10)
	s.Require().Error(err)
	s.True(errors.IsEmptyStore(err))

	s.Require().NoError(os.WriteFile(s.path, []byte(strings.Join(types.LedgerHeader, ",")+"\n"), 0644))

	_, err = l.Summarize(10)
	s.Require().Error(err)
	s.True(errors.IsEmptyStore(err))
	s.Contains(err.Error(), s.path)
}

func (s *LedgerTestSuite) TestConcurrentAppends() {
	const (
		writers = 8
		rows    = 10
	)

	var wg sync.WaitGroup

	for w := 0; w < writers; w++ {
		wg.Add(1)

		go func(w int) {
			defer wg.Done()

			// one ledger per writer, as separate sweep processes would have
			l := s.newLedger()

			for i := 0; i < rows; i++ {
				final := 1000 + float64(w*rows+i)
				if _, err := l.Record(sampleRun(1000, final, date(2024, 1, 1), date(2024, 2, 1))); err != nil {
					s.T().Errorf("writer %d: %v", w, err)
				}
			}
		}(w)
	}

	wg.Wait()

	records, err := s.newLedger().Read()
	s.Require().NoError(err)
	s.Len(records, writers*rows)

	content, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.Equal(1, strings.Count(string(content), "fecha_simulacion"))
	s.True(strings.HasPrefix(string(content), "fecha_simulacion,"))

	seen := map[string]bool{}
	for _, r := range records {
		seen[fmt.Sprintf("%.2f", r.DineroFinal)] = true
	}

	s.Len(seen, writers*rows)
}

func TestTaeMatchesFormula(t *testing.T) {
	cases := []struct {
		initial float64
		final   float64
		from    time.Time
		to      time.Time
	}{
		{1000, 1100, date(2024, 1, 1), date(2024, 12, 30)},
		{100000, 93421.17, date(2019, 1, 1), date(2023, 7, 14)},
		{500, 2000, date(2020, 2, 28), date(2020, 3, 1)},
		{1, 1, date(2021, 6, 1), date(2021, 6, 30)},
		{250, 0, date(2021, 6, 1), date(2021, 6, 30)},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v->%v", tc.initial, tc.final), func(t *testing.T) {
			record, err := NewRecord(sampleRun(tc.initial, tc.final, tc.from, tc.to), time.Now())
			require.NoError(t, err)

			days := ElapsedDays(tc.from, tc.to)
			expected := math.Pow(tc.final/tc.initial, 365/float64(days)) - 1
			assert.InDelta(t, expected, record.Tae.Unwrap(), 1e-9)
			assert.InDelta(t, tc.final/tc.initial-1, record.RentabilidadTotal.Unwrap(), 1e-9)
		})
	}
}

func TestSingleDayUsesFullExponent(t *testing.T) {
	day := date(2024, 3, 15)
	assert.Equal(t, 1, ElapsedDays(day, day.Add(15*time.Hour)))

	record, err := NewRecord(sampleRun(1000, 1001, day, day), time.Now())
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(1.001, 365)-1, record.Tae.Unwrap(), 1e-9)
}

func TestTaeDomainErrors(t *testing.T) {
	_, err := Tae(-1, 10, 10)
	assert.True(t, errors.IsDomainError(err))

	_, err = Tae(10, 10, 0)
	assert.True(t, errors.IsDomainError(err))

	_, err = Tae(10, -5, 10)
	assert.True(t, errors.IsDomainError(err))
}

func TestSummarizeFigures(t *testing.T) {
	records := []types.LedgerRecord{
		{Tae: optional.Some(0.10), RentabilidadTotal: optional.Some(0.05), ComisionTotal: 1},
		{Tae: optional.Some(-0.20), RentabilidadTotal: optional.Some(-0.10), ComisionTotal: 3},
		{Tae: optional.Some(0.40), RentabilidadTotal: optional.Some(0.20), ComisionTotal: 5},
	}

	report, err := Summarize(records, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalRecords)
	assert.InDelta(t, 0.1, report.TaeMean, 1e-12)
	assert.InDelta(t, 0.3, report.TaeStd.Unwrap(), 1e-12)
	assert.Equal(t, 0.40, report.TaeMax)
	assert.Equal(t, -0.20, report.TaeMin)
	assert.InDelta(t, 0.1, report.LastTaeMean, 1e-12)
	assert.InDelta(t, math.Sqrt(0.18), report.LastTaeStd.Unwrap(), 1e-12)
	assert.InDelta(t, 0.05, report.RentabilidadMean, 1e-12)
	assert.InDelta(t, 3.0, report.ComisionMean, 1e-12)

	single, err := Summarize(records[:1], 10)
	require.NoError(t, err)
	assert.True(t, single.TaeStd.IsNone())
	assert.True(t, single.LastTaeStd.IsNone())

	_, err = Summarize(records, 0)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = Summarize([]types.LedgerRecord{{Tae: optional.None[float64]()}}, 1)
	assert.True(t, errors.IsEmptyStore(err))
}

func TestFormatSummary(t *testing.T) {
	text := FormatSummary(types.SummaryReport{
		TotalRecords:     1,
		TaeMean:          0.12345,
		TaeStd:           optional.None[float64](),
		TaeMax:           0.12345,
		TaeMin:           0.12345,
		LastN:            1,
		LastTaeMean:      0.12345,
		LastTaeStd:       optional.None[float64](),
		RentabilidadMean: 0.05,
		ComisionMean:     3.456,
	})

	assert.True(t, strings.HasPrefix(text, "📈 *Resumen de Simulaciones*\n📊 Simulaciones totales: 1\n"))
	assert.Contains(t, text, "   - Media: 0.1235\n")
	assert.Contains(t, text, "   - Desviación: n/a\n")
	assert.Contains(t, text, "🔹 *TAE (últimas 1):*")
	assert.True(t, strings.HasSuffix(text, "🔹 Comisión promedio: $3.46"))
}
