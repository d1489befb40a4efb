package ledger

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/shopspring/decimal"
)

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func ratio(v optional.Option[float64]) string {
	if v.IsNone() {
		return ""
	}

	return decimal.NewFromFloat(v.Unwrap()).StringFixed(4)
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encodeRow renders one complete CSV line, newline included.
func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func recordFields(rec types.LedgerRecord) []string {
	return []string{
		rec.TimestampRecorded.Format(types.LedgerTimestampLayout),
		rec.FechaInicio.Format(types.LedgerDateLayout),
		rec.FechaFin.Format(types.LedgerDateLayout),
		money(rec.DineroInicial),
		money(rec.DineroFinal),
		ratio(rec.RentabilidadTotal),
		ratio(rec.Tae),
		plain(rec.Apalancamiento),
		plain(rec.Margen),
		money(rec.ComisionTotal),
		strconv.Itoa(rec.NumberStocksInPortfolio),
		strconv.Itoa(rec.Prediccion),
		strconv.Itoa(rec.Percentil),
		strconv.Itoa(rec.RlogSize),
	}
}

// rowDecoder maps columns by header name so that reordered or extra
// columns are tolerated.
type rowDecoder struct {
	index    map[string]int
	location *time.Location
}

func newRowDecoder(header []string, location *time.Location) *rowDecoder {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	return &rowDecoder{index: index, location: location}
}

func (d *rowDecoder) hasColumn(name string) bool {
	_, ok := d.index[name]

	return ok
}

func (d *rowDecoder) field(row []string, name string) string {
	i, ok := d.index[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

func (d *rowDecoder) float(row []string, name string) optional.Option[float64] {
	v, err := strconv.ParseFloat(d.field(row, name), 64)
	if err != nil {
		return optional.None[float64]()
	}

	return optional.Some(v)
}

func (d *rowDecoder) int(row []string, name string) int {
	raw := d.field(row, name)

	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}

	// values written by float-typed sweep overrides, e.g. "10.0"
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(v)
	}

	return 0
}

func (d *rowDecoder) time(row []string, name string, layout string) time.Time {
	t, err := time.ParseInLocation(layout, d.field(row, name), d.location)
	if err != nil {
		return time.Time{}
	}

	return t
}

func (d *rowDecoder) decode(row []string) types.LedgerRecord {
	return types.LedgerRecord{
		TimestampRecorded:       d.time(row, "fecha_simulacion", types.LedgerTimestampLayout),
		FechaInicio:             d.time(row, "fecha_inicio", types.LedgerDateLayout),
		FechaFin:                d.time(row, "fecha_fin", types.LedgerDateLayout),
		DineroInicial:           d.float(row, "dinero_inicial").TakeOr(0),
		DineroFinal:             d.float(row, "dinero_final").TakeOr(0),
		RentabilidadTotal:       d.float(row, "rentabilidad_total"),
		Tae:                     d.float(row, "tae"),
		Apalancamiento:          d.float(row, "apalancamiento").TakeOr(0),
		Margen:                  d.float(row, "margen").TakeOr(0),
		ComisionTotal:           d.float(row, "comision_total").TakeOr(0),
		NumberStocksInPortfolio: d.int(row, "numberStocksInPortfolio"),
		Prediccion:              d.int(row, "prediccion"),
		Percentil:               d.int(row, "percentil"),
		RlogSize:                d.int(row, "rlog_size"),
	}
}
