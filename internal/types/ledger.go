package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// LedgerHeader is the fixed column order of the ledger store.
var LedgerHeader = []string{
	"fecha_simulacion",
	"fecha_inicio",
	"fecha_fin",
	"dinero_inicial",
	"dinero_final",
	"rentabilidad_total",
	"tae",
	"apalancamiento",
	"margen",
	"comision_total",
	"numberStocksInPortfolio",
	"prediccion",
	"percentil",
	"rlog_size",
}

const (
	// LedgerTimestampLayout formats fecha_simulacion.
	LedgerTimestampLayout = "2006-01-02 15:04"
	// LedgerDateLayout formats fecha_inicio and fecha_fin.
	LedgerDateLayout = "2006-01-02"
)

// LedgerRecord is one row of the performance ledger.
// Tae and RentabilidadTotal are None when a row read back from disk has an
// empty or unparsable value in that column.
type LedgerRecord struct {
	TimestampRecorded       time.Time                `csv:"fecha_simulacion"`
	FechaInicio             time.Time                `csv:"fecha_inicio"`
	FechaFin                time.Time                `csv:"fecha_fin"`
	DineroInicial           float64                  `csv:"dinero_inicial"`
	DineroFinal             float64                  `csv:"dinero_final"`
	RentabilidadTotal       optional.Option[float64] `csv:"rentabilidad_total"`
	Tae                     optional.Option[float64] `csv:"tae"`
	Apalancamiento          float64                  `csv:"apalancamiento"`
	Margen                  float64                  `csv:"margen"`
	ComisionTotal           float64                  `csv:"comision_total"`
	NumberStocksInPortfolio int                      `csv:"numberStocksInPortfolio"`
	Prediccion              int                      `csv:"prediccion"`
	Percentil               int                      `csv:"percentil"`
	RlogSize                int                      `csv:"rlog_size"`
}
