package types

import "time"

// ParameterSet holds the strategy parameters a simulation was run with.
// The yaml keys are the names used by sweep configurations and the ledger.
type ParameterSet struct {
	Apalancamiento          float64 `yaml:"apalancamiento" json:"apalancamiento" jsonschema:"title=Leverage,default=1.6666666666666667" validate:"gt=0"`
	Margen                  float64 `yaml:"margen" json:"margen" jsonschema:"title=Order margin,description=Distance of limit prices from the open,default=0.005" validate:"gte=0,lt=1"`
	NumberStocksInPortfolio int     `yaml:"numberStocksInPortfolio" json:"numberStocksInPortfolio" jsonschema:"title=Portfolio size,default=10" validate:"gt=0"`
	Prediccion              int     `yaml:"prediccion" json:"prediccion" jsonschema:"title=Prediction horizon,default=1" validate:"gt=0"`
	Percentil               int     `yaml:"percentil" json:"percentil" jsonschema:"title=Percentile,default=95" validate:"gt=0,lte=100"`
	RlogSize                int     `yaml:"rlog_size" json:"rlog_size" jsonschema:"title=Log return window,default=24" validate:"gt=0"`
	RingSize                int     `yaml:"ring_size" json:"ring_size" jsonschema:"title=Price history size,default=240" validate:"gt=0"`
	Cabeza                  int     `yaml:"cabeza" json:"cabeza" jsonschema:"title=Head size,default=5" validate:"gte=0"`
	Seeds                   int     `yaml:"seeds" json:"seeds" jsonschema:"title=Seeds,default=100" validate:"gte=0"`
}

// DefaultParameterSet returns the parameters used when nothing is overridden.
func DefaultParameterSet() ParameterSet {
	return ParameterSet{
		Apalancamiento:          10.0 / 6.0,
		Margen:                  0.005,
		NumberStocksInPortfolio: 10,
		Prediccion:              1,
		Percentil:               95,
		RlogSize:                24,
		RingSize:                240,
		Cabeza:                  5,
		Seeds:                   100,
	}
}

// ValuationPoint is the portfolio value recorded at the end of a day.
type ValuationPoint struct {
	Date  time.Time `yaml:"date" json:"date"`
	Value float64   `yaml:"value" json:"value"`
}

// SimulationRun is the terminal snapshot of a completed execution loop.
type SimulationRun struct {
	InitialDate     time.Time    `yaml:"initial_date" json:"initial_date"`
	InitialMoney    float64      `yaml:"initial_money" json:"initial_money"`
	FinalDate       time.Time    `yaml:"final_date" json:"final_date"`
	FinalMoney      float64      `yaml:"final_money" json:"final_money"`
	TotalCommission float64      `yaml:"total_commission" json:"total_commission"`
	Parameters      ParameterSet `yaml:"parameters" json:"parameters"`
}
