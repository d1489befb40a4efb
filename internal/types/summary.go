package types

import "github.com/moznion/go-optional"

// SummaryReport holds the cross-run statistics of the ledger.
// Standard deviations are sample deviations and are None with fewer than two rows.
type SummaryReport struct {
	TotalRecords int                      `yaml:"total_records" json:"total_records"`
	TaeMean      float64                  `yaml:"tae_mean" json:"tae_mean"`
	TaeStd       optional.Option[float64] `yaml:"tae_std" json:"tae_std"`
	TaeMax       float64                  `yaml:"tae_max" json:"tae_max"`
	TaeMin       float64                  `yaml:"tae_min" json:"tae_min"`

	LastN       int                      `yaml:"last_n" json:"last_n"`
	LastTaeMean float64                  `yaml:"last_tae_mean" json:"last_tae_mean"`
	LastTaeStd  optional.Option[float64] `yaml:"last_tae_std" json:"last_tae_std"`

	RentabilidadMean float64 `yaml:"rentabilidad_mean" json:"rentabilidad_mean"`
	ComisionMean     float64 `yaml:"comision_mean" json:"comision_mean"`
}
