// Package broker places live orders on behalf of the live polling loop.
package broker

import (
	"context"
	"sort"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Gateway is the brokerage account the live loop trades through.
type Gateway interface {
	// PlaceBuyLimit submits a good-till-cancelled limit buy.
	PlaceBuyLimit(ctx context.Context, symbol string, quantity float64, price float64) error
	// PlaceSellLimit submits a good-till-cancelled limit sell.
	PlaceSellLimit(ctx context.Context, symbol string, quantity float64, price float64) error
	// CashBalance returns the free cash in the quote currency.
	CashBalance(ctx context.Context) (float64, error)
	// CurrentPositions returns the held quantity of each symbol. Symbols
	// without a position map to zero.
	CurrentPositions(ctx context.Context, symbols []string) (map[string]float64, error)
	// CancelAllPendingOrders cancels every open order of the account.
	CancelAllPendingOrders(ctx context.Context) error
}

// Kind names a Gateway implementation in configuration.
type Kind string

const (
	KindPaper   Kind = "paper"
	KindBinance Kind = "binance"
)

// Info describes a gateway kind.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPaper     bool   `json:"isPaper"`
}

var registry = map[Kind]Info{
	KindPaper: {
		Name:        string(KindPaper),
		Description: "In-memory account that records orders without sending them anywhere",
		IsPaper:     true,
	},
	KindBinance: {
		Name:        string(KindBinance),
		Description: "Binance spot account, or the Binance testnet when configured",
		IsPaper:     false,
	},
}

// SupportedKinds lists the configurable gateway kinds in name order.
func SupportedKinds() []string {
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, string(kind))
	}

	sort.Strings(kinds)

	return kinds
}

// GetInfo returns the description of kind.
func GetInfo(kind string) (Info, error) {
	info, ok := registry[Kind(kind)]
	if !ok {
		return Info{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported broker: %s", kind)
	}

	return info, nil
}
