package market

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// PriceLister abstracts the Binance price ticker endpoint for testing.
type PriceLister interface {
	ListPrices(ctx context.Context, symbols []string) ([]*binance.SymbolPrice, error)
}

type realPriceLister struct {
	client *binance.Client
}

func (r *realPriceLister) ListPrices(ctx context.Context, symbols []string) ([]*binance.SymbolPrice, error) {
	return r.client.NewListPricesService().Symbols(symbols).Do(ctx)
}

// BinanceRealTimeSource reads latest prices from the Binance spot ticker.
type BinanceRealTimeSource struct {
	lister PriceLister
}

// NewBinanceRealTimeSource creates a source backed by a Binance client.
// Public ticker endpoints need no credentials, so both keys may be empty.
func NewBinanceRealTimeSource(apiKey string, secretKey string) *BinanceRealTimeSource {
	return &BinanceRealTimeSource{
		lister: &realPriceLister{client: binance.NewClient(apiKey, secretKey)},
	}
}

// NewBinanceRealTimeSourceWithLister creates a source with a custom lister.
func NewBinanceRealTimeSourceWithLister(lister PriceLister) *BinanceRealTimeSource {
	return &BinanceRealTimeSource{lister: lister}
}

// LatestPrices implements RealTimeSource.
func (b *BinanceRealTimeSource) LatestPrices(ctx context.Context, symbols []string) ([]float64, error) {
	quotes, err := b.lister.ListPrices(ctx, symbols)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRealTimeDataFailed, "failed to list binance prices", err)
	}

	bySymbol := make(map[string]string, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q.Price
	}

	prices := make([]float64, len(symbols))

	for i, symbol := range symbols {
		raw, ok := bySymbol[symbol]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeRealTimeDataFailed, "no binance price for %s", symbol)
		}

		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid binance price %q for %s", raw, symbol)
		}

		prices[i] = price
	}

	return prices, nil
}
