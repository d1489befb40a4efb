package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// Download writes the daily bars of ticker between startDate and endDate
	// into w and returns how many bars were written. The writer must already
	// be initialized; finalizing it is the caller's job so several tickers
	// can share one output file.
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, w writer.BarWriter, onProgress OnDownloadProgress) (int, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
// Polygon needs an API key; Binance public klines do not.
func NewMarketDataProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient(), nil
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported market data provider: %s", providerType)
	}
}
