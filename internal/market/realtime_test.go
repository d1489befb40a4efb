package market

import (
	"context"
	"errors"
	"testing"

	"github.com/adshao/go-binance/v2"
	argoerrors "github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	quotes []*binance.SymbolPrice
	err    error
	asked  []string
}

func (f *fakeLister) ListPrices(_ context.Context, symbols []string) ([]*binance.SymbolPrice, error) {
	f.asked = symbols

	return f.quotes, f.err
}

func TestBinanceRealTimeSource(t *testing.T) {
	t.Run("prices follow requested order", func(t *testing.T) {
		lister := &fakeLister{quotes: []*binance.SymbolPrice{
			{Symbol: "ETHUSDT", Price: "3000.5"},
			{Symbol: "BTCUSDT", Price: "65000.25"},
		}}
		source := NewBinanceRealTimeSourceWithLister(lister)

		prices, err := source.LatestPrices(context.Background(), []string{"BTCUSDT", "ETHUSDT"})
		require.NoError(t, err)
		assert.Equal(t, []float64{65000.25, 3000.5}, prices)
		assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, lister.asked)
	})

	t.Run("missing symbol", func(t *testing.T) {
		source := NewBinanceRealTimeSourceWithLister(&fakeLister{quotes: []*binance.SymbolPrice{{Symbol: "BTCUSDT", Price: "1"}}})

		_, err := source.LatestPrices(context.Background(), []string{"BTCUSDT", "ETHUSDT"})
		assert.True(t, argoerrors.IsDataUnavailable(err))
	})

	t.Run("bad price", func(t *testing.T) {
		source := NewBinanceRealTimeSourceWithLister(&fakeLister{quotes: []*binance.SymbolPrice{{Symbol: "BTCUSDT", Price: "abc"}}})

		_, err := source.LatestPrices(context.Background(), []string{"BTCUSDT"})
		assert.True(t, argoerrors.HasCode(err, argoerrors.ErrCodeMarketDataParseFailed))
	})

	t.Run("api failure", func(t *testing.T) {
		source := NewBinanceRealTimeSourceWithLister(&fakeLister{err: errors.New("timeout")})

		_, err := source.LatestPrices(context.Background(), []string{"BTCUSDT"})
		assert.True(t, argoerrors.IsDataUnavailable(err))
	})
}
