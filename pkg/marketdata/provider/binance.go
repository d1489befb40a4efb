package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/writer"
)

// binancePageSize is the number of klines Binance returns per request by default.
const binancePageSize = 500

// KlinesFetcher fetches one page of klines.
type KlinesFetcher interface {
	FetchKlines(ctx context.Context, symbol string, interval string, startMillis int64, endMillis int64) ([]*binance.Kline, error)
}

type binanceKlines struct {
	client *binance.Client
}

func (b *binanceKlines) FetchKlines(ctx context.Context, symbol string, interval string, startMillis int64, endMillis int64) ([]*binance.Kline, error) {
	return b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		StartTime(startMillis).
		EndTime(endMillis).
		Do(ctx)
}

type BinanceClient struct {
	fetcher KlinesFetcher
}

// NewBinanceClient creates an unauthenticated client for public klines.
func NewBinanceClient() *BinanceClient {
	return NewBinanceClientWithFetcher(&binanceKlines{client: binance.NewClient("", "")})
}

// NewBinanceClientWithFetcher creates a client on top of an existing fetcher.
func NewBinanceClientWithFetcher(fetcher KlinesFetcher) *BinanceClient {
	return &BinanceClient{
		fetcher: fetcher,
	}
}

// Download implements Provider using daily klines, paging by close time.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, w writer.BarWriter, onProgress OnDownloadProgress) (int, error) {
	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()
	current := startMillis
	count := 0

	for {
		klines, err := c.fetcher.FetchKlines(ctx, ticker, "1d", current, endMillis)
		if err != nil {
			return count, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", ticker)
		}

		written, err := writeKlines(w, ticker, klines)
		count += written

		if err != nil {
			return count, err
		}

		if onProgress != nil && endMillis > startMillis {
			onProgress(float64(current-startMillis), float64(endMillis-startMillis), fmt.Sprintf("Downloading %s", ticker))
		}

		if len(klines) < binancePageSize {
			break
		}

		current = klines[len(klines)-1].CloseTime + 1
		if current >= endMillis {
			break
		}
	}

	return count, nil
}

func writeKlines(w writer.BarWriter, ticker string, klines []*binance.Kline) (int, error) {
	written := 0

	for _, k := range klines {
		values := make([]float64, 5)

		for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return written, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q for %s", raw, ticker)
			}

			values[i] = value
		}

		bar := types.Bar{
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Symbol: ticker,
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		}

		if err := w.Write(bar); err != nil {
			return written, err
		}

		written++
	}

	return written, nil
}
