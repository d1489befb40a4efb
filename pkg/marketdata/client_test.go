package marketdata

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/market"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
)

type staticProvider struct {
	bars    map[string][]types.Bar
	failFor string
	seen    []string
}

func (s *staticProvider) Download(_ context.Context, ticker string, _ time.Time, _ time.Time, w writer.BarWriter, _ provider.OnDownloadProgress) (int, error) {
	s.seen = append(s.seen, ticker)

	if ticker == s.failFor {
		return 0, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "no route to %s", ticker)
	}

	for _, bar := range s.bars[ticker] {
		if err := w.Write(bar); err != nil {
			return 0, err
		}
	}

	return len(s.bars[ticker]), nil
}

type ClientTestSuite struct {
	suite.Suite
	dir   string
	start time.Time
	end   time.Time
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	suite.end = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *ClientTestSuite) client(p provider.Provider, out string) *Client {
	config := ClientConfig{
		ProviderType:  provider.ProviderBinance,
		OutputPath:    filepath.Join(suite.dir, out),
		PolygonApiKey: "",
	}
	c := NewClientWithProvider(config, p, logger.NewNopLogger())
	c.SetProgressWriter(io.Discard)

	return c
}

func (suite *ClientTestSuite) TestNewClientValidation() {
	_, err := NewClient(ClientConfig{ProviderType: provider.ProviderPolygon, OutputPath: "bars.parquet", PolygonApiKey: ""}, logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = NewClient(ClientConfig{ProviderType: "yahoo", OutputPath: "bars.parquet", PolygonApiKey: ""}, logger.NewNopLogger())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	c, err := NewClient(ClientConfig{ProviderType: provider.ProviderBinance, OutputPath: "bars.parquet", PolygonApiKey: ""}, logger.NewNopLogger())
	suite.NoError(err)
	suite.NotNil(c)
}

func (suite *ClientTestSuite) TestDownloadMergesSymbols() {
	p := &staticProvider{bars: map[string][]types.Bar{
		"AAA": {{Time: suite.start, Symbol: "AAA", Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}},
		"BBB": {
			{Time: suite.start, Symbol: "BBB", Open: 2, High: 2, Low: 2, Close: 2, Volume: 1},
			{Time: suite.start.AddDate(0, 0, 1), Symbol: "BBB", Open: 3, High: 3, Low: 3, Close: 3, Volume: 1},
		},
	}}

	path, err := suite.client(p, "data/bars.parquet").Download(context.Background(), DownloadParams{
		Symbols:   []string{"AAA", "BBB"},
		StartDate: suite.start,
		EndDate:   suite.end,
	})
	suite.Require().NoError(err)
	suite.Equal(filepath.Join(suite.dir, "data", "bars.parquet"), path)
	suite.Equal([]string{"AAA", "BBB"}, p.seen)

	loader, err := market.NewBarLoader(logger.NewNopLogger())
	suite.Require().NoError(err)
	defer loader.Close()

	bars, err := loader.Load(context.Background(), path, []string{"AAA", "BBB"}, suite.start, suite.end)
	suite.Require().NoError(err)
	suite.Len(bars, 3)
}

func (suite *ClientTestSuite) TestDownloadErrors() {
	p := &staticProvider{bars: map[string][]types.Bar{}, failFor: "BBB"}
	c := suite.client(p, "bars.parquet")

	_, err := c.Download(context.Background(), DownloadParams{Symbols: []string{"AAA", "BBB"}, StartDate: suite.start, EndDate: suite.end})
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))

	_, err = c.Download(context.Background(), DownloadParams{Symbols: []string{"AAA"}, StartDate: suite.start, EndDate: suite.end})
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))

	_, err = c.Download(context.Background(), DownloadParams{Symbols: nil, StartDate: suite.start, EndDate: suite.end})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = c.Download(context.Background(), DownloadParams{Symbols: []string{"AAA"}, StartDate: suite.end, EndDate: suite.start})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
