package marketdata

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/writer"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon binance"`
	OutputPath    string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Symbols   []string  `validate:"required,min=1,dive,required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client downloads daily bars for several symbols into one bar file readable by the simulator.
type Client struct {
	provider provider.Provider
	config   ClientConfig
	validate *validator.Validate
	progress io.Writer
	logger   *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, config.PolygonApiKey)
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(config, marketProvider, log), nil
}

// NewClientWithProvider creates a client on top of an existing provider.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider, log *logger.Logger) *Client {
	return &Client{
		provider: marketProvider,
		config:   config,
		validate: validator.New(),
		progress: os.Stderr,
		logger:   log.Named("marketdata"),
	}
}

// SetProgressWriter redirects the progress bar output.
func (c *Client) SetProgressWriter(w io.Writer) {
	c.progress = w
}

// Download fetches every symbol and writes all bars to the configured output path,
// returning the path written.
func (c *Client) Download(ctx context.Context, params DownloadParams) (path string, err error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if dir := filepath.Dir(c.config.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", dir)
		}
	}

	barWriter := writer.NewDuckDBWriter(c.config.OutputPath)
	if err := barWriter.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if cerr := barWriter.Close(); cerr != nil {
			c.logger.Warn("Failed to close bar writer", zap.Error(cerr))
		}
	}()

	bar := progressbar.NewOptions(len(params.Symbols),
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
	)

	for _, symbol := range params.Symbols {
		count, err := c.provider.Download(ctx, symbol, params.StartDate, params.EndDate, barWriter, nil)
		if err != nil {
			return "", err
		}

		c.logger.Info("Downloaded bars", zap.String("symbol", symbol), zap.Int("bars", count))
		_ = bar.Add(1)
	}

	_ = bar.Finish()

	if barWriter.Count() == 0 {
		return "", errors.Newf(errors.ErrCodeNoDataFound, "no bars returned for %d symbols", len(params.Symbols))
	}

	path, err = barWriter.Finalize()
	if err != nil {
		return "", err
	}

	c.logger.Info("Exported bars", zap.String("path", path), zap.Int("bars", barWriter.Count()))

	return path, nil
}
