package broker

import (
	"context"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/utils"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// BinanceDecimalPrecision is the quantity precision used when the symbol's
// LOT_SIZE filter is not known.
const BinanceDecimalPrecision = 8

// CreateOrderService is the subset of binance.CreateOrderService in use.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	Price(price string) CreateOrderService
	TimeInForce(tif binance.TimeInForceType) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// GetAccountService is the subset of binance.GetAccountService in use.
type GetAccountService interface {
	Do(ctx context.Context) (*binance.Account, error)
}

// ListOpenOrdersService is the subset of binance.ListOpenOrdersService in use.
type ListOpenOrdersService interface {
	Do(ctx context.Context) ([]*binance.Order, error)
}

// CancelOpenOrdersService is the subset of binance.CancelOpenOrdersService in use.
type CancelOpenOrdersService interface {
	Symbol(symbol string) CancelOpenOrdersService
	Do(ctx context.Context) error
}

// BinanceClient abstracts the binance client for testing.
type BinanceClient interface {
	NewCreateOrderService() CreateOrderService
	NewGetAccountService() GetAccountService
	NewListOpenOrdersService() ListOpenOrdersService
	NewCancelOpenOrdersService() CancelOpenOrdersService
}

type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

func (r *realBinanceClient) NewListOpenOrdersService() ListOpenOrdersService {
	return &realListOpenOrdersService{service: r.client.NewListOpenOrdersService()}
}

func (r *realBinanceClient) NewCancelOpenOrdersService() CancelOpenOrdersService {
	return &realCancelOpenOrdersService{service: r.client.NewCancelOpenOrdersService()}
}

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Price(price string) CreateOrderService {
	s.service = s.service.Price(price)

	return s
}

func (s *realCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	s.service = s.service.TimeInForce(tif)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *binance.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*binance.Account, error) {
	return s.service.Do(ctx)
}

type realListOpenOrdersService struct {
	service *binance.ListOpenOrdersService
}

func (s *realListOpenOrdersService) Do(ctx context.Context) ([]*binance.Order, error) {
	return s.service.Do(ctx)
}

type realCancelOpenOrdersService struct {
	service *binance.CancelOpenOrdersService
}

func (s *realCancelOpenOrdersService) Symbol(symbol string) CancelOpenOrdersService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCancelOpenOrdersService) Do(ctx context.Context) error {
	_, err := s.service.Do(ctx)

	return err
}

// BinanceConfig holds the credentials and market of a binance account.
type BinanceConfig struct {
	ApiKey     string `yaml:"api_key" json:"apiKey" jsonschema:"title=API Key,description=Binance API key" validate:"required"`
	SecretKey  string `yaml:"secret_key" json:"secretKey" jsonschema:"title=Secret Key,description=Binance API secret key" validate:"required"`
	BaseURL    string `yaml:"base_url" json:"baseUrl,omitempty" jsonschema:"title=Base URL,description=Overrides the API endpoint" validate:"omitempty,url"`
	Testnet    bool   `yaml:"testnet" json:"testnet" jsonschema:"title=Testnet,description=Trade on the Binance spot testnet"`
	QuoteAsset string `yaml:"quote_asset" json:"quoteAsset" jsonschema:"title=Quote asset,default=USDT" validate:"required"`
}

// Validate checks the configuration.
func (c *BinanceConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance broker config", err)
	}

	return nil
}

// BinanceGateway is a Gateway backed by a binance spot account. Symbols are
// pairs such as BTCUSDT whose quote side is the configured quote asset.
type BinanceGateway struct {
	client           BinanceClient
	quoteAsset       string
	decimalPrecision int
	logger           *logger.Logger
}

// NewBinanceGateway connects to binance with config.
func NewBinanceGateway(config BinanceConfig, log *logger.Logger) (*BinanceGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Testnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(config.ApiKey, config.SecretKey)
	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return NewBinanceGatewayWithClient(&realBinanceClient{client: client}, config.QuoteAsset, log), nil
}

// NewBinanceGatewayWithClient creates a gateway over an existing client.
func NewBinanceGatewayWithClient(client BinanceClient, quoteAsset string, log *logger.Logger) *BinanceGateway {
	return &BinanceGateway{
		client:           client,
		quoteAsset:       quoteAsset,
		decimalPrecision: BinanceDecimalPrecision,
		logger:           log.Named("binance_gateway"),
	}
}

// PlaceBuyLimit implements Gateway.
func (b *BinanceGateway) PlaceBuyLimit(ctx context.Context, symbol string, quantity float64, price float64) error {
	return b.placeLimit(ctx, symbol, binance.SideTypeBuy, quantity, price)
}

// PlaceSellLimit implements Gateway.
func (b *BinanceGateway) PlaceSellLimit(ctx context.Context, symbol string, quantity float64, price float64) error {
	return b.placeLimit(ctx, symbol, binance.SideTypeSell, quantity, price)
}

// CashBalance implements Gateway.
func (b *BinanceGateway) CashBalance(ctx context.Context) (float64, error) {
	balances, err := b.balances(ctx)
	if err != nil {
		return 0, err
	}

	return balances[b.quoteAsset], nil
}

// CurrentPositions implements Gateway. Free and locked balances both count.
func (b *BinanceGateway) CurrentPositions(ctx context.Context, symbols []string) (map[string]float64, error) {
	balances, err := b.totalBalances(ctx)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		positions[symbol] = balances[b.baseAsset(symbol)]
	}

	return positions, nil
}

// CancelAllPendingOrders implements Gateway.
func (b *BinanceGateway) CancelAllPendingOrders(ctx context.Context) error {
	orders, err := b.client.NewListOpenOrdersService().Do(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBrokerUnavailable, "failed to list open orders on Binance", err)
	}

	symbols := map[string]bool{}
	for _, order := range orders {
		symbols[order.Symbol] = true
	}

	for symbol := range symbols {
		if err := b.client.NewCancelOpenOrdersService().Symbol(symbol).Do(ctx); err != nil {
			return errors.Wrapf(errors.ErrCodeOrderFailed, err, "failed to cancel open orders for %s on Binance", symbol)
		}
	}

	b.logger.Info("Cancelled open orders", zap.Int("orders", len(orders)), zap.Int("symbols", len(symbols)))

	return nil
}

//nolint:funcorder // helper method used by PlaceBuyLimit and PlaceSellLimit
func (b *BinanceGateway) placeLimit(ctx context.Context, symbol string, side binance.SideType, quantity float64, price float64) error {
	if price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidOrder, "limit price must be positive, got %v", price)
	}

	rounded := utils.RoundToDecimalPrecision(quantity, b.decimalPrecision)
	if rounded <= 0 {
		return errors.Newf(errors.ErrCodeInvalidOrder,
			"order quantity %.8f is too small after rounding to %d decimal places", quantity, b.decimalPrecision)
	}

	_, err := b.client.NewCreateOrderService().
		Symbol(symbol).
		Side(side).
		Type(binance.OrderTypeLimit).
		Quantity(strconv.FormatFloat(rounded, 'f', b.decimalPrecision, 64)).
		Price(strconv.FormatFloat(price, 'f', -1, 64)).
		TimeInForce(binance.TimeInForceTypeGTC).
		Do(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeOrderFailed, err, "failed to place %s limit order for %s on Binance", side, symbol)
	}

	b.logger.Info("Limit order placed",
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("quantity", rounded),
		zap.Float64("price", price),
	)

	return nil
}

//nolint:funcorder // helper method used by CurrentPositions
func (b *BinanceGateway) baseAsset(symbol string) string {
	return strings.TrimSuffix(symbol, b.quoteAsset)
}

// balances returns the free balance per asset.
//
//nolint:funcorder // helper method used by CashBalance
func (b *BinanceGateway) balances(ctx context.Context) (map[string]float64, error) {
	return b.readBalances(ctx, false)
}

// totalBalances returns free plus locked balance per asset.
//
//nolint:funcorder // helper method used by CurrentPositions
func (b *BinanceGateway) totalBalances(ctx context.Context) (map[string]float64, error) {
	return b.readBalances(ctx, true)
}

//nolint:funcorder // helper method used by balances and totalBalances
func (b *BinanceGateway) readBalances(ctx context.Context, includeLocked bool) (map[string]float64, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrokerUnavailable, "failed to get account info from Binance", err)
	}

	out := make(map[string]float64, len(account.Balances))

	for _, balance := range account.Balances {
		free, err := strconv.ParseFloat(balance.Free, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeBrokerUnavailable, err, "invalid free balance for %s", balance.Asset)
		}

		total := free

		if includeLocked {
			locked, err := strconv.ParseFloat(balance.Locked, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeBrokerUnavailable, err, "invalid locked balance for %s", balance.Asset)
			}

			total += locked
		}

		out[balance.Asset] = total
	}

	return out, nil
}
