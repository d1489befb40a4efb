package broker

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type fakeBinanceClient struct {
	created    []*fakeCreateOrderService
	createErr  error
	account    *binance.Account
	accountErr error
	openOrders []*binance.Order
	listErr    error
	cancelled  []string
	cancelErr  error
}

func (f *fakeBinanceClient) NewCreateOrderService() CreateOrderService {
	svc := &fakeCreateOrderService{err: f.createErr}
	f.created = append(f.created, svc)

	return svc
}

func (f *fakeBinanceClient) NewGetAccountService() GetAccountService {
	return &fakeGetAccountService{client: f}
}

func (f *fakeBinanceClient) NewListOpenOrdersService() ListOpenOrdersService {
	return &fakeListOpenOrdersService{client: f}
}

func (f *fakeBinanceClient) NewCancelOpenOrdersService() CancelOpenOrdersService {
	return &fakeCancelOpenOrdersService{client: f}
}

type fakeCreateOrderService struct {
	err      error
	symbol   string
	side     binance.SideType
	orderTyp binance.OrderType
	quantity string
	price    string
	tif      binance.TimeInForceType
	done     bool
}

func (m *fakeCreateOrderService) Symbol(symbol string) CreateOrderService {
	m.symbol = symbol

	return m
}

func (m *fakeCreateOrderService) Side(side binance.SideType) CreateOrderService {
	m.side = side

	return m
}

func (m *fakeCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	m.orderTyp = orderType

	return m
}

func (m *fakeCreateOrderService) Quantity(quantity string) CreateOrderService {
	m.quantity = quantity

	return m
}

func (m *fakeCreateOrderService) Price(price string) CreateOrderService {
	m.price = price

	return m
}

func (m *fakeCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	m.tif = tif

	return m
}

func (m *fakeCreateOrderService) Do(_ context.Context) (*binance.CreateOrderResponse, error) {
	m.done = true
	if m.err != nil {
		return nil, m.err
	}

	return &binance.CreateOrderResponse{Symbol: m.symbol}, nil
}

type fakeGetAccountService struct {
	client *fakeBinanceClient
}

func (m *fakeGetAccountService) Do(_ context.Context) (*binance.Account, error) {
	return m.client.account, m.client.accountErr
}

type fakeListOpenOrdersService struct {
	client *fakeBinanceClient
}

func (m *fakeListOpenOrdersService) Do(_ context.Context) ([]*binance.Order, error) {
	return m.client.openOrders, m.client.listErr
}

type fakeCancelOpenOrdersService struct {
	client *fakeBinanceClient
	symbol string
}

func (m *fakeCancelOpenOrdersService) Symbol(symbol string) CancelOpenOrdersService {
	m.symbol = symbol

	return m
}

func (m *fakeCancelOpenOrdersService) Do(_ context.Context) error {
	if m.client.cancelErr != nil {
		return m.client.cancelErr
	}

	m.client.cancelled = append(m.client.cancelled, m.symbol)

	return nil
}

type BinanceGatewayTestSuite struct {
	suite.Suite
	client  *fakeBinanceClient
	gateway *BinanceGateway
}

func TestBinanceGatewaySuite(t *testing.T) {
	suite.Run(t, new(BinanceGatewayTestSuite))
}

func (s *BinanceGatewayTestSuite) SetupTest() {
	s.client = &fakeBinanceClient{
		account: &binance.Account{
			Balances: []binance.Balance{
				{Asset: "USDT", Free: "1500.5", Locked: "100"},
				{Asset: "BTC", Free: "0.25", Locked: "0.05"},
				{Asset: "ETH", Free: "0", Locked: "0"},
			},
		},
	}
	s.gateway = NewBinanceGatewayWithClient(s.client, "USDT", logger.NewNopLogger())
}

func (s *BinanceGatewayTestSuite) TestPlaceBuyLimit() {
	err := s.gateway.PlaceBuyLimit(context.Background(), "BTCUSDT", 3, 64123.45)
	s.Require().NoError(err)

	s.Require().Len(s.client.created, 1)
	order := s.client.created[0]
	s.True(order.done)
	s.Equal("BTCUSDT", order.symbol)
	s.Equal(binance.SideTypeBuy, order.side)
	s.Equal(binance.OrderTypeLimit, order.orderTyp)
	s.Equal(binance.TimeInForceTypeGTC, order.tif)
	s.Equal("3.00000000", order.quantity)
	s.Equal("64123.45", order.price)
}

func (s *BinanceGatewayTestSuite) TestPlaceSellLimitKeepsFraction() {
	err := s.gateway.PlaceSellLimit(context.Background(), "BTCUSDT", 0.123456789, 70000)
	s.Require().NoError(err)

	order := s.client.created[0]
	s.Equal(binance.SideTypeSell, order.side)
	s.Equal("0.12345678", order.quantity)
	s.Equal("70000", order.price)
}

func (s *BinanceGatewayTestSuite) TestPlaceRejectsDust() {
	err := s.gateway.PlaceSellLimit(context.Background(), "BTCUSDT", 0.000000001, 70000)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
	s.Empty(s.client.created)

	err = s.gateway.PlaceBuyLimit(context.Background(), "BTCUSDT", 1, 0)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
}

func (s *BinanceGatewayTestSuite) TestPlaceFailure() {
	s.client.createErr = stderrors.New("insufficient balance")

	err := s.gateway.PlaceBuyLimit(context.Background(), "BTCUSDT", 1, 10)
	s.True(errors.HasCode(err, errors.ErrCodeOrderFailed))
	s.Contains(err.Error(), "insufficient balance")
}

func (s *BinanceGatewayTestSuite) TestCashBalanceIsFreeQuote() {
	cash, err := s.gateway.CashBalance(context.Background())
	s.Require().NoError(err)
	s.Equal(1500.5, cash)
}

func (s *BinanceGatewayTestSuite) TestCurrentPositions() {
	positions, err := s.gateway.CurrentPositions(context.Background(), []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"})
	s.Require().NoError(err)
	s.InDelta(0.30, positions["BTCUSDT"], 1e-12)
	s.Equal(0.0, positions["ETHUSDT"])
	s.Equal(0.0, positions["SOLUSDT"])
	s.Len(positions, 3)
}

func (s *BinanceGatewayTestSuite) TestAccountUnavailable() {
	s.client.accountErr = stderrors.New("timeout")

	_, err := s.gateway.CashBalance(context.Background())
	s.True(errors.IsDataUnavailable(err))

	_, err = s.gateway.CurrentPositions(context.Background(), []string{"BTCUSDT"})
	s.True(errors.IsDataUnavailable(err))
}

func (s *BinanceGatewayTestSuite) TestInvalidBalance() {
	s.client.account.Balances = []binance.Balance{{Asset: "USDT", Free: "abc", Locked: "0"}}

	_, err := s.gateway.CashBalance(context.Background())
	s.True(errors.HasCode(err, errors.ErrCodeBrokerUnavailable))
}

func (s *BinanceGatewayTestSuite) TestCancelAllPendingOrders() {
	s.client.openOrders = []*binance.Order{
		{Symbol: "BTCUSDT", OrderID: 1},
		{Symbol: "BTCUSDT", OrderID: 2},
		{Symbol: "ETHUSDT", OrderID: 3},
	}

	s.Require().NoError(s.gateway.CancelAllPendingOrders(context.Background()))
	s.ElementsMatch([]string{"BTCUSDT", "ETHUSDT"}, s.client.cancelled)
}

func (s *BinanceGatewayTestSuite) TestCancelFailures() {
	s.client.listErr = stderrors.New("down")
	s.True(errors.HasCode(s.gateway.CancelAllPendingOrders(context.Background()), errors.ErrCodeBrokerUnavailable))

	s.client.listErr = nil
	s.client.openOrders = []*binance.Order{{Symbol: "BTCUSDT"}}
	s.client.cancelErr = stderrors.New("rejected")
	s.True(errors.HasCode(s.gateway.CancelAllPendingOrders(context.Background()), errors.ErrCodeOrderFailed))
}

func (s *BinanceGatewayTestSuite) TestConfigValidate() {
	config := BinanceConfig{ApiKey: "k", SecretKey: "s", QuoteAsset: "USDT"}
	s.NoError(config.Validate())

	config.ApiKey = ""
	s.True(errors.HasCode(config.Validate(), errors.ErrCodeInvalidConfiguration))

	_, err := NewBinanceGateway(config, logger.NewNopLogger())
	s.Error(err)
}
