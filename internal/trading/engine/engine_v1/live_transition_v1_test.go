package engine_v1

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/trading/broker"
	"github.com/rxtech-lab/argo-sweep/internal/trading/engine"
	"github.com/rxtech-lab/argo-sweep/internal/trading/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/mocks"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LiveTransitionV1TestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	cursor   *mocks.MockCursor
	strategy *mocks.MockStrategy
	notifier *mocks.MockNotifier
	gateway  *broker.PaperGateway
	tradeLog *writers.TradeLogWriter
	log      *logger.Logger
	now      time.Time
	sleeps   []time.Duration
	messages []string
}

func TestLiveTransitionV1Suite(t *testing.T) {
	suite.Run(t, new(LiveTransitionV1TestSuite))
}

func (suite *LiveTransitionV1TestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.cursor = mocks.NewMockCursor(suite.ctrl)
	suite.strategy = mocks.NewMockStrategy(suite.ctrl)
	suite.notifier = mocks.NewMockNotifier(suite.ctrl)
	suite.log = logger.NewNopLogger()
	suite.gateway = broker.NewPaperGateway(1000, map[string]float64{"AAA": 2}, suite.log)
	suite.tradeLog = writers.NewTradeLogWriter(filepath.Join(suite.T().TempDir(), "trade_log.csv"))
	suite.now = time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC)
	suite.sleeps = nil
	suite.messages = nil

	suite.cursor.EXPECT().Symbols().Return([]string{"AAA", "BBB"}).AnyTimes()
	suite.strategy.EXPECT().Name().Return("scripted").AnyTimes()
	suite.notifier.EXPECT().SendText(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg string) error {
		suite.messages = append(suite.messages, msg)

		return nil
	}).AnyTimes()
}

func (suite *LiveTransitionV1TestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *LiveTransitionV1TestSuite) clock() time.Time {
	return suite.now
}

func (suite *LiveTransitionV1TestSuite) sleep(_ context.Context, d time.Duration) error {
	suite.sleeps = append(suite.sleeps, d)
	suite.now = suite.now.Add(d)

	return nil
}

func (suite *LiveTransitionV1TestSuite) newTransition(config engine.LiveConfig) *LiveTransitionV1 {
	return NewLiveTransitionV1(
		suite.cursor,
		suite.strategy,
		suite.gateway,
		suite.tradeLog,
		suite.notifier,
		config,
		suite.clock,
		suite.sleep,
		suite.log,
	)
}

func (suite *LiveTransitionV1TestSuite) snapshot() types.PriceSnapshot {
	return types.PriceSnapshot{
		Date:    time.Time{},
		Symbols: []string{"AAA", "BBB"},
		Open:    []float64{333.33, 50},
	}
}

func (suite *LiveTransitionV1TestSuite) TestPlacesFirstNonEmptyBatch() {
	suite.strategy.EXPECT().SetPortfolio(1000.0, map[string]float64{"AAA": 2, "BBB": 0}).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), []string{"AAA", "BBB"}).Return(suite.snapshot(), nil).Times(2)

	gomock.InOrder(
		suite.strategy.EXPECT().PendingOrders(gomock.Any()).Return(types.PendingOrders{}, nil),
		suite.strategy.EXPECT().PendingOrders(gomock.Any()).DoAndReturn(func(s types.PriceSnapshot) (types.PendingOrders, error) {
			suite.Equal(suite.now, s.Date)

			return types.PendingOrders{
				Buy: []types.OrderInstruction{
					{InstrumentID: 0, Side: types.PurchaseTypeBuy, LimitPrice: 333.331, NotionalAmount: 1000},
				},
				Sell: []types.OrderInstruction{
					{InstrumentID: 1, Symbol: "BBB", Side: types.PurchaseTypeSell, LimitPrice: 40, NotionalAmount: 100},
				},
			}, nil
		}),
	)

	var stopped engine.Outcome
	onStop := engine.OnLiveStopCallback(func(outcome engine.Outcome, _ error) { stopped = outcome })

	var noSignals []int
	onNoSignal := engine.OnNoSignalCallback(func(attempt int, _ time.Time) error {
		noSignals = append(noSignals, attempt)

		return nil
	})

	outcome, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{
		OnLiveStart:    nil,
		OnNoSignal:     &onNoSignal,
		OnOrdersPlaced: nil,
		OnLiveStop:     &onStop,
	})
	suite.Require().NoError(err)
	suite.Equal(engine.OutcomeOrdersPlaced, outcome)
	suite.Equal(engine.OutcomeOrdersPlaced, stopped)
	suite.Equal([]int{1}, noSignals)
	suite.Equal([]time.Duration{600 * time.Second}, suite.sleeps)

	placed := suite.gateway.OpenOrders()
	suite.Require().Len(placed, 2)
	suite.Equal("AAA", placed[0].Symbol)
	suite.Equal(types.PurchaseTypeBuy, placed[0].Side)
	suite.Equal(3.0, placed[0].Quantity)
	suite.Equal(333.33, placed[0].Price)
	suite.Equal("BBB", placed[1].Symbol)
	suite.Equal(types.PurchaseTypeSell, placed[1].Side)
	suite.Equal(2.5, placed[1].Quantity)

	suite.Require().Len(suite.messages, 2)
	suite.Contains(suite.messages[0], "Sin señales aún. Reintentando en 10 minutos")
	suite.Contains(suite.messages[1], "🟢 *COMPRAR*\n• 3 acciones de AAA a $333.33")
	suite.Contains(suite.messages[1], "🔴 *VENDER*\n• 2.50 acciones de BBB a $40.00")

	content, err := os.ReadFile(suite.tradeLog.GetOutputPath())
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	suite.Equal([]string{
		"timestamp,symbol,action,quantity,price",
		"2024-03-04 16:10:00,AAA,BUY,3,333.33",
		"2024-03-04 16:10:00,BBB,SELL,2.5,40",
	}, lines)
}

func (suite *LiveTransitionV1TestSuite) TestCutoffReachedWithoutSignal() {
	suite.now = time.Date(2024, 3, 4, 17, 35, 0, 0, time.UTC)

	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), gomock.Any()).Return(suite.snapshot(), nil).Times(3)
	suite.strategy.EXPECT().PendingOrders(gomock.Any()).Return(types.PendingOrders{}, nil).Times(3)

	outcome, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{})
	suite.Require().NoError(err)
	suite.Equal(engine.OutcomeCutoffReached, outcome)
	suite.Len(suite.sleeps, 3)
	suite.Empty(suite.gateway.PlacedOrders())

	_, err = os.Stat(suite.tradeLog.GetOutputPath())
	suite.True(os.IsNotExist(err))
}

func (suite *LiveTransitionV1TestSuite) TestStartAfterCutoffPollsNothing() {
	suite.now = time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)

	outcome, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{})
	suite.Require().NoError(err)
	suite.Equal(engine.OutcomeCutoffReached, outcome)
	suite.Empty(suite.sleeps)
}

func (suite *LiveTransitionV1TestSuite) TestCancelsStaleOrdersBeforePolling() {
	suite.Require().NoError(suite.gateway.PlaceBuyLimit(context.Background(), "AAA", 1, 10))
	suite.now = time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC)

	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)

	var started []string
	onStart := engine.OnLiveStartCallback(func(symbols []string, cash float64, _ map[string]float64) error {
		started = symbols
		suite.Equal(1000.0, cash)

		return nil
	})

	_, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{
		OnLiveStart:    &onStart,
		OnNoSignal:     nil,
		OnOrdersPlaced: nil,
		OnLiveStop:     nil,
	})
	suite.Require().NoError(err)
	suite.Empty(suite.gateway.OpenOrders())
	suite.Equal([]string{"AAA", "BBB"}, started)
}

func (suite *LiveTransitionV1TestSuite) TestBuyBelowOneUnitIsSkipped() {
	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), gomock.Any()).Return(suite.snapshot(), nil)
	suite.strategy.EXPECT().PendingOrders(gomock.Any()).Return(types.PendingOrders{
		Buy: []types.OrderInstruction{
			{InstrumentID: 0, Symbol: "AAA", Side: types.PurchaseTypeBuy, LimitPrice: 333.33, NotionalAmount: 100},
		},
		Sell: nil,
	}, nil)

	outcome, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{})
	suite.Require().NoError(err)
	suite.Equal(engine.OutcomeOrdersPlaced, outcome)
	suite.Empty(suite.gateway.PlacedOrders())
	suite.Contains(suite.messages[0], "No se han generado órdenes para hoy")
}

func (suite *LiveTransitionV1TestSuite) TestStrategyErrorAborts() {
	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), gomock.Any()).Return(suite.snapshot(), nil)
	suite.strategy.EXPECT().PendingOrders(gomock.Any()).Return(types.PendingOrders{}, errors.New(errors.ErrCodeUnknown, "boom"))

	var stopErr error
	onStop := engine.OnLiveStopCallback(func(_ engine.Outcome, err error) { stopErr = err })

	_, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{
		OnLiveStart:    nil,
		OnNoSignal:     nil,
		OnOrdersPlaced: nil,
		OnLiveStop:     &onStop,
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyRuntimeError))
	suite.Equal(err, stopErr)
}

func (suite *LiveTransitionV1TestSuite) TestRealTimeFailurePropagates() {
	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), gomock.Any()).
		Return(types.PriceSnapshot{}, errors.New(errors.ErrCodeRealTimeDataFailed, "feed down"))

	_, err := suite.newTransition(engine.DefaultLiveConfig()).Run(context.Background(), engine.LiveCallbacks{})
	suite.Require().Error(err)
	suite.True(errors.IsDataUnavailable(err))
}

func (suite *LiveTransitionV1TestSuite) TestCancelledWhileSleeping() {
	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), gomock.Any()).Return(suite.snapshot(), nil)
	suite.strategy.EXPECT().PendingOrders(gomock.Any()).Return(types.PendingOrders{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transition := NewLiveTransitionV1(
		suite.cursor,
		suite.strategy,
		suite.gateway,
		suite.tradeLog,
		suite.notifier,
		engine.DefaultLiveConfig(),
		suite.clock,
		ContextSleep,
		suite.log,
	)

	_, err := transition.Run(ctx, engine.LiveCallbacks{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCancelled))
}

func (suite *LiveTransitionV1TestSuite) TestInvalidConfig() {
	config := engine.LiveConfig{Cutoff: "25:99", PollInterval: time.Minute}

	_, err := suite.newTransition(config).Run(context.Background(), engine.LiveCallbacks{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *LiveTransitionV1TestSuite) TestAcceptedOrdersAreLoggedWhenALaterOrderFails() {
	gateway := mocks.NewMockGateway(suite.ctrl)
	gateway.EXPECT().CashBalance(gomock.Any()).Return(1000.0, nil).AnyTimes()
	gateway.EXPECT().CurrentPositions(gomock.Any(), gomock.Any()).Return(map[string]float64{"AAA": 0, "BBB": 2}, nil).AnyTimes()
	gateway.EXPECT().CancelAllPendingOrders(gomock.Any()).Return(nil).AnyTimes()
	gateway.EXPECT().PlaceBuyLimit(gomock.Any(), "AAA", 3.0, 333.33).Return(nil)
	gateway.EXPECT().PlaceSellLimit(gomock.Any(), "BBB", 2.0, 50.0).Return(errors.New(errors.ErrCodeOrderFailed, "rejected"))

	suite.strategy.EXPECT().SetPortfolio(gomock.Any(), gomock.Any()).Return(nil)
	suite.cursor.EXPECT().RealTimeView(gomock.Any(), gomock.Any()).Return(suite.snapshot(), nil)
	suite.strategy.EXPECT().PendingOrders(gomock.Any()).Return(types.PendingOrders{
		Buy: []types.OrderInstruction{
			{InstrumentID: 0, Symbol: "AAA", Side: types.PurchaseTypeBuy, LimitPrice: 333.33, NotionalAmount: 1000},
		},
		Sell: []types.OrderInstruction{
			{InstrumentID: 1, Symbol: "BBB", Side: types.PurchaseTypeSell, LimitPrice: 50, NotionalAmount: 100},
		},
	}, nil)

	transition := NewLiveTransitionV1(
		suite.cursor,
		suite.strategy,
		gateway,
		suite.tradeLog,
		suite.notifier,
		engine.DefaultLiveConfig(),
		suite.clock,
		suite.sleep,
		suite.log,
	)

	_, err := transition.Run(context.Background(), engine.LiveCallbacks{})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeOrderFailed))

	content, err := os.ReadFile(suite.tradeLog.GetOutputPath())
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	suite.Equal([]string{
		"timestamp,symbol,action,quantity,price",
		"2024-03-04 16:00:00,AAA,BUY,3,333.33",
	}, lines)
}
