package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	backtest "github.com/rxtech-lab/argo-sweep/internal/backtest/engine"
	backtest_v1 "github.com/rxtech-lab/argo-sweep/internal/backtest/engine/engine_v1"
	valuationWriters "github.com/rxtech-lab/argo-sweep/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-sweep/internal/backtest/portfolio"
	"github.com/rxtech-lab/argo-sweep/internal/backtest/portfolio/commission_fee"
	"github.com/rxtech-lab/argo-sweep/internal/config"
	"github.com/rxtech-lab/argo-sweep/internal/ledger"
	"github.com/rxtech-lab/argo-sweep/internal/lifecycle"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/market"
	"github.com/rxtech-lab/argo-sweep/internal/notifier"
	"github.com/rxtech-lab/argo-sweep/internal/report"
	"github.com/rxtech-lab/argo-sweep/internal/session"
	"github.com/rxtech-lab/argo-sweep/internal/strategy"
	"github.com/rxtech-lab/argo-sweep/internal/sweep"
	"github.com/rxtech-lab/argo-sweep/internal/trading/broker"
	trading "github.com/rxtech-lab/argo-sweep/internal/trading/engine"
	trading_v1 "github.com/rxtech-lab/argo-sweep/internal/trading/engine/engine_v1"
	tradeLogWriters "github.com/rxtech-lab/argo-sweep/internal/trading/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata"
	"github.com/rxtech-lab/argo-sweep/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// valuationFile is the per-run export of the valuation curve.
const valuationFile = "valuations.parquet"

// app carries what every command shares.
type app struct {
	log   *logger.Logger
	clock func() time.Time
	// newNotifier is replaced in tests.
	newNotifier func(cfg config.Config, log *logger.Logger) notifier.Notifier
}

func newApp(log *logger.Logger) *app {
	return &app{
		log:         log,
		clock:       time.Now,
		newNotifier: newNotifier,
	}
}

// newNotifier sends to Telegram when credentials are configured and to the
// log otherwise. Delivery failures never reach the caller.
func newNotifier(cfg config.Config, log *logger.Logger) notifier.Notifier {
	credentials := cfg.TelegramCredentials()
	if credentials.IsNone() {
		log.Info("Telegram credentials not configured, notifications go to the log")

		return notifier.NewLogNotifier(log)
	}

	telegram := credentials.Unwrap()

	return notifier.NewBestEffort(notifier.NewTelegram(telegram.Token, telegram.ChatID), log)
}

// loadConfig reads path and applies the key=value overrides on top.
func loadConfig(path string, overrides map[string]string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if len(overrides) > 0 {
		if err := cfg.ApplyOverrides(overrides); err != nil {
			return config.Config{}, err
		}
	}

	return cfg, nil
}

// optionalConfig loads path, or the ambient defaults when path is empty.
func optionalConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Ambient(), nil
	}

	return loadConfig(path, nil)
}

// localClock returns the app clock in the configured zone.
func (a *app) localClock(cfg config.Config) (func() time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return func() time.Time {
		return a.clock().In(loc)
	}, nil
}

// simulation is one fully wired backtest.
type simulation struct {
	cursor     *market.DailyCursor
	strategy   *strategy.Momentum
	loop       *backtest_v1.ExecutionLoopV1
	valuations *valuationWriters.ValuationWriter
	ledger     *ledger.Ledger
	session    *session.Manager
}

// buildSimulation loads the bars of the configured window and wires the
// loop over them. realtime may be nil for pure backtests.
func (a *app) buildSimulation(ctx context.Context, cfg config.Config, realtime market.RealTimeSource, log *logger.Logger) (*simulation, error) {
	clock, err := a.localClock(cfg)
	if err != nil {
		return nil, err
	}

	start, end, err := cfg.Window(clock())
	if err != nil {
		return nil, err
	}

	loader, err := market.NewBarLoader(log)
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	bars, err := loader.Load(ctx, cfg.Market.DataPath, cfg.Market.Symbols, start, end)
	if err != nil {
		return nil, err
	}

	cursor, err := market.NewDailyCursor(cfg.Market.Symbols, bars, realtime)
	if err != nil {
		return nil, err
	}

	momentum, err := strategy.NewMomentum(cfg.Strategy, cfg.Backtest.InitialMoney, log)
	if err != nil {
		return nil, err
	}

	simulator := portfolio.NewSimulator(
		cfg.Market.Symbols,
		cfg.Backtest.InitialMoney,
		commission_fee.GetCommissionFeeHandler(cfg.Backtest.CommissionBroker),
		cfg.Backtest.DecimalPrecision,
		log,
	)

	sessions := session.NewManager(cfg.ResultsDir, session.Clock(clock), log)
	if err := sessions.Start(); err != nil {
		return nil, err
	}

	valuations := valuationWriters.NewValuationWriter(sessions.FilePath(valuationFile))
	if err := valuations.Initialize(); err != nil {
		return nil, err
	}

	loop := backtest_v1.NewExecutionLoopV1(cursor, momentum, simulator, cfg.Strategy, log)
	loop.AttachEvaluator(valuations)

	return &simulation{
		cursor:     cursor,
		strategy:   momentum,
		loop:       loop,
		valuations: valuations,
		ledger:     ledger.NewLedger(cfg.LedgerPath, clock, log),
		session:    sessions,
	}, nil
}

// close exports the valuation curve and logs its stats.
func (s *simulation) close(log *logger.Logger) {
	if stats, err := s.valuations.Stats(); err == nil && stats.Days > 0 {
		log.Info("Valuation curve",
			zap.Int("days", stats.Days),
			zap.Float64("first_value", stats.FirstValue),
			zap.Float64("last_value", stats.LastValue),
			zap.Float64("max_drawdown", stats.MaxDrawdown),
			zap.String("path", s.valuations.GetOutputPath()),
		)
	}

	if err := s.valuations.Close(); err != nil {
		log.Warn("Failed to close valuation writer", zap.Error(err))
	}
}

// simulate runs one backtest and records it to the ledger. It is what every
// sweep participant executes.
func (a *app) simulate(ctx context.Context, configPath string, runID string, overrides map[string]string) (lifecycle.Result, error) {
	log := a.log
	if runID != "" {
		log = &logger.Logger{Logger: a.log.With(zap.String("run_id", runID))}
	}

	cfg, err := loadConfig(configPath, overrides)
	if err != nil {
		return lifecycle.Result{}, err
	}

	sim, err := a.buildSimulation(ctx, cfg, nil, log)
	if err != nil {
		return lifecycle.Result{}, err
	}
	defer sim.close(log)

	pipeline := lifecycle.NewPipeline(sim.loop, sim.ledger, notifier.NewLogNotifier(log), log,
		lifecycle.WithBacktestCallbacks(progressCallbacks(log)),
	)

	return pipeline.Run(ctx)
}

// progressCallbacks logs the start and the end of a backtest.
func progressCallbacks(log *logger.Logger) backtest.LifecycleCallbacks {
	onStart := backtest.OnRunStartCallback(func(symbols []string, initialMoney float64) error {
		log.Info("Backtest started", zap.Int("symbols", len(symbols)), zap.Float64("initial_money", initialMoney))

		return nil
	})
	onEnd := backtest.OnRunEndCallback(func(run types.SimulationRun, err error) {
		if err != nil {
			return
		}

		log.Info("Backtest finished",
			zap.Time("final_date", run.FinalDate),
			zap.Float64("final_money", run.FinalMoney),
			zap.Float64("total_commission", run.TotalCommission),
		)
	})

	return backtest.LifecycleCallbacks{
		OnRunStart:        &onStart,
		OnOrdersScheduled: nil,
		OnDayEnd:          nil,
		OnRunEnd:          &onEnd,
	}
}

// newGateway builds the configured broker account.
func newGateway(cfg config.Config, log *logger.Logger) (broker.Gateway, error) {
	switch cfg.Broker.Kind {
	case broker.KindBinance:
		return broker.NewBinanceGateway(cfg.Broker.Binance, log)
	case broker.KindPaper, "":
		return broker.NewPaperGateway(cfg.Broker.PaperCash, nil, log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported broker: %s", cfg.Broker.Kind)
	}
}

// live runs the backtest, then polls the live market with the same strategy
// until orders are placed or the cutoff passes.
func (a *app) live(ctx context.Context, configPath string) (lifecycle.Result, error) {
	cfg, err := loadConfig(configPath, nil)
	if err != nil {
		return lifecycle.Result{}, err
	}

	clock, err := a.localClock(cfg)
	if err != nil {
		return lifecycle.Result{}, err
	}

	realtime := market.NewBinanceRealTimeSource(cfg.Broker.Binance.ApiKey, cfg.Broker.Binance.SecretKey)

	sim, err := a.buildSimulation(ctx, cfg, realtime, a.log)
	if err != nil {
		return lifecycle.Result{}, err
	}
	defer sim.close(a.log)

	n := a.newNotifier(cfg, a.log)

	info, err := broker.GetInfo(string(cfg.Broker.Kind))
	if err != nil {
		return lifecycle.Result{}, err
	}

	connect := func(_ context.Context) (trading.LiveTransition, error) {
		gateway, err := newGateway(cfg, a.log)
		if err != nil {
			return nil, err
		}

		tradeLog := tradeLogWriters.NewTradeLogWriter(cfg.TradeLogPath)

		return trading_v1.NewLiveTransitionV1(sim.cursor, sim.strategy, gateway, tradeLog, n, cfg.Live, clock, nil, a.log), nil
	}

	pipeline := lifecycle.NewPipeline(sim.loop, sim.ledger, n, a.log,
		lifecycle.WithBacktestCallbacks(progressCallbacks(a.log)),
		lifecycle.WithLive(info.Name, connect),
		lifecycle.WithRenderer(report.NewRenderer(sim.session.RunPath(), a.log)),
	)

	return pipeline.Run(ctx)
}

// sweepOptions are the flags of `sweep run`.
type sweepOptions struct {
	configPath  string
	configsPath string
	workers     int
	inProcess   bool
	binary      string
}

// runSweep launches every config of configsPath and reports the batch.
func (a *app) runSweep(ctx context.Context, opts sweepOptions) ([]types.SweepResult, error) {
	cfg, err := loadConfig(opts.configPath, nil)
	if err != nil {
		return nil, err
	}

	configs, err := sweep.LoadConfigs(opts.configsPath)
	if err != nil {
		return nil, err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Sweep.Workers
	}

	var launcher sweep.Launcher

	if opts.inProcess {
		launcher = sweep.NewInProcessLauncher(func(ctx context.Context, runID string, overrides map[string]string) error {
			_, err := a.simulate(ctx, opts.configPath, runID, overrides)

			return err
		})
	} else {
		launcher, err = sweep.NewExecLauncher(opts.binary, opts.configPath, a.log)
		if err != nil {
			return nil, err
		}
	}

	clock, err := a.localClock(cfg)
	if err != nil {
		return nil, err
	}

	renderer := report.NewRenderer(filepath.Join(cfg.ResultsDir, "sweeps", clock().Format("2006-01-02_150405")), a.log)
	runner := sweep.NewRunner(launcher, workers, a.newNotifier(cfg, a.log), ledger.NewLedger(cfg.LedgerPath, clock, a.log), renderer, a.log,
		sweep.WithClock(clock),
	)

	return runner.Run(ctx, configs)
}

// generateSweep writes the cartesian product of the axes to out.
func (a *app) generateSweep(ctx context.Context, configPath string, out string, args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New(errors.ErrCodeMissingParameter, "at least one key=v1,v2 axis is required")
	}

	axes := make([]sweep.Axis, 0, len(args))

	for _, arg := range args {
		axis, err := sweep.ParseAxis(arg)
		if err != nil {
			return 0, err
		}

		axes = append(axes, axis)
	}

	combos := sweep.Generate(axes)
	if err := sweep.WriteConfigs(out, combos); err != nil {
		return 0, err
	}

	message := sweep.GenerateMessage(len(combos), out)
	a.log.Info("Sweep configurations written", zap.Int("count", len(combos)), zap.String("path", out))

	cfg, err := optionalConfig(configPath)
	if err != nil {
		a.log.Warn("Config not loaded, generation message stays local", zap.Error(err))

		return len(combos), nil
	}

	_ = a.newNotifier(cfg, a.log).SendText(ctx, message)

	return len(combos), nil
}

// summaryOptions are the flags of `summary`.
type summaryOptions struct {
	configPath string
	ledgerPath string
	lastN      int
	charts     bool
	chartsDir  string
}

// summary reads the ledger and returns the report text and chart paths.
func (a *app) summary(opts summaryOptions) (string, []string, error) {
	cfg, err := optionalConfig(opts.configPath)
	if err != nil {
		return "", nil, err
	}

	clock, err := a.localClock(cfg)
	if err != nil {
		return "", nil, err
	}

	path := opts.ledgerPath
	if path == "" {
		path = cfg.LedgerPath
	}

	l := ledger.NewLedger(path, clock, a.log)

	summaryReport, err := l.Summarize(opts.lastN)
	if err != nil {
		return "", nil, err
	}

	text := ledger.FormatSummary(summaryReport)

	if !opts.charts {
		return text, nil, nil
	}

	records, err := l.Read()
	if err != nil {
		return "", nil, err
	}

	dir := opts.chartsDir
	if dir == "" {
		dir = cfg.ResultsDir
	}

	charts, err := report.NewRenderer(dir, a.log).Render(records)
	if err != nil {
		return "", nil, err
	}

	return text, charts, nil
}

// downloadOptions are the flags of `download`.
type downloadOptions struct {
	configPath string
	provider   string
	symbols    []string
	start      time.Time
	end        time.Time
	out        string
}

// download fetches daily bars into a file the simulator can read.
func (a *app) download(ctx context.Context, opts downloadOptions) (string, error) {
	cfg, err := optionalConfig(opts.configPath)
	if err != nil {
		return "", err
	}

	symbols := opts.symbols
	if len(symbols) == 0 {
		symbols = cfg.Market.Symbols
	}

	out := opts.out
	if out == "" {
		out = cfg.Market.DataPath
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(opts.provider),
		OutputPath:    out,
		PolygonApiKey: cfg.PolygonAPIKey,
	}, a.log)
	if err != nil {
		return "", err
	}

	return client.Download(ctx, marketdata.DownloadParams{
		Symbols:   symbols,
		StartDate: opts.start,
		EndDate:   opts.end,
	})
}

// writeSchema writes the config JSON schema to path, or stdout when path is empty.
func writeSchema(path string) error {
	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.WriteString(schema + "\n")

		return err
	}

	if err := os.WriteFile(path, []byte(schema+"\n"), 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write schema to %s", path)
	}

	return nil
}
