package lifecycle

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	backtest "github.com/rxtech-lab/argo-sweep/internal/backtest/engine"
	"github.com/rxtech-lab/argo-sweep/internal/ledger"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/notifier"
	"github.com/rxtech-lab/argo-sweep/internal/report"
	trading "github.com/rxtech-lab/argo-sweep/internal/trading/engine"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"go.uber.org/zap"
)

// Operator messages sent at the run milestones.
const (
	MessageLaunch    = "💵 *Lanzando estrategia en entorno real...*"
	MessageCompleted = "✅ *🟢 Operativa completada exitosamente*"
)

// MessageConnecting is sent before the broker gateway is opened.
func MessageConnecting(gateway string) string {
	return fmt.Sprintf("📡 *Conectando a %s...*", gateway)
}

// MessageConnected is sent once the broker gateway answered.
func MessageConnected(gateway string) string {
	return fmt.Sprintf("✅ *Conectado a %s.*", gateway)
}

// MessageError is sent when the run aborts.
func MessageError(err error) string {
	return fmt.Sprintf("❌ *Error durante la ejecución:* `%s`", err.Error())
}

// LiveConnector opens the broker gateway and returns the live session bound to it.
type LiveConnector func(ctx context.Context) (trading.LiveTransition, error)

// Result is what a finished run produced.
type Result struct {
	Run     types.SimulationRun
	Record  types.LedgerRecord
	Outcome optional.Option[trading.Outcome]
	State   State
}

// Pipeline runs the backtest, the optional live session and the reporting
// that follows, as one state machine.
type Pipeline struct {
	machine     *Machine
	loop        backtest.ExecutionLoop
	callbacks   backtest.LifecycleCallbacks
	connect     LiveConnector
	gatewayName string
	ledger      *ledger.Ledger
	renderer    *report.Renderer
	notifier    notifier.Notifier
	logger      *logger.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLive enables the live session. gatewayName is shown in the
// connection messages.
func WithLive(gatewayName string, connect LiveConnector) Option {
	return func(p *Pipeline) {
		p.gatewayName = gatewayName
		p.connect = connect
	}
}

// WithBacktestCallbacks sets the callbacks passed to the execution loop.
func WithBacktestCallbacks(callbacks backtest.LifecycleCallbacks) Option {
	return func(p *Pipeline) {
		p.callbacks = callbacks
	}
}

// WithRenderer enables the charts after a live run.
func WithRenderer(renderer *report.Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = renderer
	}
}

// NewPipeline creates a pipeline. Without WithLive it is a plain simulation:
// the backtest runs and is recorded, and nothing is sent to the operator.
func NewPipeline(loop backtest.ExecutionLoop, l *ledger.Ledger, n notifier.Notifier, log *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		machine:     NewMachine(),
		loop:        loop,
		callbacks:   backtest.LifecycleCallbacks{},
		connect:     nil,
		gatewayName: "",
		ledger:      l,
		renderer:    nil,
		notifier:    n,
		logger:      log.Named("lifecycle"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Machine exposes the run's state machine.
func (p *Pipeline) Machine() *Machine {
	return p.machine
}

// Run executes the pipeline once. On any error the state becomes ABORTED,
// the operator is told in live mode, and the error is returned.
func (p *Pipeline) Run(ctx context.Context) (result Result, err error) {
	defer func() {
		if err == nil {
			return
		}

		if terr := p.machine.Transition(StateAborted); terr != nil {
			p.logger.Warn("Abort from unexpected state", zap.String("state", string(p.machine.State())), zap.Error(terr))
		}

		result.State = p.machine.State()

		p.logger.Error("Run aborted", zap.Error(err))

		if p.live() {
			p.notify(ctx, MessageError(err))
		}
	}()

	if err := p.machine.Transition(StateBacktesting); err != nil {
		return Result{}, err
	}

	if p.live() {
		p.notify(ctx, MessageLaunch)
	}

	run, err := p.loop.Run(ctx, p.callbacks)
	if err != nil {
		return Result{}, err
	}

	p.logger.Info("Backtest finished",
		zap.Float64("initial_money", run.InitialMoney),
		zap.Float64("final_money", run.FinalMoney),
		zap.Time("final_date", run.FinalDate),
	)

	outcome := optional.None[trading.Outcome]()

	if p.live() {
		o, err := p.runLive(ctx)
		if err != nil {
			return Result{}, err
		}

		outcome = optional.Some(o)
	}

	record, err := p.ledger.Record(run)
	if err != nil {
		return Result{}, err
	}

	if err := p.machine.Transition(StateDone); err != nil {
		return Result{}, err
	}

	if p.live() {
		p.notify(ctx, MessageCompleted)
		p.report(ctx)
	}

	return Result{
		Run:     run,
		Record:  record,
		Outcome: outcome,
		State:   p.machine.State(),
	}, nil
}

//nolint:funcorder // helper method used by Run
func (p *Pipeline) live() bool {
	return p.connect != nil
}

//nolint:funcorder // helper method used by Run
func (p *Pipeline) runLive(ctx context.Context) (trading.Outcome, error) {
	if err := p.machine.Transition(StateLivePolling); err != nil {
		return "", err
	}

	p.notify(ctx, MessageConnecting(p.gatewayName))

	transition, err := p.connect(ctx)
	if err != nil {
		return "", err
	}

	p.notify(ctx, MessageConnected(p.gatewayName))

	outcome, err := transition.Run(ctx, trading.LiveCallbacks{})
	if err != nil {
		return "", err
	}

	p.logger.Info("Live session finished", zap.String("outcome", string(outcome)))

	return outcome, nil
}

// report sends the summary of the latest row and the charts. Failures are
// logged only: the run itself already succeeded.
//
//nolint:funcorder // helper method used by Run
func (p *Pipeline) report(ctx context.Context) {
	summary, err := p.ledger.Summarize(1)
	if err != nil {
		p.logger.Warn("Ledger summary unavailable", zap.Error(err))

		return
	}

	p.notify(ctx, ledger.FormatSummary(summary))

	if p.renderer == nil {
		return
	}

	records, err := p.ledger.Read()
	if err != nil {
		p.logger.Warn("Ledger unreadable for charts", zap.Error(err))

		return
	}

	paths, err := p.renderer.Render(records)
	if err != nil {
		p.logger.Warn("Charts not rendered", zap.Error(err))

		return
	}

	for _, path := range paths {
		p.notifyImage(ctx, path)
	}
}

//nolint:funcorder // helper method used by Run
func (p *Pipeline) notify(ctx context.Context, message string) {
	if p.notifier == nil {
		return
	}

	if err := p.notifier.SendText(ctx, message); err != nil {
		p.logger.Warn("Notification not delivered", zap.Error(err))
	}
}

//nolint:funcorder // helper method used by Run
func (p *Pipeline) notifyImage(ctx context.Context, path string) {
	if p.notifier == nil {
		return
	}

	if err := p.notifier.SendImage(ctx, path); err != nil {
		p.logger.Warn("Chart not delivered", zap.String("path", path), zap.Error(err))
	}
}
