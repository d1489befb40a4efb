package sweep

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-sweep/internal/ledger"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/notifier"
	"github.com/rxtech-lab/argo-sweep/internal/report"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Launcher runs one sweep participant to completion. Each launch must be
// isolated from the others; the ledger file is the only shared state.
type Launcher interface {
	Launch(ctx context.Context, runID string, config types.SweepConfig) error
}

// Runner fans configs out to a bounded pool of launches.
type Runner struct {
	launcher Launcher
	workers  int
	notifier notifier.Notifier
	ledger   *ledger.Ledger
	renderer *report.Renderer
	clock    func() time.Time
	progress io.Writer
	logger   *logger.Logger
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock used for the final message.
func WithClock(clock func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithProgressWriter sets where the progress bar is drawn. Defaults to stderr.
func WithProgressWriter(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.progress = w
	}
}

// NewRunner creates a runner that keeps at most workers launches in flight.
// renderer may be nil to skip the charts.
func NewRunner(
	launcher Launcher,
	workers int,
	n notifier.Notifier,
	l *ledger.Ledger,
	renderer *report.Renderer,
	log *logger.Logger,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		launcher: launcher,
		workers:  workers,
		notifier: n,
		ledger:   l,
		renderer: renderer,
		clock:    time.Now,
		progress: os.Stderr,
		logger:   log.Named("sweep"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run launches every config and waits for all of them. Configs start in
// order as slots free up. A failed launch never stops its siblings. The
// results come back in completion order. After the last launch the
// aggregate message, the ledger summary over the configs just run and the
// charts are sent. The returned error is non-nil when any launch failed.
func (r *Runner) Run(ctx context.Context, configs []types.SweepConfig) ([]types.SweepResult, error) {
	if len(configs) == 0 {
		return nil, errors.New(errors.ErrCodeSweepConfigError, "no sweep configs to run")
	}

	if r.workers <= 0 {
		return nil, errors.Newf(errors.ErrCodeSweepConfigError, "invalid worker count %d", r.workers)
	}

	r.notify(ctx, fmt.Sprintf("📆 *Inicio de simulaciones paralelas (%d)*", len(configs)))

	r.logger.Info("Starting sweep", zap.Int("configs", len(configs)), zap.Int("workers", r.workers))

	bar := progressbar.NewOptions(len(configs),
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionSetDescription("Simulaciones"),
		progressbar.OptionShowCount(),
	)

	var (
		mu      sync.Mutex
		results = make([]types.SweepResult, 0, len(configs))
		g       errgroup.Group
	)

	g.SetLimit(r.workers)

	for _, config := range configs {
		g.Go(func() error {
			result := r.launch(ctx, config)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			_ = bar.Add(1)

			return nil
		})
	}

	_ = g.Wait()
	_ = bar.Finish()

	r.notify(ctx, FormatResults(r.clock(), results))
	r.summarize(ctx, len(configs))

	var failed int

	for _, result := range results {
		if !result.Succeeded() {
			failed++
		}
	}

	if failed > 0 {
		return results, errors.Newf(errors.ErrCodeSweepRunFailed, "%d of %d simulations failed", failed, len(configs))
	}

	return results, nil
}

//nolint:funcorder // helper method used by Run
func (r *Runner) launch(ctx context.Context, config types.SweepConfig) types.SweepResult {
	runID := uuid.New().String()
	started := time.Now()

	r.logger.Info("Simulation started",
		zap.String("run_id", runID),
		zap.Int("index", config.Index),
		zap.String("overrides", config.String()),
	)

	err := r.launcher.Launch(ctx, runID, config)
	duration := time.Since(started).Seconds()

	if err != nil {
		r.logger.Error("Simulation failed",
			zap.String("run_id", runID),
			zap.Int("index", config.Index),
			zap.Float64("seconds", duration),
			zap.Error(err),
		)
	} else {
		r.logger.Info("Simulation finished",
			zap.String("run_id", runID),
			zap.Int("index", config.Index),
			zap.Float64("seconds", duration),
		)
	}

	return types.SweepResult{
		Config:          config,
		DurationSeconds: duration,
		Err:             err,
	}
}

// summarize sends the ledger summary over the last count rows and the charts.
//
//nolint:funcorder // helper method used by Run
func (r *Runner) summarize(ctx context.Context, count int) {
	if r.ledger == nil {
		return
	}

	summary, err := r.ledger.Summarize(count)
	if err != nil {
		r.logger.Warn("Ledger summary unavailable", zap.Error(err))

		if errors.IsEmptyStore(err) {
			r.notify(ctx, "❌ No hay simulaciones válidas en el registro.")
		}

		return
	}

	r.notify(ctx, ledger.FormatSummary(summary))

	if r.renderer == nil {
		return
	}

	records, err := r.ledger.Read()
	if err != nil {
		r.logger.Warn("Ledger unreadable for charts", zap.Error(err))

		return
	}

	paths, err := r.renderer.Render(records)
	if err != nil {
		r.logger.Warn("Charts not rendered", zap.Error(err))

		return
	}

	for _, path := range paths {
		r.notifyImage(ctx, path)
	}
}

//nolint:funcorder // helper method used by Run
func (r *Runner) notify(ctx context.Context, message string) {
	if r.notifier == nil {
		return
	}

	if err := r.notifier.SendText(ctx, message); err != nil {
		r.logger.Warn("Notification not delivered", zap.Error(err))
	}
}

//nolint:funcorder // helper method used by Run
func (r *Runner) notifyImage(ctx context.Context, path string) {
	if r.notifier == nil {
		return
	}

	if err := r.notifier.SendImage(ctx, path); err != nil {
		r.logger.Warn("Chart not delivered", zap.String("path", path), zap.Error(err))
	}
}

// FormatResults renders the aggregate message. Runs are numbered from 1 in
// config order.
func FormatResults(at time.Time, results []types.SweepResult) string {
	sorted := append([]types.SweepResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Config.Index < sorted[j].Config.Index })

	lines := []string{fmt.Sprintf("📆 *Fin de simulaciones %s*", at.Format("15:04"))}

	for _, result := range sorted {
		if result.Succeeded() {
			lines = append(lines, fmt.Sprintf("🔹 Simulación %d: %.2f segundos", result.Config.Index+1, result.DurationSeconds))

			continue
		}

		lines = append(lines, fmt.Sprintf("⚠️ Simulación %d falló tras %.2f segundos: %v",
			result.Config.Index+1, result.DurationSeconds, result.Err))
	}

	return strings.Join(lines, "\n")
}
