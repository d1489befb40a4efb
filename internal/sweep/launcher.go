package sweep

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// ExecLauncher runs each config as "<binary> simulate --config <file> --set k=v ..."
// in its own process.
type ExecLauncher struct {
	binary     string
	configPath string
	logger     *logger.Logger
}

// NewExecLauncher creates a launcher for binary. An empty binary uses the
// running executable.
func NewExecLauncher(binary string, configPath string, log *logger.Logger) (*ExecLauncher, error) {
	if binary == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSweepRunFailed, "failed to locate the argo executable", err)
		}

		binary = self
	}

	return &ExecLauncher{
		binary:     binary,
		configPath: configPath,
		logger:     log.Named("exec_launcher"),
	}, nil
}

// Args returns the command line arguments for config.
func (e *ExecLauncher) Args(runID string, config types.SweepConfig) []string {
	args := []string{"simulate", "--run-id", runID}
	if e.configPath != "" {
		args = append(args, "--config", e.configPath)
	}

	for _, key := range config.Keys() {
		args = append(args, "--set", key+"="+config.Overrides[key])
	}

	return args
}

// Launch implements Launcher. A non-zero exit is an error carrying the tail
// of the child's stderr.
func (e *ExecLauncher) Launch(ctx context.Context, runID string, config types.SweepConfig) error {
	args := e.Args(runID, config)

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	e.logger.Debug("Launching simulation process", zap.String("binary", e.binary), zap.Strings("args", args))

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(errors.ErrCodeSweepRunFailed, err, "simulation %d exited: %s", config.Index+1, tail(stderr.String(), 400))
	}

	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}

	return "..." + s[len(s)-n:]
}

// SimulateFunc runs one simulation with overrides applied to the base configuration.
type SimulateFunc func(ctx context.Context, runID string, overrides map[string]string) error

// InProcessLauncher runs each config through a function in this process.
type InProcessLauncher struct {
	simulate SimulateFunc
}

// NewInProcessLauncher wraps simulate.
func NewInProcessLauncher(simulate SimulateFunc) *InProcessLauncher {
	return &InProcessLauncher{simulate: simulate}
}

// Launch implements Launcher. A panic in simulate is reported as an error
// so it stays confined to this config.
func (l *InProcessLauncher) Launch(ctx context.Context, runID string, config types.SweepConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeSweepRunFailed, "simulation %d panicked: %v", config.Index+1, r)
		}
	}()

	overrides := make(map[string]string, len(config.Overrides))
	for k, v := range config.Overrides {
		overrides[k] = v
	}

	return l.simulate(ctx, runID, overrides)
}
