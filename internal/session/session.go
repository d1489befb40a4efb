// Package session allocates per-run output folders of the form
// {results}/{YYYY-MM-DD}/run_N.
package session

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

var (
	runPattern  = regexp.MustCompile(`^run_(\d+)$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Clock returns the current time.
type Clock func() time.Time

// Manager owns the run folder of one simulation or live session.
type Manager struct {
	resultsDir string
	runNumber  int
	startedAt  time.Time
	runPath    string
	clock      Clock
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewManager creates a Manager rooted at resultsDir. A nil clock uses time.Now.
func NewManager(resultsDir string, clock Clock, log *logger.Logger) *Manager {
	if clock == nil {
		clock = time.Now
	}

	return &Manager{
		resultsDir: resultsDir,
		runNumber:  0,
		startedAt:  time.Time{},
		runPath:    "",
		clock:      clock,
		mu:         sync.Mutex{},
		logger:     log.Named("session"),
	}
}

// Start picks the next free run number for today and creates its folder.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startedAt = m.clock()
	date := m.startedAt.Format(types.LedgerDateLayout)

	runs, err := listRuns(filepath.Join(m.resultsDir, date))
	if err != nil {
		return err
	}

	next := 1
	if len(runs) > 0 {
		next = runs[len(runs)-1] + 1
	}

	dateDir := filepath.Join(m.resultsDir, date)
	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestInitFailed, err, "failed to create results folder %s", dateDir)
	}

	// sweep siblings start at the same time; Mkdir fails on a number another process took
	for {
		path := filepath.Join(dateDir, runName(next))

		err := os.Mkdir(path, 0755)
		if err == nil {
			m.runNumber = next
			m.runPath = path

			break
		}

		if !stderrors.Is(err, fs.ErrExist) {
			return errors.Wrapf(errors.ErrCodeBacktestInitFailed, err, "failed to create run folder %s", path)
		}

		next++
	}

	m.logger.Info("Session started",
		zap.String("run_id", runName(m.runNumber)),
		zap.String("path", m.runPath),
	)

	return nil
}

// RunPath returns the run folder, or "" before Start.
func (m *Manager) RunPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runPath
}

// RunID returns the folder name of the run, e.g. "run_2".
func (m *Manager) RunID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runNumber == 0 {
		return ""
	}

	return runName(m.runNumber)
}

// StartedAt returns the time Start was called.
func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.startedAt
}

// FilePath joins filename onto the run folder.
func (m *Manager) FilePath(filename string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return filepath.Join(m.runPath, filename)
}

// RunsForDate lists run folder names for date in numeric order.
func (m *Manager) RunsForDate(date string) ([]string, error) {
	runs, err := listRuns(filepath.Join(m.resultsDir, date))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(runs))
	for _, n := range runs {
		names = append(names, runName(n))
	}

	return names, nil
}

// Dates lists the dated folders under the results directory.
func (m *Manager) Dates() ([]string, error) {
	entries, err := os.ReadDir(m.resultsDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to read results directory", err)
	}

	dates := []string{}

	for _, entry := range entries {
		if entry.IsDir() && datePattern.MatchString(entry.Name()) {
			dates = append(dates, entry.Name())
		}
	}

	sort.Strings(dates)

	return dates, nil
}

func runName(n int) string {
	return fmt.Sprintf("run_%d", n)
}

// listRuns returns the sorted run numbers found in dir.
func listRuns(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", dir)
	}

	var runs []int

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		matches := runPattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}

		n, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}

		runs = append(runs, n)
	}

	sort.Ints(runs)

	return runs, nil
}
