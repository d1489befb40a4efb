// Package ledger keeps the append-only CSV store of finished simulation runs
// and summarizes it.
package ledger

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// Ledger appends one row per finished run to a CSV file shared by every
// process of a sweep. Each row reaches the file in a single O_APPEND write.
type Ledger struct {
	path   string
	clock  func() time.Time
	mu     sync.Mutex
	logger *logger.Logger
}

// NewLedger opens the ledger at path. A nil clock uses time.Now. Timestamps
// read back from the file are interpreted in the clock's location.
func NewLedger(path string, clock func() time.Time, log *logger.Logger) *Ledger {
	if clock == nil {
		clock = time.Now
	}

	return &Ledger{
		path:   path,
		clock:  clock,
		mu:     sync.Mutex{},
		logger: log.Named("ledger"),
	}
}

// Path returns the store location.
func (l *Ledger) Path() string {
	return l.path
}

// Record derives the row for run and appends it. Nothing is written when
// the run cannot be annualized.
func (l *Ledger) Record(run types.SimulationRun) (types.LedgerRecord, error) {
	record, err := NewRecord(run, l.clock())
	if err != nil {
		l.logger.Error("Discarding simulation run", zap.Error(err))

		return types.LedgerRecord{}, err
	}

	if err := l.Append(record); err != nil {
		return types.LedgerRecord{}, err
	}

	l.logger.Info("Simulation recorded",
		zap.String("path", l.path),
		zap.Float64("tae", record.Tae.Unwrap()),
		zap.Float64("rentabilidad_total", record.RentabilidadTotal.Unwrap()),
	)

	return record, nil
}

// Append writes record after the existing rows, creating the file with its
// header first if needed.
func (l *Ledger) Append(record types.LedgerRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureHeader(); err != nil {
		return err
	}

	row, err := encodeRow(recordFields(record))
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to encode ledger row", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeLedgerWriteFailed, err, "failed to open ledger %s", l.path)
	}
	defer f.Close()

	if _, err := f.Write(row); err != nil {
		return errors.Wrapf(errors.ErrCodeLedgerWriteFailed, err, "failed to append to ledger %s", l.path)
	}

	return nil
}

// ensureHeader publishes a header-only file at path unless a non-empty one
// exists. The header is staged in a temporary file and hard-linked into place,
// so a concurrent appender never sees the file without its header. An empty
// file is replaced by the staged header.
//
//nolint:funcorder // helper method used by Append
func (l *Ledger) ensureHeader() error {
	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}

	empty := err == nil

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeLedgerWriteFailed, err, "failed to create ledger directory %s", dir)
	}

	header, err := encodeRow(types.LedgerHeader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to encode ledger header", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to stage ledger header", err)
	}
	defer os.Remove(tmp.Name())

	_, writeErr := tmp.Write(header)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		return errors.Wrap(errors.ErrCodeLedgerWriteFailed, "failed to stage ledger header", stderrors.Join(writeErr, closeErr))
	}

	if empty {
		if info, err := os.Stat(l.path); err == nil && info.Size() > 0 {
			return nil
		}

		if err := os.Rename(tmp.Name(), l.path); err != nil {
			return errors.Wrapf(errors.ErrCodeLedgerWriteFailed, err, "failed to write ledger header to %s", l.path)
		}

		return nil
	}

	err = os.Link(tmp.Name(), l.path)
	if err == nil || stderrors.Is(err, fs.ErrExist) {
		return nil
	}

	// filesystems without hard links
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if stderrors.Is(err, fs.ErrExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(errors.ErrCodeLedgerWriteFailed, err, "failed to create ledger %s", l.path)
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return errors.Wrapf(errors.ErrCodeLedgerWriteFailed, err, "failed to write ledger header to %s", l.path)
	}

	return nil
}

// Read returns every row in store order. A missing store reads as empty.
func (l *Ledger) Read() ([]types.LedgerRecord, error) {
	f, err := os.Open(l.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return []types.LedgerRecord{}, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeLedgerReadFailed, err, "failed to open ledger %s", l.path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return []types.LedgerRecord{}, nil
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeLedgerReadFailed, err, "failed to read ledger header of %s", l.path)
	}

	decoder := newRowDecoder(header, l.clock().Location())
	if !decoder.hasColumn("tae") {
		return nil, errors.Newf(errors.ErrCodeLedgerReadFailed, "ledger %s has no tae column", l.path)
	}

	records := []types.LedgerRecord{}

	for {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeLedgerReadFailed, err, "failed to read ledger row %d of %s", len(records)+1, l.path)
		}

		records = append(records, decoder.decode(row))
	}

	return records, nil
}

// Summarize reads the store and aggregates it.
func (l *Ledger) Summarize(lastN int) (types.SummaryReport, error) {
	records, err := l.Read()
	if err != nil {
		return types.SummaryReport{}, err
	}

	report, err := Summarize(records, lastN)
	if err != nil {
		if errors.IsEmptyStore(err) {
			return types.SummaryReport{}, errors.NewEmptyStoreError(l.path, len(records))
		}

		return types.SummaryReport{}, err
	}

	return report, nil
}
