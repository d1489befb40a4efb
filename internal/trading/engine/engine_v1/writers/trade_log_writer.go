package writers

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// TradeLogWriter appends executed live instructions to a CSV file. The
// header is written when the file is empty; each entry is one write.
type TradeLogWriter struct {
	outputPath string
	mu         sync.Mutex
}

// NewTradeLogWriter creates a writer for outputPath.
func NewTradeLogWriter(outputPath string) *TradeLogWriter {
	return &TradeLogWriter{
		outputPath: outputPath,
		mu:         sync.Mutex{},
	}
}

// GetOutputPath returns the CSV file path.
func (w *TradeLogWriter) GetOutputPath() string {
	return w.outputPath
}

// Write appends entries in order.
func (w *TradeLogWriter) Write(entries ...types.TradeLogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogFailed, "failed to create trade log directory", err)
	}

	f, err := os.OpenFile(w.outputPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeTradeLogFailed, err, "failed to open trade log %s", w.outputPath)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeTradeLogFailed, err, "failed to stat trade log %s", w.outputPath)
	}

	if info.Size() == 0 {
		if err := writeRow(f, types.TradeLogHeader); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := writeRow(f, []string{
			entry.Timestamp.Format(types.TradeLogTimestampLayout),
			entry.Symbol,
			string(entry.Action),
			strconv.FormatFloat(entry.Quantity, 'f', -1, 64),
			strconv.FormatFloat(entry.Price, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}

	return nil
}

func writeRow(f *os.File, fields []string) error {
	var buf bytes.Buffer

	cw := csv.NewWriter(&buf)
	if err := cw.Write(fields); err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogFailed, "failed to encode trade log row", err)
	}

	cw.Flush()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogFailed, "failed to append to trade log", err)
	}

	return nil
}
