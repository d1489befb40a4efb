package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// ValuationWriter keeps the per-day portfolio valuation in DuckDB and
// exports it to a parquet file on Flush and Close.
type ValuationWriter struct {
	db         *sql.DB
	outputPath string
	mu         sync.Mutex
}

// ValuationStats summarizes the stored valuation series.
type ValuationStats struct {
	Days        int
	FirstDate   time.Time
	LastDate    time.Time
	FirstValue  float64
	LastValue   float64
	PeakValue   float64
	MaxDrawdown float64
}

// NewValuationWriter creates a writer for outputPath.
func NewValuationWriter(outputPath string) *ValuationWriter {
	return &ValuationWriter{
		db:         nil,
		outputPath: outputPath,
		mu:         sync.Mutex{},
	}
}

// Initialize opens the in-memory database and creates the valuation table.
func (w *ValuationWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeValuationWriteFailed, "failed to create valuation directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeValuationWriteFailed, "failed to open DuckDB connection", err)
	}

	w.db = db

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS valuation (
			date TIMESTAMP,
			value DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeValuationWriteFailed, "failed to create valuation table", err)
	}

	return nil
}

// Add implements engine.Evaluator.
func (w *ValuationWriter) Add(point types.ValuationPoint) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeValuationWriteFailed, "writer not initialized")
	}

	_, err := w.db.Exec(`INSERT INTO valuation (date, value) VALUES (?, ?)`, point.Date, point.Value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeValuationWriteFailed, "failed to insert valuation", err)
	}

	return nil
}

// Flush exports the current series to parquet.
func (w *ValuationWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeValuationWriteFailed, "writer not initialized")
	}

	return w.exportToParquet()
}

// GetOutputPath returns the parquet file path.
func (w *ValuationWriter) GetOutputPath() string {
	return w.outputPath
}

// Stats computes summary figures over the stored series.
func (w *ValuationWriter) Stats() (ValuationStats, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return ValuationStats{}, errors.New(errors.ErrCodeValuationWriteFailed, "writer not initialized")
	}

	rows, err := w.db.Query(`SELECT date, value FROM valuation ORDER BY date ASC`)
	if err != nil {
		return ValuationStats{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query valuation", err)
	}
	defer rows.Close()

	var stats ValuationStats

	for rows.Next() {
		var (
			date  time.Time
			value float64
		)

		if err := rows.Scan(&date, &value); err != nil {
			return ValuationStats{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan valuation", err)
		}

		if stats.Days == 0 {
			stats.FirstDate = date
			stats.FirstValue = value
			stats.PeakValue = value
		}

		if value > stats.PeakValue {
			stats.PeakValue = value
		}

		if stats.PeakValue > 0 {
			drawdown := (stats.PeakValue - value) / stats.PeakValue
			if drawdown > stats.MaxDrawdown {
				stats.MaxDrawdown = drawdown
			}
		}

		stats.LastDate = date
		stats.LastValue = value
		stats.Days++
	}

	if err := rows.Err(); err != nil {
		return ValuationStats{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate valuation", err)
	}

	return stats, nil
}

// Close exports the series and releases database resources.
func (w *ValuationWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return nil
	}

	exportErr := w.exportToParquet()

	if err := w.db.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeValuationWriteFailed, "failed to close database", err)
	}

	w.db = nil

	return exportErr
}

//nolint:funcorder // helper method used by Flush and Close
func (w *ValuationWriter) exportToParquet() error {
	_, err := w.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM valuation ORDER BY date ASC)
		TO '%s' (FORMAT PARQUET)
	`, w.outputPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeValuationWriteFailed, "failed to export valuation to parquet", err)
	}

	return nil
}
