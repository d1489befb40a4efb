package market

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"go.uber.org/zap"
)

// BarLoader reads daily bars from a parquet or csv file with the columns
// time, symbol, open, high, low, close, volume.
type BarLoader struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
}

// NewBarLoader opens an in-memory DuckDB connection.
func NewBarLoader(log *logger.Logger) (*BarLoader, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB connection", err)
	}

	return &BarLoader{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: log.Named("bar_loader"),
	}, nil
}

// Load returns the bars of symbols between start and end (inclusive), ordered by time then symbol.
// A zero end means no upper bound.
func (l *BarLoader) Load(ctx context.Context, path string, symbols []string, start time.Time, end time.Time) ([]types.Bar, error) {
	source, err := tableFunction(path)
	if err != nil {
		return nil, err
	}

	query := l.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From(source).
		Where(squirrel.Eq{"symbol": symbols}).
		Where(squirrel.GtOrEq{"time": start}).
		OrderBy("time ASC", "symbol ASC")

	if !end.IsZero() {
		query = query.Where(squirrel.Lt{"time": end.AddDate(0, 0, 1)})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bar query", err)
	}

	l.logger.Debug("Loading bars", zap.String("path", path), zap.Int("symbols", len(symbols)))

	rows, err := l.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeHistoricalDataFailed, err, "failed to read bars from %s", path)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan bar", err)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoricalDataFailed, "failed to iterate bars", err)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %d symbols in %s", len(symbols), path)
	}

	return bars, nil
}

// Close releases the DuckDB connection.
func (l *BarLoader) Close() error {
	return l.db.Close()
}

func tableFunction(path string) (string, error) {
	quoted := strings.ReplaceAll(path, "'", "''")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return fmt.Sprintf("read_parquet('%s')", quoted), nil
	case ".csv":
		return fmt.Sprintf("read_csv_auto('%s')", quoted), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported bar file %s, expected .parquet or .csv", path)
	}
}
