package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"tradeledger/internal/domain"
	"tradeledger/internal/ingest"
	"tradeledger/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Source reads the closed-trade diary out of a SQLite tradebook file
// and exposes it as one table with canonical column names. The file is
// opened read-only: ingestion never mutates a source.
type Source struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite source.
type Config struct {
	DBPath string
	Logger ports.Logger
}

const sourceName = "SQLite"

// diaryQuery is the single logical query the ledger needs: closed
// trades only, the NetP/L column aliased onto the canonical name,
// ordered by exit date.
const diaryQuery = `
	SELECT strategy, exitDate, "NetP/L" AS netPL, entryDate, ticker,
	       quantity, entryPrice, exitPrice, commission
	FROM diary
	WHERE exitDate IS NOT NULL AND "NetP/L" IS NOT NULL AND strategy IS NOT NULL
	ORDER BY exitDate`

// diaryColumns mirrors the select list above.
var diaryColumns = []string{
	ingest.ColStrategy, ingest.ColExitDate, ingest.ColNetPL,
	ingest.ColEntryDate, ingest.ColTicker, ingest.ColQuantity,
	ingest.ColEntryPrice, ingest.ColExitPrice, ingest.ColCommission,
}

// NewSource opens the tradebook database and verifies the connection.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite source")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DBPath is required for SQLite source: %w", ports.ErrConfigurationError)
	}

	db, err := sql.Open("sqlite3", "file:"+cfg.DBPath+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tradebook at '%s': %w", cfg.DBPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping tradebook at '%s' (%v): %w", cfg.DBPath, err, ports.ErrDBConnection)
	}

	// SQLite handles concurrency internally; the Go driver benefits from
	// limiting connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	cfg.Logger.Info(context.Background(), "Tradebook database opened", map[string]interface{}{"path": cfg.DBPath})
	return &Source{db: db, logger: cfg.Logger}, nil
}

// Name returns the provenance tag recorded on trades from this source.
func (s *Source) Name() string { return sourceName }

// Tables runs the diary query and shapes the rows into one raw table.
// No coercion happens here; dates and numerics are left exactly as the
// driver returned them.
func (s *Source) Tables(ctx context.Context) ([]domain.Table, error) {
	rows, err := s.db.QueryContext(ctx, diaryQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query diary (%v): %w", err, ports.ErrQueryFailed)
	}
	defer rows.Close()

	table := domain.Table{Name: "diary", Columns: diaryColumns}
	for rows.Next() {
		row := make([]any, len(diaryColumns))
		dest := make([]any, len(diaryColumns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan diary row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diary rows (%v): %w", err, ports.ErrQueryFailed)
	}

	s.logger.Debug(ctx, "Diary rows fetched", map[string]interface{}{"rows": len(table.Rows)})
	return []domain.Table{table}, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	if s.db != nil {
		s.logger.Info(context.Background(), "Closing tradebook database")
		return s.db.Close()
	}
	return nil
}
