package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/ingest"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTradebook creates a temporary diary database with a few rows,
// including ones the diary query must filter out.
func setupTradebook(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tradeledger-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "tradebook.db3")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	const schema = `
	CREATE TABLE diary (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		strategy TEXT,
		ticker TEXT,
		entryDate TEXT,
		exitDate TEXT,
		quantity REAL,
		entryPrice REAL,
		exitPrice REAL,
		commission REAL,
		"NetP/L" REAL
	);`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	rows := []string{
		`INSERT INTO diary (strategy, ticker, entryDate, exitDate, quantity, entryPrice, exitPrice, commission, "NetP/L")
		 VALUES ('Breakout', 'ES', '2024-01-08', '2024-01-10', 1, 4700.25, 4725.5, 4.2, 100)`,
		`INSERT INTO diary (strategy, ticker, entryDate, exitDate, quantity, entryPrice, exitPrice, commission, "NetP/L")
		 VALUES ('Momentum', 'NQ', '2024-01-12', '2024-01-15', 2, 16900, 16850, 4.2, -50)`,
		// Open position: no exit date, must not appear.
		`INSERT INTO diary (strategy, ticker, entryDate, exitDate, quantity, entryPrice, exitPrice, commission, "NetP/L")
		 VALUES ('Breakout', 'ES', '2024-02-01', NULL, 1, 4800, NULL, NULL, NULL)`,
		// No strategy, must not appear.
		`INSERT INTO diary (strategy, ticker, entryDate, exitDate, quantity, entryPrice, exitPrice, commission, "NetP/L")
		 VALUES (NULL, 'CL', '2024-02-02', '2024-02-03', 1, 72.5, 73.1, 2.1, 60)`,
	}
	for _, stmt := range rows {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}

	return dbPath
}

func TestNewSourceValidation(t *testing.T) {
	_, err := NewSource(Config{DBPath: "x.db"})
	assert.Error(t, err)

	_, err = NewSource(Config{Logger: &mockLogger{}})
	assert.Error(t, err)
}

func TestSourceTables(t *testing.T) {
	dbPath := setupTradebook(t)

	src, err := NewSource(Config{DBPath: dbPath, Logger: &mockLogger{}})
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "SQLite", src.Name())

	tables, err := src.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, "diary", table.Name)
	assert.Equal(t, 0, table.ColumnIndex(ingest.ColStrategy))
	assert.Equal(t, 1, table.ColumnIndex(ingest.ColExitDate))
	assert.Equal(t, 2, table.ColumnIndex(ingest.ColNetPL))

	// Only the two closed trades with strategy and P&L survive the query.
	require.Len(t, table.Rows, 2)
	// Ordered by exit date.
	first := table.Rows[0]
	assert.Equal(t, "Breakout", asString(t, first[0]))
}

func TestSourceTablesMissingFile(t *testing.T) {
	_, err := NewSource(Config{DBPath: "/nonexistent/dir/tradebook.db3", Logger: &mockLogger{}})
	assert.Error(t, err)
}

// asString accepts the driver returning TEXT as either string or []byte.
func asString(t *testing.T, v any) string {
	t.Helper()
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		t.Fatalf("unexpected cell type %T", v)
		return ""
	}
}
