package ports

import (
	"context"

	"tradeledger/internal/domain"
)

// TableSource produces the raw tabular content of one ingestion path.
// A source reads bytes (database file, workbook) entirely outside the
// reconciliation core; the core only ever sees tables.
type TableSource interface {
	// Name returns the provenance tag recorded on trades from this source.
	Name() string
	// Tables fetches all sheets/tables the source currently holds.
	Tables(ctx context.Context) ([]domain.Table, error)
}
