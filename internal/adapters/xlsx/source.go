package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"tradeledger/internal/domain"
	"tradeledger/internal/ports"
)

// Source reads every sheet of an Excel workbook as a raw table. Header
// localization is left to the schema mapper downstream, so the tables
// carry the original header text.
type Source struct {
	path   string
	logger ports.Logger
}

// Config holds configuration for the workbook source.
type Config struct {
	Path   string
	Logger ports.Logger
}

const sourceName = "Excel"

// NewSource creates a workbook source. The file is opened lazily on
// each Tables call so a refreshed export is picked up without
// restarting.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for workbook source")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("Path is required for workbook source: %w", ports.ErrConfigurationError)
	}
	return &Source{path: cfg.Path, logger: cfg.Logger}, nil
}

// Name returns the provenance tag recorded on trades from this source.
func (s *Source) Name() string { return sourceName }

// Tables opens the workbook and returns one table per sheet that has a
// header row and at least one data row. A sheet that fails to read is
// skipped without failing its siblings.
func (s *Source) Tables(ctx context.Context) ([]domain.Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s' (%v): %w", s.path, err, ports.ErrSourceUnavailable)
	}
	defer f.Close()

	var tables []domain.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			s.logger.Warn(ctx, "Failed to read sheet, skipping", map[string]interface{}{"sheet": sheet, "error": err.Error()})
			continue
		}
		if len(rows) < 2 {
			s.logger.Debug(ctx, "Sheet has no data rows, skipping", map[string]interface{}{"sheet": sheet})
			continue
		}

		table := domain.Table{Name: sheet, Columns: dedupeHeaders(rows[0])}
		for _, raw := range rows[1:] {
			row := make([]any, len(table.Columns))
			for i := range table.Columns {
				if i < len(raw) {
					row[i] = raw[i]
				}
			}
			table.Rows = append(table.Rows, row)
		}
		tables = append(tables, table)
	}

	s.logger.Debug(ctx, "Workbook sheets read", map[string]interface{}{"path": s.path, "sheets": len(tables)})
	return tables, nil
}

// dedupeHeaders disambiguates repeated header names the way the column
// mappings expect them: second and later occurrences get a numeric
// suffix ("Datum", "Datum.1").
func dedupeHeaders(headers []string) []string {
	counts := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		n := counts[h]
		counts[h] = n + 1
		if n == 0 {
			out[i] = h
		} else {
			out[i] = fmt.Sprintf("%s.%d", h, n)
		}
	}
	return out
}
