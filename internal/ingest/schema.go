package ingest

import (
	"fmt"
	"strings"

	"tradeledger/internal/domain"
	"tradeledger/internal/ports"
)

// Canonical column names of the trade schema.
const (
	ColStrategy   = "strategy"
	ColTicker     = "ticker"
	ColPosition   = "position"
	ColEntryDate  = "entryDate"
	ColExitDate   = "exitDate"
	ColQuantity   = "quantity"
	ColEntryPrice = "entryPrice"
	ColExitPrice  = "exitPrice"
	ColChgPercent = "chg_percent"
	ColCommission = "commission"
	ColNetPL      = "netPL"
)

var canonicalColumns = []string{
	ColStrategy, ColTicker, ColPosition, ColEntryDate, ColExitDate,
	ColQuantity, ColEntryPrice, ColExitPrice, ColChgPercent,
	ColCommission, ColNetPL,
}

// requiredColumns is the minimal set a table must provide to yield
// valid trades at all.
var requiredColumns = []string{ColStrategy, ColExitDate, ColNetPL}

// ColumnMapping translates source-specific headers onto the canonical
// schema. Mappings are static data so each can be tested on its own.
type ColumnMapping map[string]string

// ExcelCzechMapping covers the localized headers of the portfolio
// workbook export. Repeated headers arrive with a numeric suffix: the
// second "Datum" column is the exit date, the second "Cena" the exit
// price.
var ExcelCzechMapping = ColumnMapping{
	"Systém":      ColStrategy,
	"Symbol":      ColTicker,
	"Typ":         ColPosition,
	"Datum":       ColEntryDate,
	"Datum.1":     ColExitDate,
	"Počet":       ColQuantity,
	"Cena":        ColEntryPrice,
	"Cena.1":      ColExitPrice,
	"% změna":     ColChgPercent,
	"Komise":      ColCommission,
	"Profit/Loss": ColNetPL,
}

// columnHints back the substring heuristic used when no exact mapping
// entry matches a header. Checked in order, so the more specific
// exit/entry pairs come before anything generic.
var columnHints = []struct {
	canon string
	words []string
}{
	{ColExitDate, []string{"exit", "date"}},
	{ColEntryDate, []string{"entry", "date"}},
	{ColExitPrice, []string{"exit", "price"}},
	{ColEntryPrice, []string{"entry", "price"}},
	{ColNetPL, []string{"profit", "loss"}},
	{ColNetPL, []string{"net", "p/l"}},
	{ColNetPL, []string{"pnl"}},
	{ColStrategy, []string{"strateg"}},
	{ColStrategy, []string{"system"}},
	{ColTicker, []string{"symbol"}},
	{ColQuantity, []string{"qty"}},
	{ColCommission, []string{"commission"}},
}

// MapColumns renames a table's headers onto the canonical schema. An
// exact mapping entry wins; headers the mapping does not know fall back
// to a case-insensitive substring heuristic, and anything still
// unrecognized passes through unchanged. The input table is not
// modified.
func MapColumns(t domain.Table, m ColumnMapping) domain.Table {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if canon, ok := m[c]; ok {
			cols[i] = canon
			continue
		}
		if canon, ok := guessColumn(c); ok {
			cols[i] = canon
			continue
		}
		cols[i] = c
	}
	out := t
	out.Columns = cols
	return out
}

func guessColumn(header string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return "", false
	}
	for _, c := range canonicalColumns {
		if h == strings.ToLower(c) {
			return c, true
		}
	}
	for _, hint := range columnHints {
		matched := true
		for _, w := range hint.words {
			if !strings.Contains(h, w) {
				matched = false
				break
			}
		}
		if matched {
			return hint.canon, true
		}
	}
	return "", false
}

// CheckRequired rejects a table that cannot yield a single valid trade.
// Partial records are not salvaged: one missing required column fails
// the whole sheet.
func CheckRequired(t domain.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns: %w", t.Name, ports.ErrNotTabular)
	}
	var missing []string
	for _, req := range requiredColumns {
		if t.ColumnIndex(req) < 0 {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %q is missing %s: %w", t.Name, strings.Join(missing, ", "), ports.ErrMissingColumns)
	}
	return nil
}
