package ingest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tradeledger/internal/domain"
	"tradeledger/internal/ports"
)

// SourceInput is one ingestion path's raw content paired with the
// schema mapping its headers need. The order of inputs handed to
// Reconcile is the dedup precedence: on a key collision the earlier
// source wins, so callers put the primary structured source first.
type SourceInput struct {
	Source  string
	Tables  []domain.Table
	Mapping ColumnMapping
}

// Reconciler merges per-source record sets into the canonical ledger.
type Reconciler struct {
	logger ports.Logger
	bounds DateBounds
}

// NewReconciler creates a reconciler for the given calendar bounds.
func NewReconciler(logger ports.Logger, bounds DateBounds) (*Reconciler, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for reconciler: %w", ports.ErrConfigurationError)
	}
	if bounds.MinYear <= 0 || bounds.MaxYear < bounds.MinYear {
		return nil, fmt.Errorf("invalid date bounds [%d, %d]: %w", bounds.MinYear, bounds.MaxYear, ports.ErrConfigurationError)
	}
	return &Reconciler{logger: logger, bounds: bounds}, nil
}

// Reconcile maps, cleans, deduplicates and orders the given inputs into
// one ledger. A sheet missing required columns is rejected without
// failing its siblings; a row failing the trade invariants is dropped
// silently. The result is sorted by exit date ascending and may be
// empty, which is a valid terminal state.
func (r *Reconciler) Reconcile(ctx context.Context, inputs []SourceInput) []*domain.Trade {
	seen := make(map[string]struct{})
	ledger := make([]*domain.Trade, 0)

	for _, in := range inputs {
		for _, raw := range in.Tables {
			table := MapColumns(raw, in.Mapping)
			if err := CheckRequired(table); err != nil {
				r.logger.Warn(ctx, "Sheet rejected", map[string]interface{}{
					"source": in.Source, "sheet": raw.Name, "reason": err.Error(),
				})
				continue
			}

			tag := in.Source
			if len(in.Tables) > 1 && raw.Name != "" {
				tag = in.Source + "-" + raw.Name
			}

			kept, dropped, dups := 0, 0, 0
			for _, row := range table.Rows {
				trade, ok := r.buildTrade(table, row, tag)
				if !ok {
					dropped++
					continue
				}
				key := dedupKey(trade)
				if _, dup := seen[key]; dup {
					dups++
					continue
				}
				seen[key] = struct{}{}
				ledger = append(ledger, trade)
				kept++
			}
			r.logger.Debug(ctx, "Sheet reconciled", map[string]interface{}{
				"source": in.Source, "sheet": raw.Name,
				"kept": kept, "dropped": dropped, "duplicates": dups,
			})
		}
	}

	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].ExitDate.Before(ledger[j].ExitDate)
	})
	return ledger
}

// buildTrade coerces one raw row into a Trade. The required trio
// (strategy, exit date, net P&L) must coerce cleanly or the row is
// unusable; the optional numerics are taken on a best-effort basis.
func (r *Reconciler) buildTrade(t domain.Table, row []any, source string) (*domain.Trade, bool) {
	cell := func(col string) any {
		i := t.ColumnIndex(col)
		if i < 0 || i >= len(row) {
			return nil
		}
		return row[i]
	}

	strategy := coerceString(cell(ColStrategy))
	if strategy == "" {
		return nil, false
	}
	exitDate, ok := NormalizeDate(cell(ColExitDate), r.bounds)
	if !ok {
		return nil, false
	}
	netPL, ok := coerceFloat(cell(ColNetPL))
	if !ok {
		return nil, false
	}

	trade := &domain.Trade{
		Strategy: strategy,
		Ticker:   coerceString(cell(ColTicker)),
		Position: coerceString(cell(ColPosition)),
		ExitDate: exitDate,
		NetPL:    netPL,
		Source:   source,
	}
	if entry, ok := NormalizeDate(cell(ColEntryDate), r.bounds); ok {
		trade.EntryDate = entry
	}
	if v, ok := coerceFloat(cell(ColQuantity)); ok {
		trade.Quantity = v
	}
	if v, ok := coerceFloat(cell(ColEntryPrice)); ok {
		trade.EntryPrice = v
	}
	if v, ok := coerceFloat(cell(ColExitPrice)); ok {
		trade.ExitPrice = v
	}
	if v, ok := coerceFloat(cell(ColCommission)); ok {
		trade.Commission = v
	}
	return trade, true
}

// dedupKey identifies the same trade reported by two sources.
func dedupKey(t *domain.Trade) string {
	return t.Strategy + "|" + t.ExitDate.Format("2006-01-02") + "|" + strconv.FormatFloat(t.NetPL, 'f', -1, 64)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case []byte:
		return parseFloatString(string(val))
	case string:
		return parseFloatString(val)
	default:
		return 0, false
	}
}

func parseFloatString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Localized exports use a decimal comma.
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
