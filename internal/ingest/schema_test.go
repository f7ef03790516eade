package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/domain"
	"tradeledger/internal/ports"
)

func TestMapColumnsCzechMapping(t *testing.T) {
	table := domain.Table{
		Name: "List1",
		Columns: []string{
			"Systém", "Symbol", "Typ", "Datum", "Datum.1",
			"Počet", "Cena", "Cena.1", "% změna", "Komise", "Profit/Loss",
		},
	}

	mapped := MapColumns(table, ExcelCzechMapping)

	assert.Equal(t, []string{
		ColStrategy, ColTicker, ColPosition, ColEntryDate, ColExitDate,
		ColQuantity, ColEntryPrice, ColExitPrice, ColChgPercent, ColCommission, ColNetPL,
	}, mapped.Columns)
	// The input table header is untouched.
	assert.Equal(t, "Systém", table.Columns[0])
}

func TestMapColumnsHeuristicFallback(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Exit Date", ColExitDate},
		{"entry_date", ColEntryDate},
		{"Exit Price", ColExitPrice},
		{"Profit/Loss", ColNetPL},
		{"NetP/L", ColNetPL},
		{"pnl_total", ColNetPL},
		{"Strategy Name", ColStrategy},
		{"Trading System", ColStrategy},
		{"Symbol", ColTicker},
		{"Qty", ColQuantity},
		{"Commission Paid", ColCommission},
		{"exitDate", ColExitDate}, // canonical name passes through as itself
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			mapped := MapColumns(domain.Table{Columns: []string{tt.header}}, nil)
			assert.Equal(t, tt.want, mapped.Columns[0])
		})
	}
}

func TestMapColumnsUnknownHeaderPassesThrough(t *testing.T) {
	mapped := MapColumns(domain.Table{Columns: []string{"Poznámka"}}, ExcelCzechMapping)
	assert.Equal(t, "Poznámka", mapped.Columns[0])
}

func TestCheckRequired(t *testing.T) {
	valid := domain.Table{Name: "ok", Columns: []string{ColStrategy, ColExitDate, ColNetPL, ColTicker}}
	require.NoError(t, CheckRequired(valid))

	missing := domain.Table{Name: "partial", Columns: []string{ColStrategy, ColTicker}}
	err := CheckRequired(missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrMissingColumns)
	assert.Contains(t, err.Error(), ColExitDate)
	assert.Contains(t, err.Error(), ColNetPL)

	empty := domain.Table{Name: "empty"}
	err = CheckRequired(empty)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNotTabular)
}
