package analytics

import (
	"sort"
	"strconv"

	"tradeledger/internal/domain"
)

// MonthlyGrid is a dense month-bucketed P&L table: one row per label,
// twelve columns January through December. Missing buckets are
// materialized as 0, so "no trades that month" and "exactly breakeven"
// render identically as a neutral cell.
type MonthlyGrid struct {
	RowLabels []string
	Cells     [][12]float64
}

// ByYearMonth buckets net P&L into a year x month grid, years
// ascending.
func ByYearMonth(trades []*domain.Trade) MonthlyGrid {
	sums := make(map[int]*[12]float64)
	for _, t := range trades {
		y := t.ExitDate.Year()
		row, ok := sums[y]
		if !ok {
			row = &[12]float64{}
			sums[y] = row
		}
		row[int(t.ExitDate.Month())-1] += t.NetPL
	}

	years := make([]int, 0, len(sums))
	for y := range sums {
		years = append(years, y)
	}
	sort.Ints(years)

	grid := MonthlyGrid{
		RowLabels: make([]string, 0, len(years)),
		Cells:     make([][12]float64, 0, len(years)),
	}
	for _, y := range years {
		grid.RowLabels = append(grid.RowLabels, strconv.Itoa(y))
		grid.Cells = append(grid.Cells, *sums[y])
	}
	return grid
}

// ByStrategyMonth buckets net P&L into a strategy x month grid,
// strategies in alphabetical order.
func ByStrategyMonth(trades []*domain.Trade) MonthlyGrid {
	sums := make(map[string]*[12]float64)
	for _, t := range trades {
		row, ok := sums[t.Strategy]
		if !ok {
			row = &[12]float64{}
			sums[t.Strategy] = row
		}
		row[int(t.ExitDate.Month())-1] += t.NetPL
	}

	strategies := make([]string, 0, len(sums))
	for s := range sums {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)

	grid := MonthlyGrid{
		RowLabels: make([]string, 0, len(strategies)),
		Cells:     make([][12]float64, 0, len(strategies)),
	}
	for _, s := range strategies {
		grid.RowLabels = append(grid.RowLabels, s)
		grid.Cells = append(grid.Cells, *sums[s])
	}
	return grid
}
