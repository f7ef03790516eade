package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"tradeledger/internal/analytics"
	"tradeledger/internal/domain"
)

const dateLayout = "2006-01-02"

// WriteTradesToCSV exports a ledger for inspection in a spreadsheet.
// Absent dates are written as empty cells.
func WriteTradesToCSV(trades []*domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"source", "strategy", "ticker", "entry_date", "exit_date", "quantity", "entry_price", "exit_price", "commission", "net_pl"})

	for _, t := range trades {
		entryDate := ""
		if !t.EntryDate.IsZero() {
			entryDate = t.EntryDate.Format(dateLayout)
		}
		writer.Write([]string{
			t.Source,
			t.Strategy,
			t.Ticker,
			entryDate,
			t.ExitDate.Format(dateLayout),
			strconv.FormatFloat(t.Quantity, 'f', -1, 64),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Commission, 'f', -1, 64),
			strconv.FormatFloat(t.NetPL, 'f', -1, 64),
		})
	}
	return writer.Error()
}

// WriteMetricsToCSV exports one metrics record as metric,value rows.
func WriteMetricsToCSV(m *analytics.Metrics, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"metric", "value"})
	rows := [][2]string{
		{"total_pl", strconv.FormatFloat(m.TotalPL, 'f', 2, 64)},
		{"total_pl_percent", strconv.FormatFloat(m.TotalPLPercent, 'f', 2, 64)},
		{"total_capital", strconv.FormatFloat(m.TotalCapital, 'f', 2, 64)},
		{"total_trades", strconv.Itoa(m.TotalTrades)},
		{"winning_trades", strconv.Itoa(m.WinningTrades)},
		{"losing_trades", strconv.Itoa(m.LosingTrades)},
		{"win_rate", strconv.FormatFloat(m.WinRate, 'f', 2, 64)},
		{"avg_win", strconv.FormatFloat(m.AvgWin, 'f', 2, 64)},
		{"avg_loss", strconv.FormatFloat(m.AvgLoss, 'f', 2, 64)},
		{"profit_factor", strconv.FormatFloat(m.ProfitFactor, 'f', 2, 64)},
		{"max_drawdown", strconv.FormatFloat(m.MaxDrawdown, 'f', 2, 64)},
	}
	for _, r := range rows {
		writer.Write([]string{r[0], r[1]})
	}
	return writer.Error()
}

// WriteGridToCSV exports a monthly heatmap grid with one label column
// followed by the twelve month columns.
func WriteGridToCSV(grid analytics.MonthlyGrid, labelHeader, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, 13)
	header[0] = labelHeader
	for m := 1; m <= 12; m++ {
		header[m] = fmt.Sprintf("%02d", m)
	}
	writer.Write(header)

	for i, label := range grid.RowLabels {
		row := make([]string, 13)
		row[0] = label
		for m, v := range grid.Cells[i] {
			row[m+1] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		writer.Write(row)
	}
	return writer.Error()
}
