package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trade(strategy string, exit time.Time, netPL float64) *domain.Trade {
	return &domain.Trade{Strategy: strategy, ExitDate: exit, NetPL: netPL}
}

func TestComputeMetrics(t *testing.T) {
	ledger := []*domain.Trade{
		trade("A", date(2024, time.January, 10), 100),
		trade("A", date(2024, time.January, 15), -50),
		trade("B", date(2024, time.February, 1), 200),
	}

	m := ComputeMetrics(ledger, 50000)

	assert.Equal(t, 250.0, m.TotalPL)
	assert.InDelta(t, 0.5, m.TotalPLPercent, 1e-9)
	assert.Equal(t, 50250.0, m.TotalCapital)
	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.InDelta(t, 66.6667, m.WinRate, 0.001)
	assert.Equal(t, 150.0, m.AvgWin)
	assert.Equal(t, -50.0, m.AvgLoss)
	assert.InDelta(t, 3.0, m.ProfitFactor, 1e-9)
	// Cumulative [100, 50, 250], running max [100, 100, 250].
	assert.Equal(t, -50.0, m.MaxDrawdown)
}

func TestComputeMetricsEmptySet(t *testing.T) {
	m := ComputeMetrics(nil, 50000)

	assert.Zero(t, m.TotalPL)
	assert.Zero(t, m.TotalTrades)
	assert.Zero(t, m.WinningTrades)
	assert.Zero(t, m.LosingTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.AvgWin)
	assert.Zero(t, m.AvgLoss)
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.MaxDrawdown)
	assert.Equal(t, 50000.0, m.TotalCapital)
}

func TestComputeMetricsNoLosses(t *testing.T) {
	ledger := []*domain.Trade{
		trade("A", date(2024, time.January, 10), 100),
		trade("A", date(2024, time.January, 15), 80),
	}

	m := ComputeMetrics(ledger, 50000)

	assert.Equal(t, 0.0, m.AvgLoss)
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.Equal(t, 100.0, m.WinRate)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestComputeMetricsNoWins(t *testing.T) {
	ledger := []*domain.Trade{
		trade("A", date(2024, time.January, 10), -100),
		trade("A", date(2024, time.January, 15), -80),
	}

	m := ComputeMetrics(ledger, 50000)

	assert.Equal(t, 0.0, m.AvgWin)
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, -180.0, m.MaxDrawdown)
}

func TestComputeMetricsBreakevenTrades(t *testing.T) {
	ledger := []*domain.Trade{
		trade("A", date(2024, time.January, 10), 100),
		trade("A", date(2024, time.January, 15), 0),
		trade("A", date(2024, time.January, 20), -40),
	}

	m := ComputeMetrics(ledger, 50000)

	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 1, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
}

func TestComputeMetricsSingleLosingTrade(t *testing.T) {
	m := ComputeMetrics([]*domain.Trade{trade("A", date(2024, time.January, 10), -50)}, 50000)
	assert.Equal(t, -50.0, m.MaxDrawdown)
}

func TestComputeMetricsDoesNotMutateInput(t *testing.T) {
	// Deliberately out of order; metrics must sort a copy.
	ledger := []*domain.Trade{
		trade("A", date(2024, time.February, 1), 200),
		trade("A", date(2024, time.January, 10), 100),
	}

	first := ComputeMetrics(ledger, 50000)

	assert.Equal(t, date(2024, time.February, 1), ledger[0].ExitDate)

	second := ComputeMetrics(ledger, 50000)
	assert.Equal(t, first, second)
}

func TestComputeMetricsWinRateBounds(t *testing.T) {
	ledgers := [][]*domain.Trade{
		nil,
		{trade("A", date(2024, time.January, 10), 100)},
		{trade("A", date(2024, time.January, 10), -100)},
		{
			trade("A", date(2024, time.January, 10), 100),
			trade("A", date(2024, time.January, 11), -10),
			trade("A", date(2024, time.January, 12), 0),
		},
	}
	for _, ledger := range ledgers {
		m := ComputeMetrics(ledger, 50000)
		assert.GreaterOrEqual(t, m.WinRate, 0.0)
		assert.LessOrEqual(t, m.WinRate, 100.0)
		assert.GreaterOrEqual(t, m.ProfitFactor, 0.0)
		assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
	}
}

func TestComputeByStrategy(t *testing.T) {
	ledger := []*domain.Trade{
		trade("A", date(2024, time.January, 10), 100),
		trade("A", date(2024, time.January, 15), -50),
		trade("B", date(2024, time.February, 1), 200),
	}

	byStrategy := ComputeByStrategy(ledger, 50000)
	require.Len(t, byStrategy, 2)

	assert.Equal(t, 2, byStrategy["A"].TotalTrades)
	assert.Equal(t, 50.0, byStrategy["A"].TotalPL)
	assert.Equal(t, 1, byStrategy["B"].TotalTrades)
	assert.Equal(t, 200.0, byStrategy["B"].TotalPL)
}

func TestCumulativeSeries(t *testing.T) {
	ledger := []*domain.Trade{
		trade("A", date(2024, time.January, 10), 100),
		trade("A", date(2024, time.January, 15), -50),
		trade("B", date(2024, time.February, 1), 200),
	}

	points := CumulativeSeries(ledger)
	require.Len(t, points, 3)

	assert.Equal(t, 100.0, points[0].Cumulative)
	assert.Equal(t, 0.0, points[0].Drawdown)
	assert.Equal(t, 50.0, points[1].Cumulative)
	assert.Equal(t, -50.0, points[1].Drawdown)
	assert.Equal(t, 250.0, points[2].Cumulative)
	assert.Equal(t, 0.0, points[2].Drawdown)
}
