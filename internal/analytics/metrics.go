package analytics

import (
	"math"
	"sort"
	"time"

	"tradeledger/internal/domain"
)

// Metrics holds the portfolio performance figures for one trade set.
type Metrics struct {
	TotalPL        float64 // Sum of net P&L over the set
	TotalPLPercent float64 // TotalPL relative to the initial capital, in percent
	TotalCapital   float64 // Initial capital plus TotalPL
	TotalTrades    int
	WinningTrades  int     // Trades with net P&L > 0
	LosingTrades   int     // Trades with net P&L < 0
	WinRate        float64 // Winning / total, in percent; 0 on an empty set
	AvgWin         float64 // Mean net P&L over winners; 0 if none
	AvgLoss        float64 // Mean net P&L over losers; 0 if none
	ProfitFactor   float64 // |AvgWin / AvgLoss|; 0 when there are no losers
	MaxDrawdown    float64 // Deepest distance of cumulative P&L below its peak, <= 0
}

// ComputeMetrics derives the performance figures from a trade set. The
// input is never reordered or otherwise mutated, so repeat calls over
// the same set give identical results. Breakeven trades count toward
// the total but are neither wins nor losses.
func ComputeMetrics(trades []*domain.Trade, initialCapital float64) *Metrics {
	m := &Metrics{TotalCapital: initialCapital}
	if len(trades) == 0 {
		return m
	}

	var winSum, lossSum float64
	for _, t := range trades {
		m.TotalTrades++
		m.TotalPL += t.NetPL
		switch {
		case t.NetPL > 0:
			m.WinningTrades++
			winSum += t.NetPL
		case t.NetPL < 0:
			m.LosingTrades++
			lossSum += t.NetPL
		}
	}

	if initialCapital != 0 {
		m.TotalPLPercent = m.TotalPL / initialCapital * 100
	}
	m.TotalCapital = initialCapital + m.TotalPL
	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	if m.WinningTrades > 0 {
		m.AvgWin = winSum / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = lossSum / float64(m.LosingTrades)
	}
	if m.AvgLoss != 0 {
		m.ProfitFactor = math.Abs(m.AvgWin / m.AvgLoss)
	}
	m.MaxDrawdown = maxDrawdown(trades)
	return m
}

// ComputeByStrategy computes one metrics row per strategy, each against
// the same initial capital.
func ComputeByStrategy(trades []*domain.Trade, initialCapital float64) map[string]*Metrics {
	byStrategy := make(map[string][]*domain.Trade)
	for _, t := range trades {
		byStrategy[t.Strategy] = append(byStrategy[t.Strategy], t)
	}
	out := make(map[string]*Metrics, len(byStrategy))
	for s, subset := range byStrategy {
		out[s] = ComputeMetrics(subset, initialCapital)
	}
	return out
}

// EquityPoint is one step of the cumulative P&L curve.
type EquityPoint struct {
	Date       time.Time
	Cumulative float64
	Drawdown   float64
}

// CumulativeSeries returns the equity curve the cumulative charts
// consume, ordered by exit date ascending. The drawdown of each point
// is its distance below the running peak, measured against a peak that
// starts at zero (flat before the first trade).
func CumulativeSeries(trades []*domain.Trade) []EquityPoint {
	ordered := sortedByExit(trades)
	points := make([]EquityPoint, 0, len(ordered))
	var cum, peak float64
	for _, t := range ordered {
		cum += t.NetPL
		if cum > peak {
			peak = cum
		}
		points = append(points, EquityPoint{Date: t.ExitDate, Cumulative: cum, Drawdown: cum - peak})
	}
	return points
}

// maxDrawdown walks the cumulative P&L of an exit-date-ascending copy
// and reports the most negative distance below the running peak. The
// peak starts at zero, so a single losing trade draws down by its own
// loss.
func maxDrawdown(trades []*domain.Trade) float64 {
	var cum, peak, maxDD float64
	for _, t := range sortedByExit(trades) {
		cum += t.NetPL
		if cum > peak {
			peak = cum
		}
		if dd := cum - peak; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func sortedByExit(trades []*domain.Trade) []*domain.Trade {
	ordered := make([]*domain.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExitDate.Before(ordered[j].ExitDate)
	})
	return ordered
}
