package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"sort"
	"time"

	"tradeledger/config"
	"tradeledger/internal/adapters/logger"
	"tradeledger/internal/adapters/sqlite"
	"tradeledger/internal/adapters/xlsx"
	"tradeledger/internal/analytics"
	"tradeledger/internal/app"
	"tradeledger/internal/ingest"
	"tradeledger/internal/ports"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	var appLogger ports.Logger
	if cfg.LogFormat == "json" {
		appLogger = logger.NewZeroLogger(cfg.LogLevel)
	} else {
		appLogger = logger.NewStdLogger(cfg.LogLevel)
	}
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Sources in the configured precedence order
	bindings, cleanup, err := buildSources(cfg, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trade sources")
		log.Fatalf("FATAL: Failed to initialize trade sources: %v", err)
	}
	defer cleanup()

	// 4. Initialize Application Service
	service, err := app.NewPortfolioService(cfg, appLogger, bindings)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize portfolio service")
		log.Fatalf("FATAL: Failed to initialize portfolio service: %v", err)
	}

	// 5. Run one full ingestion pass and print the summary
	ctx := context.Background()
	if err := service.Refresh(ctx); err != nil {
		appLogger.Error(ctx, err, "FATAL: Ledger refresh failed")
		log.Fatalf("FATAL: Ledger refresh failed: %v", err)
	}

	printSummary(service, cfg.InitialCapital)
}

// buildSources wires the configured ingestion paths. Order follows
// cfg.SourceOrder, which is also the dedup precedence. A source whose
// path is not configured is skipped.
func buildSources(cfg *config.Config, appLogger ports.Logger) ([]app.SourceBinding, func(), error) {
	var bindings []app.SourceBinding
	var closers []func() error

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing source")
			}
		}
	}

	for _, name := range cfg.SourceOrder {
		switch name {
		case config.SourceSQLite:
			if cfg.DBPath == "" {
				continue
			}
			src, err := sqlite.NewSource(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			closers = append(closers, src.Close)
			// The diary query already emits canonical headers.
			bindings = append(bindings, app.SourceBinding{Source: src})
		case config.SourceXLSX:
			if cfg.XLSXPath == "" {
				continue
			}
			src, err := xlsx.NewSource(xlsx.Config{Path: cfg.XLSXPath, Logger: appLogger})
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			bindings = append(bindings, app.SourceBinding{Source: src, Mapping: ingest.ExcelCzechMapping})
		}
	}
	return bindings, cleanup, nil
}

func printSummary(service *app.PortfolioService, initialCapital float64) {
	now := time.Now()
	ledger := service.Ledger()
	m := service.Metrics(analytics.WindowAllTime, now)

	fmt.Printf("Trades:          %d (%d sources reconciled)\n", m.TotalTrades, countSources(service))
	fmt.Printf("Total P&L:       %.2f (%.2f%% of %.0f)\n", m.TotalPL, m.TotalPLPercent, initialCapital)
	fmt.Printf("Total capital:   %.2f\n", m.TotalCapital)
	fmt.Printf("Win rate:        %.2f%% (%d/%d, %d losing)\n", m.WinRate, m.WinningTrades, m.TotalTrades, m.LosingTrades)
	fmt.Printf("Avg win/loss:    %.2f / %.2f\n", m.AvgWin, m.AvgLoss)
	fmt.Printf("Profit factor:   %.2f\n", m.ProfitFactor)
	fmt.Printf("Max drawdown:    %.2f\n", m.MaxDrawdown)
	if len(ledger) > 0 {
		fmt.Printf("Date range:      %s to %s\n",
			ledger[0].ExitDate.Format("2006-01-02"),
			ledger[len(ledger)-1].ExitDate.Format("2006-01-02"))
	}

	byStrategy := service.MetricsByStrategy(analytics.WindowAllTime, now)
	strategies := make([]string, 0, len(byStrategy))
	for s := range byStrategy {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)

	fmt.Println("\nPer strategy:")
	for _, s := range strategies {
		sm := byStrategy[s]
		fmt.Printf("  %-20s  trades=%-4d  pl=%-10.2f  win=%.1f%%  pf=%.2f\n",
			s, sm.TotalTrades, sm.TotalPL, sm.WinRate, sm.ProfitFactor)
	}
}

func countSources(service *app.PortfolioService) int {
	seen := make(map[string]struct{})
	for _, t := range service.Ledger() {
		seen[t.Source] = struct{}{}
	}
	return len(seen)
}
