package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"tradeledger/config"
	"tradeledger/internal/adapters/logger"
	"tradeledger/internal/adapters/sqlite"
	"tradeledger/internal/adapters/xlsx"
	"tradeledger/internal/analytics"
	"tradeledger/internal/app"
	"tradeledger/internal/ingest"
	"tradeledger/internal/utils"
)

// Exports the reconciled ledger, the all-time metrics and both heatmap
// grids as CSV files next to each other, for spreadsheet-side checks of
// what the dashboard shows.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	var bindings []app.SourceBinding
	for _, name := range cfg.SourceOrder {
		switch name {
		case config.SourceSQLite:
			if cfg.DBPath == "" {
				continue
			}
			src, err := sqlite.NewSource(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
			if err != nil {
				log.Fatalf("FATAL: Failed to open tradebook: %v", err)
			}
			defer src.Close()
			bindings = append(bindings, app.SourceBinding{Source: src})
		case config.SourceXLSX:
			if cfg.XLSXPath == "" {
				continue
			}
			src, err := xlsx.NewSource(xlsx.Config{Path: cfg.XLSXPath, Logger: appLogger})
			if err != nil {
				log.Fatalf("FATAL: Failed to open workbook: %v", err)
			}
			bindings = append(bindings, app.SourceBinding{Source: src, Mapping: ingest.ExcelCzechMapping})
		}
	}

	service, err := app.NewPortfolioService(cfg, appLogger, bindings)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize portfolio service: %v", err)
	}
	if err := service.Refresh(ctx); err != nil {
		log.Fatalf("FATAL: Ledger refresh failed: %v", err)
	}

	outDir := "data"
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create output directory: %v", err)
	}
	now := time.Now()
	ledger := service.Ledger()

	exports := []struct {
		file  string
		write func(string) error
	}{
		{"ledger.csv", func(p string) error { return utils.WriteTradesToCSV(ledger, p) }},
		{"metrics.csv", func(p string) error {
			return utils.WriteMetricsToCSV(service.Metrics(analytics.WindowAllTime, now), p)
		}},
		{"heatmap_year.csv", func(p string) error {
			return utils.WriteGridToCSV(service.YearHeatmap(analytics.WindowAllTime, now), "year", p)
		}},
		{"heatmap_strategy.csv", func(p string) error {
			return utils.WriteGridToCSV(service.StrategyHeatmap(analytics.WindowAllTime, now), "strategy", p)
		}},
	}
	for _, e := range exports {
		path := filepath.Join(outDir, e.file)
		if err := e.write(path); err != nil {
			log.Fatalf("FATAL: Failed to write %s: %v", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	fmt.Printf("Exported %d trades\n", len(ledger))
}
