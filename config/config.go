package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"tradeledger/internal/adapters/logger" // Import the logger package for LogLevel
)

// Source identifiers accepted in SOURCE_ORDER.
const (
	SourceSQLite = "sqlite"
	SourceXLSX   = "xlsx"
)

// Config holds all application configuration. It is loaded once and
// passed explicitly into the ingestion entry point; nothing reads the
// environment after startup.
type Config struct {
	// Sources. SourceOrder doubles as the deduplication precedence:
	// on a key collision the earlier source wins.
	DBPath      string
	XLSXPath    string
	SourceOrder []string

	// Ledger
	InitialCapital float64
	MinYear        int
	MaxYear        int

	// Logging
	LogLevel  logger.LogLevel
	LogFormat string // "std" for plain lines, "json" for structured output
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Sources
	cfg.DBPath = getEnv("DB_PATH", "")
	cfg.XLSXPath = getEnv("XLSX_PATH", "")
	if cfg.DBPath == "" && cfg.XLSXPath == "" {
		errs = append(errs, "at least one of DB_PATH and XLSX_PATH must be set")
	}

	orderStr := getEnv("SOURCE_ORDER", SourceSQLite+","+SourceXLSX)
	for _, s := range strings.Split(orderStr, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" {
			continue
		}
		if s != SourceSQLite && s != SourceXLSX {
			errs = append(errs, fmt.Sprintf("unknown source %q in SOURCE_ORDER", s))
			continue
		}
		cfg.SourceOrder = append(cfg.SourceOrder, s)
	}
	if len(cfg.SourceOrder) == 0 {
		errs = append(errs, "SOURCE_ORDER must name at least one source")
	}

	// Ledger
	cfg.InitialCapital, err = getEnvAsFloatRequired("INITIAL_CAPITAL", 50000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INITIAL_CAPITAL: %v", err))
	} else if cfg.InitialCapital <= 0 {
		errs = append(errs, "INITIAL_CAPITAL must be positive")
	}

	cfg.MinYear = getEnvAsInt("MIN_YEAR", 2010)
	cfg.MaxYear = getEnvAsInt("MAX_YEAR", 2035)
	if cfg.MinYear <= 0 || cfg.MaxYear < cfg.MinYear {
		errs = append(errs, fmt.Sprintf("invalid calendar bounds [%d, %d]", cfg.MinYear, cfg.MaxYear))
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "std"))
	if cfg.LogFormat != "std" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be 'std' or 'json', got %q", cfg.LogFormat))
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}
