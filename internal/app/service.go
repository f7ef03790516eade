package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradeledger/config"
	"tradeledger/internal/analytics"
	"tradeledger/internal/domain"
	"tradeledger/internal/ingest"
	"tradeledger/internal/ports"
)

// SourceBinding pairs a table source with the column mapping its
// headers need. A nil mapping leaves the heuristic fallback in charge,
// which suits sources that already emit canonical headers.
type SourceBinding struct {
	Source  ports.TableSource
	Mapping ingest.ColumnMapping
}

// PortfolioService runs the full fetch-reconcile pass and serves the
// resulting ledger and its analytics to the presentation layer. The
// ledger snapshot is immutable once swapped in; readers always get
// copies.
type PortfolioService struct {
	cfg        *config.Config
	logger     ports.Logger
	sources    []SourceBinding
	reconciler *ingest.Reconciler
	cache      *ingest.Cache

	mu     sync.Mutex // Protects the ledger snapshot below
	ledger []*domain.Trade
}

// NewPortfolioService creates the application service.
func NewPortfolioService(cfg *config.Config, logger ports.Logger, sources []SourceBinding) (*PortfolioService, error) {
	if cfg == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for PortfolioService")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one table source is required: %w", ports.ErrConfigurationError)
	}
	for _, b := range sources {
		if b.Source == nil {
			return nil, fmt.Errorf("nil table source in bindings: %w", ports.ErrConfigurationError)
		}
	}

	reconciler, err := ingest.NewReconciler(logger, ingest.DateBounds{MinYear: cfg.MinYear, MaxYear: cfg.MaxYear})
	if err != nil {
		return nil, err
	}

	return &PortfolioService{
		cfg:        cfg,
		logger:     logger,
		sources:    sources,
		reconciler: reconciler,
		cache:      ingest.NewCache(),
	}, nil
}

// Refresh re-runs the fetch-and-reconcile pass. A source that fails to
// produce tables is skipped so the remaining sources still feed the
// ledger; the pass is answered from cache when the raw inputs are
// byte-identical to the previous run. Refresh fails only when every
// configured source is unavailable.
func (s *PortfolioService) Refresh(ctx context.Context) error {
	inputs := make([]ingest.SourceInput, 0, len(s.sources))
	for _, b := range s.sources {
		tables, err := b.Source.Tables(ctx)
		if err != nil {
			s.logger.Warn(ctx, "Source unavailable, skipping", map[string]interface{}{
				"source": b.Source.Name(), "error": err.Error(),
			})
			continue
		}
		inputs = append(inputs, ingest.SourceInput{
			Source:  b.Source.Name(),
			Tables:  tables,
			Mapping: b.Mapping,
		})
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no source produced tables: %w", ports.ErrSourceUnavailable)
	}

	key := ingest.Fingerprint(inputs)
	ledger, cached := s.cache.Get(key)
	if !cached {
		ledger = s.reconciler.Reconcile(ctx, inputs)
		s.cache.Put(key, ledger)
	}

	s.mu.Lock()
	s.ledger = ledger
	s.mu.Unlock()

	s.logger.Info(ctx, "Ledger refreshed", map[string]interface{}{
		"trades": len(ledger), "sources": len(inputs), "cached": cached,
	})
	return nil
}

// Invalidate drops the memoized reconcile pass so the next Refresh
// recomputes from scratch.
func (s *PortfolioService) Invalidate() {
	s.cache.Invalidate()
}

// Ledger returns a copy of the current ledger snapshot, ordered by exit
// date ascending.
func (s *PortfolioService) Ledger() []*domain.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Trade, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// Metrics computes the performance figures for the given window,
// resolved against the supplied clock value.
func (s *PortfolioService) Metrics(w analytics.Window, now time.Time) *analytics.Metrics {
	return analytics.ComputeMetrics(analytics.FilterByWindow(s.Ledger(), w, now), s.cfg.InitialCapital)
}

// MetricsByStrategy computes one metrics row per strategy for the given
// window.
func (s *PortfolioService) MetricsByStrategy(w analytics.Window, now time.Time) map[string]*analytics.Metrics {
	return analytics.ComputeByStrategy(analytics.FilterByWindow(s.Ledger(), w, now), s.cfg.InitialCapital)
}

// YearHeatmap buckets the windowed ledger into the year x month grid.
func (s *PortfolioService) YearHeatmap(w analytics.Window, now time.Time) analytics.MonthlyGrid {
	return analytics.ByYearMonth(analytics.FilterByWindow(s.Ledger(), w, now))
}

// StrategyHeatmap buckets the windowed ledger into the strategy x month
// grid.
func (s *PortfolioService) StrategyHeatmap(w analytics.Window, now time.Time) analytics.MonthlyGrid {
	return analytics.ByStrategyMonth(analytics.FilterByWindow(s.Ledger(), w, now))
}

// EquityCurve returns the cumulative P&L series for the given window.
func (s *PortfolioService) EquityCurve(w analytics.Window, now time.Time) []analytics.EquityPoint {
	return analytics.CumulativeSeries(analytics.FilterByWindow(s.Ledger(), w, now))
}
