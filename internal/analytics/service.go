package analytics

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"revpulse/internal/config"
	"revpulse/internal/dataset"
	"revpulse/pkg/contracts/domain"
)

// Result is the full output of one analysis run: the summary for narration
// and KPI display, plus the canonical table, weekly series and anomaly list
// the presentation layer charts directly without further aggregation.
type Result struct {
	Summary      domain.Summary           `json:"summary"`
	Transactions []domain.Transaction     `json:"transactions"`
	Weekly       []domain.WeeklyPoint     `json:"weekly"`
	Anomalies    []domain.AnomalyPoint    `json:"anomalies"`
	Dropped      domain.DropReport        `json:"dropped"`
	Empty        bool                     `json:"empty"`
}

// Service runs the full pipeline: load, clean, aggregate, detect, summarize.
// Each call operates on its own canonical table; the only state shared
// between calls is the read-only memo cache.
type Service struct {
	loader  *dataset.Loader
	cleaner *dataset.Cleaner
	cfg     config.AnalysisConfig
	logger  *slog.Logger
	cache   *resultCache
	group   singleflight.Group
}

// NewService wires the pipeline for one schema contract.
func NewService(cfg config.AnalysisConfig, schema config.SchemaConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "analytics"))
	return &Service{
		loader:  dataset.NewLoader(schema.InvoiceDateColumn, logger),
		cleaner: dataset.NewCleaner(schema, logger),
		cfg:     cfg,
		logger:  logger,
		cache:   newResultCache(cfg.CacheSize),
	}
}

// DefaultContamination returns the configured fallback contamination rate.
func (s *Service) DefaultContamination() float64 {
	return s.cfg.DefaultContamination
}

// Analyze runs the pipeline on raw uploaded bytes. Identical content with
// an identical contamination rate is served from the memo cache; concurrent
// identical requests share a single computation.
func (s *Service) Analyze(ctx context.Context, name string, data []byte, contamination float64) (*Result, error) {
	key := cacheKey(data, contamination)

	if result, ok := s.cache.Get(key); ok {
		s.logger.Debug("analysis served from cache", slog.String("key", key[:12]))
		return result, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		result, err := s.run(name, data, contamination)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Result), nil
}

// run executes one uncached pipeline pass.
func (s *Service) run(name string, data []byte, contamination float64) (*Result, error) {
	raw, err := s.loader.Load(name, data)
	if err != nil {
		return nil, err
	}

	table, report, err := s.cleaner.Clean(raw)
	if err != nil {
		return nil, err
	}

	summary, weekly, err := BuildSummary(table, report, contamination)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	result := &Result{
		Summary:      summary,
		Transactions: table.Rows,
		Weekly:       weekly,
		Anomalies:    summary.Anomalies,
		Dropped:      report,
		Empty:        summary.Empty,
	}

	s.logger.Info("analysis complete",
		slog.String("file", name),
		slog.Int("transactions", len(table.Rows)),
		slog.Int("weeks", len(weekly)),
		slog.Int("anomalies", len(summary.Anomalies)),
		slog.Float64("contamination", contamination),
		slog.Bool("empty", summary.Empty))

	return result, nil
}

// CacheStats reports memo cache counters for diagnostics.
func (s *Service) CacheStats() (hits, misses int64, size int) {
	return s.cache.Stats()
}

// cacheKey derives the memo key from a content hash of the raw bytes and
// the normalized contamination rate.
func cacheKey(data []byte, contamination float64) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x:%s", sum, strconv.FormatFloat(contamination, 'g', -1, 64))
}
