// Package pipeline orchestrates the analytics flow: extraction from the
// record store, cleaning, time-bucketed aggregation, trend decoration,
// category analysis, and result caching.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/domain/costmodel"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
	"github.com/hyeonwoo/shoplens/internal/domain/trend"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/cache"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/store"
	"github.com/hyeonwoo/shoplens/internal/telemetry"
)

// Request parameterizes one pipeline execution. Identical requests inside
// the cache TTL return identical bundles.
type Request struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	Platforms      []string  `json:"platforms,omitempty"`
	Categories     []string  `json:"categories,omitempty"`
	RevenueCeiling float64   `json:"revenue_ceiling,omitempty"`
	UseCache       bool      `json:"-"`
}

// DailyTrend is the daily bucket series with the full metric suite.
type DailyTrend struct {
	Rows     []DailyRow          `json:"rows"`
	Metrics  trend.SeriesMetrics `json:"metrics"`
	Forecast trend.Forecast      `json:"forecast"`
}

// Bundle is the complete pipeline output.
type Bundle struct {
	RunID    string        `json:"run_id"`
	Empty    bool          `json:"empty"` // no records matched; render a "no data" state
	CacheHit bool          `json:"cache_hit"`
	Daily    DailyTrend    `json:"daily"`
	Weekly   []WeeklyRow   `json:"weekly"`
	Monthly  []MonthlyRow  `json:"monthly"`
	Category []CategoryRow `json:"category"`
	Summary  Summary       `json:"summary"`
}

// Pipeline wires the record store, cost model, cache, and telemetry.
type Pipeline struct {
	store   store.RecordStore
	model   *costmodel.Model
	cache   cache.Cache
	metrics *telemetry.Metrics
	cfg     config.PipelineConfig
}

// Option configures optional collaborators.
type Option func(*Pipeline)

// WithCache attaches a result cache.
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New builds a pipeline over a record store.
func New(cfg config.Config, s store.RecordStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		store: s,
		model: costmodel.New(cfg),
		cfg:   cfg.Pipeline,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// cacheKey canonicalizes the request together with the pipeline version so
// logic changes invalidate old entries.
func (p *Pipeline) cacheKey(req Request) string {
	return cache.Key(map[string]any{
		"from":            req.From.Format("2006-01-02"),
		"to":              req.To.Format("2006-01-02"),
		"platforms":       req.Platforms,
		"categories":      req.Categories,
		"revenue_ceiling": req.RevenueCeiling,
		"version":         p.cfg.Version,
	})
}

// Execute runs extraction, cleaning, aggregation, trend decoration, and
// category analysis, consulting the cache first when requested. Zero
// matching records yield an explicit empty bundle, not an error.
func (p *Pipeline) Execute(ctx context.Context, req Request) (Bundle, error) {
	start := time.Now()
	key := p.cacheKey(req)

	if req.UseCache && p.cache != nil {
		if data, ok := p.cache.Get(ctx, key); ok {
			var cached Bundle
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.CacheHit = true
				p.metrics.ObserveCache("hit")
				p.metrics.ObserveRun("cached", time.Since(start))
				log.Info().Str("key", key).Msg("bundle served from cache")
				return cached, nil
			}
			log.Warn().Str("key", key).Msg("cache entry corrupt, recomputing")
		}
		p.metrics.ObserveCache("miss")
	}

	raw, err := p.store.Query(ctx, record.Filter{
		From:            req.From,
		To:              req.To,
		Platforms:       req.Platforms,
		Categories:      req.Categories,
		RevenueCeiling:  req.RevenueCeiling,
		ExcludeCategory: p.cfg.MiscCategory,
	})
	if err != nil {
		p.metrics.ObserveRun("error", time.Since(start))
		return Bundle{}, err
	}

	bundle := Bundle{RunID: uuid.NewString()}
	if len(raw) == 0 {
		bundle.Empty = true
		p.metrics.ObserveRun("empty", time.Since(start))
		log.Info().Msg("no records matched filters")
		return bundle, nil
	}

	cleaned := p.Clean(raw)
	p.metrics.SetRecordsProcessed(len(cleaned))

	daily := aggregateDaily(cleaned)
	dates := make([]time.Time, len(daily))
	revenues := make([]float64, len(daily))
	for i, row := range daily {
		dates[i] = row.Date
		revenues[i] = row.Revenue
	}

	bundle.Daily = DailyTrend{
		Rows:     daily,
		Metrics:  trend.ComputeAll(dates, revenues),
		Forecast: trend.ComputeForecast(revenues, 7),
	}
	bundle.Weekly = aggregateWeekly(cleaned)
	bundle.Monthly = aggregateMonthly(cleaned)
	bundle.Category = analyzeCategoryTrends(cleaned)
	bundle.Summary = buildSummary(daily, bundle.Daily.Metrics)

	if req.UseCache && p.cache != nil {
		if data, err := json.Marshal(bundle); err == nil {
			p.cache.Set(ctx, key, data)
		}
	}

	p.metrics.ObserveRun("computed", time.Since(start))
	log.Info().Str("run_id", bundle.RunID).
		Int("daily", len(bundle.Daily.Rows)).
		Int("weekly", len(bundle.Weekly)).
		Int("monthly", len(bundle.Monthly)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline executed")
	return bundle, nil
}
