package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can say "30m" or "1h";
// yaml.v3 has no native duration-string support.
type Duration time.Duration

// UnmarshalYAML parses either a duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("parse duration from %q", node.Value)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the immutable configuration for the analytics core. It is built
// once at startup and passed into every component; nothing reads it from
// ambient global state.
type Config struct {
	Margin   MarginConfig   `yaml:"margin"`
	Channels ChannelsConfig `yaml:"channels"`
	Costs    CostsConfig    `yaml:"costs"`
	Strategy StrategyConfig `yaml:"strategy"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Cache    CacheConfig    `yaml:"cache"`
	Store    StoreConfig    `yaml:"store"`
}

// MarginConfig holds the three components of the realized margin rate.
type MarginConfig struct {
	ConversionRate  float64 `yaml:"conversion_rate"`   // order-to-shipment conversion
	ProductCostRate float64 `yaml:"product_cost_rate"` // product cost share of revenue
	CommissionRate  float64 `yaml:"commission_rate"`   // sales commission share
}

// RealMarginRate returns the single scalar applied to revenue before cost
// subtraction: conversion * (1 - product_cost - commission).
func (m MarginConfig) RealMarginRate() float64 {
	return (1 - m.CommissionRate - m.ProductCostRate) * m.ConversionRate
}

// ChannelsConfig defines platform classification sets. Membership checks are
// performed on normalized keys, so casing and spacing variants in source data
// do not need to be enumerated here.
type ChannelsConfig struct {
	Live  []string `yaml:"live"`  // channels that carry live model/talent cost
	Major []string `yaml:"major"` // top platforms flagged is_major at ingestion
}

// CostsConfig holds the model-cost constants and the slot-cost lookup
// tables. Tables are keyed platform -> hour-of-day -> KRW; weekday and
// weekend pricing differ structurally, so they are separate tables.
type CostsConfig struct {
	ModelCostLive    float64                    `yaml:"model_cost_live"`
	ModelCostNonLive float64                    `yaml:"model_cost_non_live"`
	Weekday          map[string]map[int]float64 `yaml:"weekday"`
	Weekend          map[string]map[int]float64 `yaml:"weekend"`
}

// StrategyConfig tunes the slot-ranking heuristics.
type StrategyConfig struct {
	TrimPercent      float64 `yaml:"trim_percent"`       // trimmed-mean cut per tail
	ROICap           float64 `yaml:"roi_cap"`            // upper display clamp on ROI %
	MinObservations  int     `yaml:"min_observations"`   // eligibility floor for challenge/avoid
	TopHours         int     `yaml:"top_hours"`          // optimal-hour table size
	TopPriceRanges   int     `yaml:"top_price_ranges"`   // price-band table size
	WeekdayTopN      int     `yaml:"weekday_top_n"`      // per-weekday hour count
	ChallengeMinROI  float64 `yaml:"challenge_min_roi"`  // recoverable band lower bound
	ChallengeMaxROI  float64 `yaml:"challenge_max_roi"`  // recoverable band upper bound
	ChallengeRelaxed float64 `yaml:"challenge_relaxed"`  // fallback ceiling when band is thin
	AvoidExemptHours []int   `yaml:"avoid_exempt_hours"` // hours never ranked as "avoid" (product exception)
	PriceBandMin     float64 `yaml:"price_band_min"`     // observed unit-price domain lower bound
	PriceBandMax     float64 `yaml:"price_band_max"`     // observed unit-price domain upper bound
	PriceBandWidth   float64 `yaml:"price_band_width"`   // fixed band width
}

// PipelineConfig tunes extraction and cleaning.
type PipelineConfig struct {
	Version           string  `yaml:"version"`             // participates in the cache key
	MiscCategory      string  `yaml:"misc_category"`       // reserved noise bucket, excluded from analysis
	UnitNormThreshold float64 `yaml:"unit_norm_threshold"` // mean revenue above this triggers unit normalization
	UnitNormDivisor   float64 `yaml:"unit_norm_divisor"`   // divisor for hundred-million display units
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend   string   `yaml:"backend"` // "file" or "redis"
	Dir       string   `yaml:"dir"`
	TTL       Duration `yaml:"ttl"`
	RedisAddr string   `yaml:"redis_addr"`
	RedisDB   int      `yaml:"redis_db"`
}

// StoreConfig holds record-store connection settings.
type StoreConfig struct {
	DSN             string   `yaml:"dsn"` // SHOPLENS_PG_DSN overrides
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    Duration `yaml:"query_timeout"`
}

// DefaultConfig returns the production constants observed for the Korean
// home-shopping market. YAML files override individual fields.
func DefaultConfig() Config {
	return Config{
		Margin: MarginConfig{
			ConversionRate:  0.75,
			ProductCostRate: 0.13,
			CommissionRate:  0.10,
		},
		Channels: ChannelsConfig{
			Live: []string{
				"현대홈쇼핑", "GS홈쇼핑", "롯데홈쇼핑", "CJ온스타일",
				"홈앤쇼핑", "NS홈쇼핑", "공영쇼핑",
			},
			Major: []string{"GS홈쇼핑", "현대홈쇼핑", "CJ온스타일", "롯데홈쇼핑"},
		},
		Costs: CostsConfig{
			ModelCostLive:    10_400_000,
			ModelCostNonLive: 2_000_000,
			Weekday:          map[string]map[int]float64{},
			Weekend:          map[string]map[int]float64{},
		},
		Strategy: StrategyConfig{
			TrimPercent:      0.15,
			ROICap:           200,
			MinObservations:  2,
			TopHours:         7,
			TopPriceRanges:   7,
			WeekdayTopN:      5,
			ChallengeMinROI:  -30,
			ChallengeMaxROI:  10,
			ChallengeRelaxed: 20,
			AvoidExemptHours: []int{23},
			PriceBandMin:     70_000,
			PriceBandMax:     160_000,
			PriceBandWidth:   10_000,
		},
		Pipeline: PipelineConfig{
			Version:           "1.1.0",
			MiscCategory:      "기타",
			UnitNormThreshold: 10_000,
			UnitNormDivisor:   100_000_000,
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     "cache",
			TTL:     Duration(time.Hour),
		},
		Store: StoreConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: Duration(30 * time.Minute),
			QueryTimeout:    Duration(30 * time.Second),
		},
	}
}

// Load reads a YAML config file over the compiled defaults. A missing path
// returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if dsn := os.Getenv("SHOPLENS_PG_DSN"); dsn != "" {
		cfg.Store.DSN = dsn
	}
	if dir := os.Getenv("SHOPLENS_CACHE_DIR"); dir != "" {
		cfg.Cache.Dir = dir
	}

	return cfg, nil
}
