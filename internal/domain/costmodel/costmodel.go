// Package costmodel derives total operating cost, realized profit, and ROI
// for a broadcast airing from the configured slot-cost tables and model-cost
// constants.
package costmodel

import (
	"math"

	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

// Model is a pure function of its configuration: identical inputs always
// produce identical cost and ROI figures.
type Model struct {
	live             record.KeySet
	modelCostLive    float64
	modelCostNonLive float64
	weekday          map[record.PlatformKey]map[int]float64
	weekend          map[record.PlatformKey]map[int]float64
	marginRate       float64
	roiCap           float64
}

// New builds a Model from configuration. Cost-table keys are normalized
// once here so lookups never need fuzzy matching.
func New(cfg config.Config) *Model {
	return &Model{
		live:             record.NewKeySet(cfg.Channels.Live),
		modelCostLive:    cfg.Costs.ModelCostLive,
		modelCostNonLive: cfg.Costs.ModelCostNonLive,
		weekday:          normalizeTable(cfg.Costs.Weekday),
		weekend:          normalizeTable(cfg.Costs.Weekend),
		marginRate:       cfg.Margin.RealMarginRate(),
		roiCap:           cfg.Strategy.ROICap,
	}
}

func normalizeTable(table map[string]map[int]float64) map[record.PlatformKey]map[int]float64 {
	out := make(map[record.PlatformKey]map[int]float64, len(table))
	for platform, hours := range table {
		key := record.NormalizeKey(platform)
		dst := out[key]
		if dst == nil {
			dst = make(map[int]float64, len(hours))
			out[key] = dst
		}
		for hour, cost := range hours {
			dst[hour] = cost
		}
	}
	return out
}

// MarginRate returns the configured realized-margin scalar.
func (m *Model) MarginRate() float64 { return m.marginRate }

// IsLive reports whether the platform carries live model/talent cost.
func (m *Model) IsLive(platform string) bool { return m.live.Contains(platform) }

// ModelCost returns the fixed talent cost for the platform.
func (m *Model) ModelCost(platform string) float64 {
	if m.IsLive(platform) {
		return m.modelCostLive
	}
	return m.modelCostNonLive
}

// SlotCost looks up the base broadcast-slot cost for (platform, hour).
// Weekend slots price from a separate table. A missing entry is 0,
// interpreted downstream as "unknown cost", not an error.
func (m *Model) SlotCost(platform string, hour int, weekend bool) float64 {
	table := m.weekday
	if weekend {
		table = m.weekend
	}
	hours, ok := table[record.NormalizeKey(platform)]
	if !ok {
		return 0
	}
	return hours[hour]
}

// Costing is the derived cost/ROI bundle for one airing.
type Costing struct {
	IsLive     bool
	ModelCost  float64
	SlotCost   float64
	TotalCost  float64
	RealProfit float64
	ROI        float64 // clamped to the configured cap, always finite
}

// Cost derives the full costing for an airing. slotCost may come from the
// record itself (ingested cost column) or from SlotCost; when it is zero
// or negative the cost is unknown and ROI is forced to 0 rather than
// computed against the model cost alone.
func (m *Model) Cost(platform string, revenue, slotCost float64) Costing {
	c := Costing{
		IsLive:   m.IsLive(platform),
		SlotCost: slotCost,
	}
	c.ModelCost = m.ModelCost(platform)
	c.TotalCost = slotCost + c.ModelCost
	c.RealProfit = revenue*m.marginRate - c.TotalCost

	if slotCost <= 0 || c.TotalCost <= 0 {
		return c
	}
	c.ROI = m.clampROI(c.RealProfit / c.TotalCost * 100)
	return c
}

// ROI computes the clamped ROI percentage for an explicit revenue/cost
// pair. NaN and infinite intermediate results resolve to 0.
func (m *Model) ROI(revenue, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return m.clampROI((revenue*m.marginRate - totalCost) / totalCost * 100)
}

func (m *Model) clampROI(roi float64) float64 {
	if math.IsNaN(roi) || math.IsInf(roi, 0) {
		return 0
	}
	if m.roiCap > 0 && roi > m.roiCap {
		return m.roiCap
	}
	return roi
}
