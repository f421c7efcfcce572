package costmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo/shoplens/internal/config"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Costs.Weekday = map[string]map[int]float64{
		"GS홈쇼핑": {9: 30_000_000, 21: 38_000_000},
	}
	cfg.Costs.Weekend = map[string]map[int]float64{
		"GS홈쇼핑": {9: 36_000_000},
	}
	return cfg
}

func TestMarginRate(t *testing.T) {
	m := New(testConfig())
	assert.InDelta(t, 0.5775, m.MarginRate(), 1e-12)
}

func TestIsLive_NormalizedLookup(t *testing.T) {
	m := New(testConfig())
	assert.True(t, m.IsLive("GS홈쇼핑"))
	assert.True(t, m.IsLive(" gs홈쇼핑 ")) // spacing and case variants match
	assert.False(t, m.IsLive("쿠팡"))
}

func TestModelCost(t *testing.T) {
	m := New(testConfig())
	assert.Equal(t, 10_400_000.0, m.ModelCost("현대홈쇼핑"))
	assert.Equal(t, 2_000_000.0, m.ModelCost("알수없는채널"))
}

func TestSlotCost_WeekdayWeekendTables(t *testing.T) {
	m := New(testConfig())
	assert.Equal(t, 30_000_000.0, m.SlotCost("GS홈쇼핑", 9, false))
	assert.Equal(t, 36_000_000.0, m.SlotCost("GS홈쇼핑", 9, true))
	assert.Equal(t, 0.0, m.SlotCost("GS홈쇼핑", 3, false)) // no entry for the hour
	assert.Equal(t, 0.0, m.SlotCost("미지의채널", 9, false))
}

func TestCost_LiveScenario(t *testing.T) {
	m := New(testConfig())
	c := m.Cost("GS홈쇼핑", 100_000_000, 30_000_000)

	require.True(t, c.IsLive)
	assert.Equal(t, 10_400_000.0, c.ModelCost)
	assert.Equal(t, 40_400_000.0, c.TotalCost)
	// 100M * 0.5775 - 40.4M = 17.35M profit.
	assert.InDelta(t, 17_350_000, c.RealProfit, 1e-6)
	assert.InDelta(t, 17_350_000.0/40_400_000.0*100, c.ROI, 1e-9)
}

func TestCost_UnknownSlotCostMeansZeroROI(t *testing.T) {
	m := New(testConfig())
	c := m.Cost("GS홈쇼핑", 500_000_000, 0)
	assert.Equal(t, 0.0, c.ROI)
	// Profit is still reported against the known model cost.
	assert.InDelta(t, 500_000_000*0.5775-10_400_000, c.RealProfit, 1e-6)
}

func TestROI_FixedPoints(t *testing.T) {
	m := New(testConfig())

	// Zero revenue against a real cost loses exactly the cost.
	assert.InDelta(t, -100, m.ROI(0, 40_400_000), 1e-12)
	// Unknown cost is neutral, not infinite.
	assert.Equal(t, 0.0, m.ROI(1_000_000, 0))
	assert.Equal(t, 0.0, m.ROI(1_000_000, -5))
}

func TestROI_ClampedAtCap(t *testing.T) {
	m := New(testConfig())
	assert.Equal(t, 200.0, m.ROI(1e12, 1_000_000))
}
