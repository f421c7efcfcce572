package trend

import (
	"math"

	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// anomalyRules is the number of independent detection rules combined into
// the composite flag and score.
const anomalyRules = 4

// maDeviationLimit is the percent deviation from the 30-point moving
// average beyond which a point is flagged.
const maDeviationLimit = 50.0

// AnomalyReport holds per-point anomaly flags. A point is anomalous when
// any rule fires; Score is the fraction of rules that fired.
type AnomalyReport struct {
	ZScore        []float64 `json:"z_score"`
	ZFlag         []bool    `json:"is_anomaly_zscore"`
	IQRFlag       []bool    `json:"is_outlier_iqr"`
	MADeviation   []float64 `json:"deviation_from_ma"`
	MAFlag        []bool    `json:"is_anomaly_ma"`
	BandFlag      []bool    `json:"is_anomaly_bb"`
	IsAnomaly     []bool    `json:"is_anomaly"`
	Score         []float64 `json:"anomaly_score"`
	AnomalyCount  int       `json:"anomaly_count"`
	AnomalyRatio  float64   `json:"anomaly_ratio"` // percentage of points flagged
	ZThreshold    float64   `json:"z_threshold"`
	LowerFence    float64   `json:"iqr_lower_fence"`
	UpperFence    float64   `json:"iqr_upper_fence"`
}

// DetectAnomalies combines four independent rules: z-score beyond the
// threshold, the 1.5-IQR fence, >50% deviation from the 30-point moving
// average, and a Bollinger band breach.
func DetectAnomalies(values, ma30, bbUpper, bbLower []float64, threshold float64) AnomalyReport {
	n := len(values)
	r := AnomalyReport{
		ZScore:      make([]float64, n),
		ZFlag:       make([]bool, n),
		IQRFlag:     make([]bool, n),
		MADeviation: make([]float64, n),
		MAFlag:      make([]bool, n),
		BandFlag:    make([]bool, n),
		IsAnomaly:   make([]bool, n),
		Score:       make([]float64, n),
		ZThreshold:  threshold,
	}
	if n == 0 {
		return r
	}

	mean := stats.Mean(values)
	std := stats.Std(values)

	q1 := stats.Quantile(values, 0.25)
	q3 := stats.Quantile(values, 0.75)
	iqr := q3 - q1
	r.LowerFence = q1 - 1.5*iqr
	r.UpperFence = q3 + 1.5*iqr

	for i, v := range values {
		if std > 0 {
			r.ZScore[i] = math.Abs((v - mean) / std)
		}
		r.ZFlag[i] = r.ZScore[i] > threshold
		r.IQRFlag[i] = v < r.LowerFence || v > r.UpperFence

		if i < len(ma30) {
			r.MADeviation[i] = safeDiv(math.Abs(v-ma30[i]), ma30[i], 0) * 100
			r.MAFlag[i] = r.MADeviation[i] > maDeviationLimit
		}
		if i < len(bbUpper) && i < len(bbLower) {
			r.BandFlag[i] = v > bbUpper[i] || v < bbLower[i]
		}

		fired := 0
		for _, f := range []bool{r.ZFlag[i], r.IQRFlag[i], r.MAFlag[i], r.BandFlag[i]} {
			if f {
				fired++
			}
		}
		r.IsAnomaly[i] = fired > 0
		r.Score[i] = float64(fired) / anomalyRules
		if r.IsAnomaly[i] {
			r.AnomalyCount++
		}
	}
	r.AnomalyRatio = float64(r.AnomalyCount) / float64(n) * 100
	return r
}
