package trend

// MovingAverages holds the smoothing columns for a series.
type MovingAverages struct {
	MA7   []float64 `json:"ma_7"`
	MA30  []float64 `json:"ma_30"`
	MA90  []float64 `json:"ma_90"`
	EMA7  []float64 `json:"ema_7"`
	EMA30 []float64 `json:"ema_30"`
	WMA7  []float64 `json:"wma_7"`
	// Current value as a percentage of its own moving average; 100 means
	// "no deviation" and is the fallback when the average is 0.
	MARatio7  []float64 `json:"ma_ratio_7"`
	MARatio30 []float64 `json:"ma_ratio_30"`
}

// ComputeMovingAverages derives simple, exponential, and linearly-weighted
// moving averages. Simple and weighted averages use a minimum period of 1:
// a short prefix averages what it has instead of going missing.
func ComputeMovingAverages(values []float64) MovingAverages {
	n := len(values)
	m := MovingAverages{
		MA7:       SMA(values, 7),
		MA30:      SMA(values, 30),
		MA90:      SMA(values, 90),
		EMA7:      EMA(values, 7),
		EMA30:     EMA(values, 30),
		WMA7:      WMA(values, 7),
		MARatio7:  make([]float64, n),
		MARatio30: make([]float64, n),
	}
	for i := range values {
		m.MARatio7[i] = safeDiv(values[i], m.MA7[i], 1) * 100
		m.MARatio30[i] = safeDiv(values[i], m.MA30[i], 1) * 100
	}
	return m
}

// SMA is a trailing simple moving average with min_periods=1 semantics.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// EMA is an exponential moving average with alpha = 2/(span+1), seeded on
// the first value (adjust=false semantics).
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// WMA is a linearly-weighted trailing average: the most recent point in the
// window carries the largest weight.
func WMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		win := trailing(values, i, window)
		var num, den float64
		for j, v := range win {
			w := float64(j + 1)
			num += v * w
			den += w
		}
		out[i] = num / den
	}
	return out
}
