// Package stats provides the shared statistical primitives used by the
// trend engine and the strategy ranker. Every function tolerates empty
// input and NaN entries, returning a neutral value instead of panicking.
package stats

import (
	"math"
	"sort"
)

// dropNaN returns the finite values of xs, preserving order.
func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Sum returns the total of the finite values.
func Sum(xs []float64) float64 {
	sum := 0.0
	for _, x := range dropNaN(xs) {
		sum += x
	}
	return sum
}

// Std returns the sample standard deviation (n-1 denominator, matching the
// rolling std used by the volatility metrics), 0 for fewer than 2 values.
func Std(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// PopStd returns the population standard deviation, used by anomaly
// z-scores over a whole series.
func PopStd(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return 0
	}
	mean := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// Median returns the middle value, 0 for empty input.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Quantile returns the q-quantile (0..1) using linear interpolation between
// closest ranks, matching the numpy default used for the IQR rule.
func Quantile(xs []float64, q float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Min returns the smallest finite value, 0 for empty input.
func Min(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return 0
	}
	min := xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
	}
	return min
}

// Max returns the largest finite value, 0 for empty input.
func Max(xs []float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return 0
	}
	max := xs[0]
	for _, x := range xs[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// TrimmedMean is the canonical robust average used for every comparable
// ROI/revenue figure across slots: raw averages are dominated by rare
// mega-broadcasts. Values are sorted, floor(n*trim) dropped from each end,
// and the remainder averaged. Fewer than 10 values fall back to the plain
// mean, which is too few to trim meaningfully.
func TrimmedMean(xs []float64, trim float64) float64 {
	xs = dropNaN(xs)
	if len(xs) == 0 {
		return 0
	}
	if len(xs) < 10 {
		return Mean(xs)
	}
	cut := int(float64(len(xs)) * trim)
	if cut == 0 {
		return Mean(xs)
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return Mean(sorted[cut : len(sorted)-cut])
}

// LinearFit is an ordinary least-squares line y = Slope*x + Intercept.
type LinearFit struct {
	Slope     float64
	Intercept float64
	Valid     bool
}

// OLS fits a least-squares line through (xs, ys). Fewer than 2 points or a
// degenerate x-range yields an invalid fit.
func OLS(xs, ys []float64) LinearFit {
	if len(xs) != len(ys) || len(xs) < 2 {
		return LinearFit{}
	}
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return LinearFit{}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	return LinearFit{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
		Valid:     true,
	}
}

// Pearson returns the correlation coefficient of (xs, ys), 0 when either
// series is degenerate.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	meanX := Mean(xs)
	meanY := Mean(ys)
	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
