package report

import (
	"math"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Histogram splits values into bins equal-width bins over [min, max] and
// returns each bin's center and normalized density (the bar areas sum to 1).
// When every value is equal the range is widened by 0.5 on each side.
func Histogram(values []float64, bins int) (centers []float64, densities []float64, err error) {
	if len(values) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidParameter, "histogram needs at least one value")
	}

	if bins <= 0 {
		return nil, nil, errors.Newf(errors.ErrCodeInvalidParameter, "invalid bin count %d", bins)
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)

	for _, v := range values {
		i := int((v - lo) / width)
		// the right edge belongs to the last bin
		if i >= bins {
			i = bins - 1
		}

		counts[i]++
	}

	centers = make([]float64, bins)
	densities = make([]float64, bins)

	for i, c := range counts {
		centers[i] = lo + width*(float64(i)+0.5)
		densities[i] = float64(c) / (float64(len(values)) * width)
	}

	return centers, densities, nil
}

// NormalPDF evaluates the normal density with the given mean and standard deviation.
func NormalPDF(x float64, mean float64, std float64) float64 {
	z := (x - mean) / std

	return math.Exp(-0.5*z*z) / (std * math.Sqrt(2*math.Pi))
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start float64, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		return []float64{start}
	}

	out := make([]float64, n)
	step := (stop - start) / float64(n-1)

	for i := range out {
		out[i] = start + step*float64(i)
	}

	return out
}

// LinearFit returns the least-squares slope and intercept of y over x.
// When every x is equal the slope is 0 and the intercept is the mean of y.
func LinearFit(xs []float64, ys []float64) (slope float64, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, errors.Newf(errors.ErrCodeInvalidParameter, "mismatched series lengths %d and %d", len(xs), len(ys))
	}

	if len(xs) < 2 {
		return 0, 0, errors.Newf(errors.ErrCodeInvalidParameter, "linear fit needs at least 2 points, got %d", len(xs))
	}

	n := float64(len(xs))

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}

	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}

	if sxx == 0 {
		return 0, meanY, nil
	}

	slope = sxy / sxx

	return slope, meanY - slope*meanX, nil
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, math.NaN()
	}

	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(ss / float64(len(values)-1))
}
