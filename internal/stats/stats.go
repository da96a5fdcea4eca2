// Package stats adapts gonum's descriptive statistics to the conventions the
// EDA stages rely on: sample (n-1) dispersion, bias-corrected skewness and
// excess kurtosis, linear-interpolated quantiles, and NaN for undefined results
// instead of panics.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or NaN for an empty sample.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator), or NaN when
// fewer than two values are given.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// Skew returns the adjusted Fisher-Pearson skewness. It is NaN below three
// values and 0 for a constant sample.
func Skew(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	if StdDev(x) == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// Kurtosis returns the bias-corrected excess kurtosis. It is NaN below four
// values and 0 for a constant sample.
func Kurtosis(x []float64) float64 {
	if len(x) < 4 {
		return math.NaN()
	}
	if StdDev(x) == 0 {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}

// Min returns the smallest value, or NaN for an empty sample.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Max returns the largest value, or NaN for an empty sample.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Median returns the middle value, averaging the two central values for even
// sample sizes.
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Quantile returns the q-th quantile using linear interpolation between the
// closest ranks. The input is not modified.
func Quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
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
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Pearson returns the Pearson correlation over the positions where both x and
// y are non-NaN. It is NaN with fewer than two complete pairs or when either
// side has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if StdDev(xs) == 0 || StdDev(ys) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
