package eda

import (
	"math"
	"sort"
)

// DefaultTopN is the number of features kept by the ranking stage.
const DefaultTopN = 10

// TopFeatures ranks a correlation series by absolute coefficient and keeps the
// first n entries. The target's self-correlation is not filtered out. n <= 0
// yields an empty ranking.
func TopFeatures(corr Correlations, n int) Correlations {
	out := make(Correlations, len(corr))
	for i, e := range corr {
		out[i] = FeatureScore{Column: e.Column, Value: math.Abs(e.Value)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return descNaNLast(out[i].Value, out[j].Value)
	})
	if n < 0 {
		n = 0
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
