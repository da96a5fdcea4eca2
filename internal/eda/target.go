package eda

import (
	"sort"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/stats"
)

// AnalyzeTarget summarizes the target column, branching on its kind.
func AnalyzeTarget(ds *dataset.Dataset, target string) (TargetSummary, error) {
	col, ok := ds.Column(target)
	if !ok {
		return nil, &InvalidColumnError{Column: target, Available: ds.Names()}
	}
	if col.Kind() == dataset.Numeric {
		vals := col.Floats()
		return &NumericSummary{
			Count:    len(vals),
			Mean:     stats.Mean(vals),
			Std:      stats.StdDev(vals),
			Skew:     stats.Skew(vals),
			Kurtosis: stats.Kurtosis(vals),
			Median:   stats.Median(vals),
			Min:      stats.Min(vals),
			Max:      stats.Max(vals),
		}, nil
	}
	counts := countValues(col.Texts())
	values := make([]string, len(counts))
	for i, vc := range counts {
		values[i] = vc.Value
	}
	sortByCount(counts)
	return &CategoricalSummary{
		Dtype:       col.Kind().String(),
		UniqueCount: len(values),
		Values:      values,
		Counts:      counts,
	}, nil
}

// countValues tallies values in first-seen order.
func countValues(vals []string) []ValueCount {
	idx := map[string]int{}
	var out []ValueCount
	for _, v := range vals {
		i, ok := idx[v]
		if !ok {
			i = len(out)
			idx[v] = i
			out = append(out, ValueCount{Value: v})
		}
		out[i].Count++
	}
	return out
}

// sortByCount orders by descending count; equal counts keep their order.
func sortByCount(vc []ValueCount) {
	sort.SliceStable(vc, func(i, j int) bool { return vc[i].Count > vc[j].Count })
}
