package eda

import (
	"math"
	"sort"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/stats"
)

// NumericalRelationship correlates every numeric column with a numeric target
// and returns the series sorted by descending signed coefficient. The
// target's own entry is exactly 1. Equal coefficients keep column order and
// undefined (NaN) coefficients sort last. A non-numeric or unknown target
// yields an empty series.
func NumericalRelationship(ds *dataset.Dataset, target string) Correlations {
	tgt, ok := ds.Column(target)
	if !ok || tgt.Kind() != dataset.Numeric {
		return Correlations{}
	}
	y := tgt.Values()
	out := Correlations{}
	for _, c := range ds.ColumnsOfKind(dataset.Numeric) {
		r := 1.0
		if c.Name() != target {
			r = stats.Pearson(c.Values(), y)
		}
		out = append(out, FeatureScore{Column: c.Name(), Value: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return descNaNLast(out[i].Value, out[j].Value)
	})
	return out
}

// CategoricalRelationship groups rows by each categorical column other than
// the target and aggregates the target per group: the mean for a numeric
// target, value counts for a categorical one. Groups are ordered by group
// value; null group values are dropped.
func CategoricalRelationship(ds *dataset.Dataset, target string) CategoricalRelationships {
	tgt, ok := ds.Column(target)
	if !ok {
		return CategoricalRelationships{}
	}
	numeric := tgt.Kind() == dataset.Numeric
	out := CategoricalRelationships{}
	for _, c := range ds.ColumnsOfKind(dataset.Categorical) {
		if c.Name() == target {
			continue
		}
		rel := Relationship{Column: c.Name(), NumericTarget: numeric}
		for _, g := range partition(c) {
			gs := GroupStat{Group: g.key, Size: len(g.rows)}
			if numeric {
				var vals []float64
				for _, i := range g.rows {
					if v, ok := tgt.Float(i); ok {
						vals = append(vals, v)
					}
				}
				gs.Mean = stats.Mean(vals)
			} else {
				var vals []string
				for _, i := range g.rows {
					if v, ok := tgt.Text(i); ok {
						vals = append(vals, v)
					}
				}
				gs.Counts = countValues(vals)
				sortByCount(gs.Counts)
			}
			rel.Groups = append(rel.Groups, gs)
		}
		out = append(out, rel)
	}
	return out
}

type group struct {
	key  string
	rows []int
}

// partition splits row indexes by the column's value, sorted by value.
func partition(c *dataset.Column) []group {
	idx := map[string]int{}
	var groups []group
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Text(i)
		if !ok {
			continue
		}
		gi, seen := idx[v]
		if !seen {
			gi = len(groups)
			idx[v] = gi
			groups = append(groups, group{key: v})
		}
		groups[gi].rows = append(groups[gi].rows, i)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups
}

// descNaNLast orders a before b when a is larger; NaN sorts after numbers.
func descNaNLast(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
