package eda

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

// ColumnPercent is one MissingReport entry.
type ColumnPercent struct {
	Column  string
	Percent float64
}

// MissingReport maps column name to percent of null cells, in dataset order.
type MissingReport []ColumnPercent

// Get returns the percentage recorded for column.
func (m MissingReport) Get(column string) (float64, bool) {
	for _, e := range m {
		if e.Column == column {
			return e.Percent, true
		}
	}
	return 0, false
}

func (m MissingReport) MarshalJSON() ([]byte, error) {
	pairs := make([]kv, len(m))
	for i, e := range m {
		pairs[i] = kv{e.Column, jsonFloat(e.Percent)}
	}
	return marshalOrdered(pairs)
}

// ColumnCount is one OutlierReport entry.
type ColumnCount struct {
	Column string
	Count  int
}

// OutlierReport maps numeric column name to its outlier count. Columns
// without outliers are omitted.
type OutlierReport []ColumnCount

// Get returns the count recorded for column.
func (o OutlierReport) Get(column string) (int, bool) {
	for _, e := range o {
		if e.Column == column {
			return e.Count, true
		}
	}
	return 0, false
}

func (o OutlierReport) MarshalJSON() ([]byte, error) {
	pairs := make([]kv, len(o))
	for i, e := range o {
		pairs[i] = kv{e.Column, e.Count}
	}
	return marshalOrdered(pairs)
}

// FeatureScore pairs a column with a correlation coefficient (signed in a
// correlation series, absolute in a top-features ranking).
type FeatureScore struct {
	Column string
	Value  float64
}

// Correlations is an ordered series of (column, coefficient) pairs.
type Correlations []FeatureScore

// Get returns the coefficient recorded for column.
func (c Correlations) Get(column string) (float64, bool) {
	for _, e := range c {
		if e.Column == column {
			return e.Value, true
		}
	}
	return 0, false
}

func (c Correlations) MarshalJSON() ([]byte, error) {
	pairs := make([]kv, len(c))
	for i, e := range c {
		pairs[i] = kv{e.Column, jsonFloat(e.Value)}
	}
	return marshalOrdered(pairs)
}

// ValueCount is a distinct value with its frequency.
type ValueCount struct {
	Value string
	Count int
}

type valueCounts []ValueCount

func (v valueCounts) MarshalJSON() ([]byte, error) {
	pairs := make([]kv, len(v))
	for i, e := range v {
		pairs[i] = kv{e.Value, e.Count}
	}
	return marshalOrdered(pairs)
}

// GroupStat aggregates the target within one group of a categorical column.
// Mean is set for numeric targets, Counts for categorical targets.
type GroupStat struct {
	Group  string
	Size   int
	Mean   float64
	Counts []ValueCount
}

// Relationship is the grouped aggregate of the target by one categorical column.
type Relationship struct {
	Column        string
	NumericTarget bool
	Groups        []GroupStat
}

func (r Relationship) MarshalJSON() ([]byte, error) {
	pairs := make([]kv, len(r.Groups))
	for i, g := range r.Groups {
		if r.NumericTarget {
			pairs[i] = kv{g.Group, jsonFloat(g.Mean)}
		} else {
			pairs[i] = kv{g.Group, valueCounts(g.Counts)}
		}
	}
	return marshalOrdered(pairs)
}

// CategoricalRelationships holds one Relationship per categorical column, in
// dataset order.
type CategoricalRelationships []Relationship

// Get returns the relationship computed for column.
func (c CategoricalRelationships) Get(column string) (Relationship, bool) {
	for _, r := range c {
		if r.Column == column {
			return r, true
		}
	}
	return Relationship{}, false
}

func (c CategoricalRelationships) MarshalJSON() ([]byte, error) {
	pairs := make([]kv, len(c))
	for i, r := range c {
		pairs[i] = kv{r.Column, r}
	}
	return marshalOrdered(pairs)
}

// TargetSummary is either *NumericSummary or *CategoricalSummary.
type TargetSummary interface {
	Kind() dataset.Kind
	isTargetSummary()
}

// NumericSummary describes a numeric target.
type NumericSummary struct {
	Count    int
	Mean     float64
	Std      float64
	Skew     float64
	Kurtosis float64
	Median   float64
	Min      float64
	Max      float64
}

func (*NumericSummary) Kind() dataset.Kind { return dataset.Numeric }
func (*NumericSummary) isTargetSummary()   {}

func (s *NumericSummary) MarshalJSON() ([]byte, error) {
	return marshalOrdered([]kv{
		{"mean", jsonFloat(s.Mean)},
		{"std", jsonFloat(s.Std)},
		{"skew", jsonFloat(s.Skew)},
		{"kurtosis", jsonFloat(s.Kurtosis)},
		{"median", jsonFloat(s.Median)},
		{"min", jsonFloat(s.Min)},
		{"max", jsonFloat(s.Max)},
	})
}

// CategoricalSummary describes a categorical target. Values are in
// first-seen order; Counts are ordered by descending frequency.
type CategoricalSummary struct {
	Dtype       string
	UniqueCount int
	Values      []string
	Counts      []ValueCount
}

func (*CategoricalSummary) Kind() dataset.Kind { return dataset.Categorical }
func (*CategoricalSummary) isTargetSummary()   {}

// Count returns the frequency of value.
func (s *CategoricalSummary) Count(value string) int {
	for _, vc := range s.Counts {
		if vc.Value == value {
			return vc.Count
		}
	}
	return 0
}

func (s *CategoricalSummary) MarshalJSON() ([]byte, error) {
	values := s.Values
	if values == nil {
		values = []string{}
	}
	return marshalOrdered([]kv{
		{"dtype", s.Dtype},
		{"unique_count", s.UniqueCount},
		{"values", values},
		{"counts", valueCounts(s.Counts)},
	})
}

// Insights is the aggregated report of one pipeline run.
type Insights struct {
	RunID                    string                   `json:"run_id"`
	Dataset                  string                   `json:"dataset"`
	Rows                     int                      `json:"rows"`
	Target                   string                   `json:"target"`
	Missing                  MissingReport            `json:"missing"`
	TargetDistribution       TargetSummary            `json:"target_distribution"`
	Outliers                 OutlierReport            `json:"outliers"`
	Correlation              Correlations             `json:"correlation"`
	CategoricalRelationships CategoricalRelationships `json:"categorical_relationships"`
	TopFeatures              Correlations             `json:"top_features"`
}

type kv struct {
	key string
	val any
}

// marshalOrdered encodes pairs as a JSON object preserving their order.
func marshalOrdered(pairs []kv) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonFloat maps NaN and infinities to null.
func jsonFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
