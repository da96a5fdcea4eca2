package eda

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/stats"
	"go.uber.org/zap"
)

// Strategy selects how numeric nulls are imputed. Categorical columns always
// use the mode.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
)

// ParseStrategy validates a strategy name (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyMedian, StrategyMode:
		return st, nil
	case "":
		return StrategyMean, nil
	default:
		return "", fmt.Errorf("%w: %q (use mean|median|mode)", ErrUnknownStrategy, s)
	}
}

// MissingPercentage reports, per column in dataset order, the percentage of
// null cells.
func MissingPercentage(ds *dataset.Dataset) (MissingReport, error) {
	rows := ds.Rows()
	if rows == 0 {
		return nil, ErrEmptyDataset
	}
	cols := ds.Columns()
	out := make(MissingReport, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnPercent{
			Column:  c.Name(),
			Percent: float64(c.NullCount()) / float64(rows) * 100,
		})
	}
	return out, nil
}

// FillMissing returns a copy of ds with nulls imputed. Only columns with at
// least one null are touched. Numeric columns follow strategy; an
// unrecognized strategy leaves numeric columns unchanged. Categorical columns
// always use the mode, falling back to the first non-null value and then to
// the empty string.
func FillMissing(ds *dataset.Dataset, strategy Strategy) (*dataset.Dataset, error) {
	return fillMissing(ds, strategy, zap.NewNop())
}

func fillMissing(ds *dataset.Dataset, strategy Strategy, log *zap.Logger) (*dataset.Dataset, error) {
	out := ds
	for _, c := range ds.Columns() {
		nulls := c.NullCount()
		if nulls == 0 {
			continue
		}
		var filled *dataset.Column
		switch c.Kind() {
		case dataset.Numeric:
			fill, ok := numericFill(c, strategy, log)
			if !ok {
				continue
			}
			vals := c.Values()
			for i, v := range vals {
				if math.IsNaN(v) {
					vals[i] = fill
				}
			}
			filled = dataset.NewNumeric(c.Name(), vals)
			log.Debug("imputed numeric column",
				zap.String("column", c.Name()),
				zap.String("strategy", string(strategy)),
				zap.Float64("value", fill),
				zap.Int("cells", nulls))
		default:
			fill, err := categoricalMode(c)
			if err != nil {
				log.Debug("mode fallback", zap.String("column", c.Name()), zap.Error(err))
			}
			vals := make([]string, c.Len())
			for i := range vals {
				if v, ok := c.Text(i); ok {
					vals[i] = v
				} else {
					vals[i] = fill
				}
			}
			filled = dataset.NewCategorical(c.Name(), vals, nil)
			log.Debug("imputed categorical column",
				zap.String("column", c.Name()),
				zap.String("value", fill),
				zap.Int("cells", nulls))
		}
		next, err := out.WithColumn(filled)
		if err != nil {
			return nil, fmt.Errorf("impute %s: %w", c.Name(), err)
		}
		out = next
	}
	return out, nil
}

// numericFill picks the fill value for a numeric column. ok is false when the
// column must be left as is: unknown strategy, or no non-null value to derive
// a fill from.
func numericFill(c *dataset.Column, strategy Strategy, log *zap.Logger) (float64, bool) {
	vals := c.Floats()
	if len(vals) == 0 {
		log.Debug("column entirely null; left unfilled", zap.String("column", c.Name()))
		return 0, false
	}
	switch strategy {
	case StrategyMean:
		return stats.Mean(vals), true
	case StrategyMedian:
		return stats.Median(vals), true
	case StrategyMode:
		v, err := numericMode(vals)
		if err != nil {
			log.Debug("mode fallback", zap.String("column", c.Name()), zap.Error(err))
		}
		return v, true
	default:
		log.Warn("unrecognized imputation strategy; numeric column left unchanged",
			zap.String("column", c.Name()), zap.String("strategy", string(strategy)))
		return 0, false
	}
}

// numericMode returns the most frequent value, the smallest one on ties. When
// every value is distinct it returns the first value with ErrEmptyMode.
func numericMode(vals []float64) (float64, error) {
	counts := make(map[float64]int, len(vals))
	best := 0
	for _, v := range vals {
		counts[v]++
		if counts[v] > best {
			best = counts[v]
		}
	}
	if best < 2 {
		return vals[0], fmt.Errorf("%w: all %d values distinct; using first value", ErrEmptyMode, len(vals))
	}
	var cands []float64
	for v, n := range counts {
		if n == best {
			cands = append(cands, v)
		}
	}
	sort.Float64s(cands)
	return cands[0], nil
}

// categoricalMode applies the mode fallback chain: most frequent value
// (lexicographically smallest on ties), else first non-null value, else "".
func categoricalMode(c *dataset.Column) (string, error) {
	vals := c.Texts()
	if len(vals) == 0 {
		return "", fmt.Errorf("%w: column entirely null; using empty string", ErrEmptyMode)
	}
	counts := make(map[string]int, len(vals))
	best := 0
	for _, v := range vals {
		counts[v]++
		if counts[v] > best {
			best = counts[v]
		}
	}
	if best < 2 {
		return vals[0], fmt.Errorf("%w: all %d values distinct; using first value", ErrEmptyMode, len(vals))
	}
	var cands []string
	for v, n := range counts {
		if n == best {
			cands = append(cands, v)
		}
	}
	sort.Strings(cands)
	return cands[0], nil
}
