package eda

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

// targetNameHints are name fragments that suggest a dependent variable.
// The single-letter "y" only matches as a whole name token.
var targetNameHints = []string{
	"target", "outcome", "result", "prediction", "predict", "class", "label",
	"response", "dependent", "output", "value", "performance", "index",
}

// TargetCandidate is a column ranked as a plausible target.
type TargetCandidate struct {
	Column string
	Kind   dataset.Kind
	Unique int
	Score  int
}

// DetectTarget picks the most plausible target column: the first column whose
// name carries a target-like hint, else the best-scoring column by kind and
// cardinality (earliest column on ties). ok is false for a dataset without
// columns.
func DetectTarget(ds *dataset.Dataset) (string, bool) {
	for _, name := range ds.Names() {
		if hasTargetHint(name) {
			return name, true
		}
	}
	cands := SuggestTargets(ds, 1)
	if len(cands) == 0 {
		return "", false
	}
	return cands[0].Column, true
}

// SuggestTargets scores every column and returns the n best, highest score
// first, column order breaking ties.
func SuggestTargets(ds *dataset.Dataset, n int) []TargetCandidate {
	cols := ds.Columns()
	out := make([]TargetCandidate, 0, len(cols))
	rows := ds.Rows()
	for _, c := range cols {
		unique := distinctCount(c)
		out = append(out, TargetCandidate{
			Column: c.Name(),
			Kind:   c.Kind(),
			Unique: unique,
			Score:  targetScore(c.Kind(), unique, rows),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func targetScore(kind dataset.Kind, unique, rows int) int {
	score := 0
	switch kind {
	case dataset.Numeric:
		score += 3
	case dataset.Categorical:
		if rows > 0 {
			ratio := float64(unique) / float64(rows)
			if ratio >= 0.1 && ratio <= 0.8 {
				score += 2
			}
		}
	}
	switch {
	case unique == rows:
		// every value unique: most likely an identifier
		score -= 2
	case unique == 1:
		score -= 3
	case float64(unique) >= float64(rows)*0.8:
		score += 2
	case unique <= 2:
		score++
	case unique <= 10:
		score++
	}
	return score
}

func hasTargetHint(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range targetNameHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	}) {
		if tok == "y" {
			return true
		}
	}
	return false
}

func distinctCount(c *dataset.Column) int {
	seen := map[string]struct{}{}
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Text(i); ok {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
