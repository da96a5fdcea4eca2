package eda

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

func TestAnalyzeTargetNumeric(t *testing.T) {
	cleaned, err := FillMissing(ageCity(t), StrategyMean)
	if err != nil {
		t.Fatalf("FillMissing: %v", err)
	}
	sum, err := AnalyzeTarget(cleaned, "age")
	if err != nil {
		t.Fatalf("AnalyzeTarget: %v", err)
	}
	ns, ok := sum.(*NumericSummary)
	if !ok {
		t.Fatalf("expected *NumericSummary, got %T", sum)
	}
	if ns.Kind() != dataset.Numeric {
		t.Fatalf("unexpected kind %v", ns.Kind())
	}
	if !approx(ns.Mean, 95.0/3, 1e-9) {
		t.Fatalf("mean = %v", ns.Mean)
	}
	if ns.Min != 25 || ns.Max != 40 || ns.Count != 4 {
		t.Fatalf("unexpected summary %+v", ns)
	}
	if !approx(ns.Median, (30+95.0/3)/2, 1e-9) {
		t.Fatalf("median = %v", ns.Median)
	}
}

func TestAnalyzeTargetCategorical(t *testing.T) {
	ds := mustDataset(t, dataset.NewCategorical("label", []string{"yes", "no", "yes"}, nil))
	sum, err := AnalyzeTarget(ds, "label")
	if err != nil {
		t.Fatalf("AnalyzeTarget: %v", err)
	}
	cs, ok := sum.(*CategoricalSummary)
	if !ok {
		t.Fatalf("expected *CategoricalSummary, got %T", sum)
	}
	if cs.UniqueCount != 2 || len(cs.Values) != 2 || cs.Values[0] != "yes" || cs.Values[1] != "no" {
		t.Fatalf("unexpected values %+v", cs)
	}
	if cs.Count("yes") != 2 || cs.Count("no") != 1 || cs.Count("maybe") != 0 {
		t.Fatalf("unexpected counts %+v", cs.Counts)
	}
	if cs.Counts[0].Value != "yes" {
		t.Fatalf("counts not ordered by frequency: %+v", cs.Counts)
	}
	if cs.Dtype != "categorical" {
		t.Fatalf("dtype = %q", cs.Dtype)
	}
}

func TestAnalyzeTargetCountsTieKeepFirstSeen(t *testing.T) {
	ds := mustDataset(t, dataset.NewCategorical("c", []string{"b", "a", "a", "b", "c"}, nil))
	sum, _ := AnalyzeTarget(ds, "c")
	cs := sum.(*CategoricalSummary)
	got := []string{cs.Counts[0].Value, cs.Counts[1].Value, cs.Counts[2].Value}
	if got[0] != "b" || got[1] != "a" || got[2] != "c" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestAnalyzeTargetInvalidColumn(t *testing.T) {
	_, err := AnalyzeTarget(ageCity(t), "salary")
	var ice *InvalidColumnError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidColumnError, got %v", err)
	}
	if ice.Column != "salary" || len(ice.Available) != 2 {
		t.Fatalf("unexpected error fields %+v", ice)
	}
}
