package eda

import (
	"math"
	"testing"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

func corrDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return mustDataset(t,
		dataset.NewNumeric("y", []float64{1, 2, 3, 4}),
		dataset.NewNumeric("a", []float64{2, 4, 6, 8}),
		dataset.NewNumeric("b", []float64{4, 3, 2, 1}),
		dataset.NewNumeric("c", []float64{1, 3, 2, 4}),
		dataset.NewNumeric("d", []float64{5, 5, 5, 5}),
		dataset.NewCategorical("g", []string{"p", "q", "p", "q"}, nil),
	)
}

func TestNumericalRelationship(t *testing.T) {
	corr := NumericalRelationship(corrDataset(t), "y")
	if len(corr) != 5 {
		t.Fatalf("expected 5 numeric entries, got %+v", corr)
	}
	if v, _ := corr.Get("y"); v != 1.0 {
		t.Fatalf("self correlation = %v, want exactly 1", v)
	}
	if v, _ := corr.Get("c"); !approx(v, 0.8, 1e-12) {
		t.Fatalf("corr(c) = %v, want 0.8", v)
	}
	if v, _ := corr.Get("b"); !approx(v, -1, 1e-12) {
		t.Fatalf("corr(b) = %v, want -1", v)
	}
	want := []string{"y", "a", "c", "b", "d"}
	for i, w := range want {
		if corr[i].Column != w {
			t.Fatalf("position %d = %s, want %s (%+v)", i, corr[i].Column, w, corr)
		}
	}
	if !math.IsNaN(corr[4].Value) {
		t.Fatalf("constant column should have NaN correlation, got %v", corr[4].Value)
	}
	for i := 1; i < len(corr)-1; i++ {
		if corr[i].Value > corr[i-1].Value {
			t.Fatalf("series not descending at %d: %+v", i, corr)
		}
	}
	if _, ok := corr.Get("g"); ok {
		t.Fatal("categorical column must not be correlated")
	}
}

func TestNumericalRelationshipNonNumericTarget(t *testing.T) {
	if corr := NumericalRelationship(corrDataset(t), "g"); len(corr) != 0 {
		t.Fatalf("expected empty series, got %+v", corr)
	}
}

func TestCategoricalRelationshipNumericTarget(t *testing.T) {
	cleaned, err := FillMissing(ageCity(t), StrategyMean)
	if err != nil {
		t.Fatalf("FillMissing: %v", err)
	}
	rels := CategoricalRelationship(cleaned, "age")
	rel, ok := rels.Get("city")
	if !ok || !rel.NumericTarget || len(rel.Groups) != 2 {
		t.Fatalf("unexpected relationship %+v", rels)
	}
	if rel.Groups[0].Group != "A" || !approx(rel.Groups[0].Mean, (25+95.0/3)/2, 1e-9) {
		t.Fatalf("group A = %+v", rel.Groups[0])
	}
	if rel.Groups[1].Group != "B" || !approx(rel.Groups[1].Mean, 35, 1e-9) {
		t.Fatalf("group B = %+v", rel.Groups[1])
	}
}

func TestCategoricalRelationshipCategoricalTarget(t *testing.T) {
	ds := mustDataset(t,
		dataset.NewCategorical("label", []string{"yes", "no", "yes"}, nil),
		dataset.NewCategorical("color", []string{"r", "g", "r"}, nil),
	)
	rels := CategoricalRelationship(ds, "label")
	if len(rels) != 1 {
		t.Fatalf("target must be excluded: %+v", rels)
	}
	rel := rels[0]
	if rel.NumericTarget || rel.Column != "color" {
		t.Fatalf("unexpected relationship %+v", rel)
	}
	if g := rel.Groups[0]; g.Group != "g" || len(g.Counts) != 1 || g.Counts[0] != (ValueCount{"no", 1}) {
		t.Fatalf("group g = %+v", g)
	}
	if g := rel.Groups[1]; g.Group != "r" || g.Size != 2 || g.Counts[0] != (ValueCount{"yes", 2}) {
		t.Fatalf("group r = %+v", g)
	}
}

func TestCategoricalRelationshipDropsNullGroups(t *testing.T) {
	ds := mustDataset(t,
		dataset.NewNumeric("v", []float64{1, 2, 3}),
		dataset.NewCategorical("k", []string{"a", "", "a"}, []bool{false, true, false}),
	)
	rel, _ := CategoricalRelationship(ds, "v").Get("k")
	if len(rel.Groups) != 1 || rel.Groups[0].Size != 2 || rel.Groups[0].Mean != 2 {
		t.Fatalf("unexpected groups %+v", rel.Groups)
	}
}
