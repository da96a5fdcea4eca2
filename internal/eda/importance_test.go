package eda

import (
	"math"
	"testing"
)

func TestTopFeatures(t *testing.T) {
	corr := NumericalRelationship(corrDataset(t), "y")
	tests := []struct {
		n    int
		want int
	}{
		{n: 3, want: 3},
		{n: 10, want: 5},
		{n: 0, want: 0},
		{n: -1, want: 0},
	}
	for _, tt := range tests {
		top := TopFeatures(corr, tt.n)
		if len(top) != tt.want {
			t.Fatalf("TopFeatures(n=%d) len = %d, want %d", tt.n, len(top), tt.want)
		}
		for i, f := range top {
			if f.Value < 0 {
				t.Fatalf("negative score %+v", f)
			}
			if i > 0 && !math.IsNaN(f.Value) && f.Value > top[i-1].Value {
				t.Fatalf("ranking not descending: %+v", top)
			}
		}
	}
}

func TestTopFeaturesKeepsTargetAndPutsNaNLast(t *testing.T) {
	top := TopFeatures(NumericalRelationship(corrDataset(t), "y"), 10)
	if top[0].Column != "y" || top[0].Value != 1 {
		t.Fatalf("target self correlation should rank first, got %+v", top[0])
	}
	if last := top[len(top)-1]; last.Column != "d" || !math.IsNaN(last.Value) {
		t.Fatalf("expected NaN entry last, got %+v", last)
	}
	if v, _ := top.Get("b"); !approx(v, 1, 1e-12) {
		t.Fatalf("abs(corr(b)) = %v", v)
	}
}

func TestTopFeaturesEmpty(t *testing.T) {
	if top := TopFeatures(Correlations{}, 10); len(top) != 0 {
		t.Fatalf("expected empty, got %+v", top)
	}
}
