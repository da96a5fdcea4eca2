package eda

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
)

type stubRenderer struct {
	calls   int
	target  string
	rows    int
	nulls   int
	err     error
	explode bool
}

func (s *stubRenderer) Render(ds *dataset.Dataset, target string, ins *Insights) ([]string, error) {
	s.calls++
	s.target = target
	s.rows = ds.Rows()
	for _, c := range ds.Columns() {
		s.nulls += c.NullCount()
	}
	if s.explode {
		panic("canvas exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return []string{"chart.png"}, nil
}

func TestRunNumericTarget(t *testing.T) {
	ds := ageCity(t)
	res, err := Run(ds, "age", DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ins := res.Insights
	if v, _ := ins.Missing.Get("age"); v != 25 {
		t.Fatalf("missing[age] = %v", v)
	}
	if v, _ := ins.Missing.Get("city"); v != 0 {
		t.Fatalf("missing[city] = %v", v)
	}
	ns, ok := ins.TargetDistribution.(*NumericSummary)
	if !ok || !approx(ns.Mean, 31.67, 0.01) {
		t.Fatalf("unexpected target summary %#v", ins.TargetDistribution)
	}
	if len(ins.Correlation) != 1 || ins.Correlation[0] != (FeatureScore{"age", 1}) {
		t.Fatalf("unexpected correlation %+v", ins.Correlation)
	}
	if len(ins.TopFeatures) != 1 || ins.TopFeatures[0].Column != "age" {
		t.Fatalf("unexpected top features %+v", ins.TopFeatures)
	}
	if len(ins.Outliers) != 0 {
		t.Fatalf("unexpected outliers %+v", ins.Outliers)
	}
	if _, ok := ins.CategoricalRelationships.Get("city"); !ok {
		t.Fatal("missing city relationship")
	}
	if ins.RunID == "" || ins.Rows != 4 || ins.Target != "age" {
		t.Fatalf("unexpected metadata %+v", ins)
	}
	if res.Cleaned.Rows() != ds.Rows() {
		t.Fatal("row count changed")
	}
	age, _ := res.Cleaned.Column("age")
	if age.NullCount() != 0 {
		t.Fatal("cleaned dataset still has nulls")
	}
	if orig, _ := ds.Column("age"); orig.NullCount() != 1 {
		t.Fatal("input dataset was mutated")
	}
	if res.Charts != nil || res.VizErr != nil {
		t.Fatal("no rendering was requested")
	}
}

func TestRunCategoricalTarget(t *testing.T) {
	ds := mustDataset(t, dataset.NewCategorical("label", []string{"yes", "no", "yes"}, nil))
	res, err := Run(ds, "label", DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ins := res.Insights
	if len(ins.Correlation) != 0 || len(ins.TopFeatures) != 0 {
		t.Fatalf("expected empty correlation and ranking: %+v %+v", ins.Correlation, ins.TopFeatures)
	}
	cs, ok := ins.TargetDistribution.(*CategoricalSummary)
	if !ok || cs.UniqueCount != 2 || cs.Count("yes") != 2 || cs.Count("no") != 1 {
		t.Fatalf("unexpected target summary %#v", ins.TargetDistribution)
	}
}

func TestRunInvalidTarget(t *testing.T) {
	r := &stubRenderer{}
	opt := DefaultOptions()
	opt.GenerateViz = true
	opt.Renderer = r
	_, err := Run(ageCity(t), "salary", opt)
	var ice *InvalidColumnError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidColumnError, got %v", err)
	}
	if r.calls != 0 {
		t.Fatal("renderer must not run when the target is invalid")
	}
}

func TestRunEmptyDataset(t *testing.T) {
	ds := mustDataset(t, dataset.NewNumeric("a", nil))
	if _, err := Run(ds, "a", DefaultOptions()); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestRunRendersCleanedDataset(t *testing.T) {
	r := &stubRenderer{}
	opt := DefaultOptions()
	opt.GenerateViz = true
	opt.Renderer = r
	res, err := Run(ageCity(t), "age", opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 1 || r.target != "age" || r.rows != 4 || r.nulls != 0 {
		t.Fatalf("unexpected renderer call %+v", r)
	}
	if len(res.Charts) != 1 || res.VizErr != nil {
		t.Fatalf("unexpected result charts=%v err=%v", res.Charts, res.VizErr)
	}
}

func TestRunVisualizationFailureKeepsInsights(t *testing.T) {
	tests := []struct {
		name string
		r    *stubRenderer
		want string
	}{
		{"error", &stubRenderer{err: errors.New("disk full")}, "disk full"},
		{"panic", &stubRenderer{explode: true}, "canvas exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := DefaultOptions()
			opt.GenerateViz = true
			opt.Renderer = tt.r
			opt.VizDir = "charts"
			res, err := Run(ageCity(t), "age", opt)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			var ve *VisualizationError
			if !errors.As(res.VizErr, &ve) {
				t.Fatalf("expected VisualizationError, got %v", res.VizErr)
			}
			if ve.Dir != "charts" || !strings.Contains(ve.Error(), tt.want) {
				t.Fatalf("unexpected error %v", ve)
			}
			if res.Insights == nil || len(res.Insights.Correlation) != 1 {
				t.Fatal("insights lost after visualization failure")
			}
		})
	}
}

func TestRunWithoutRenderer(t *testing.T) {
	opt := DefaultOptions()
	opt.GenerateViz = true
	res, err := Run(ageCity(t), "age", opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var ve *VisualizationError
	if !errors.As(res.VizErr, &ve) {
		t.Fatalf("expected VisualizationError, got %v", res.VizErr)
	}
}

func TestInsightsJSONKeyOrder(t *testing.T) {
	res, err := Run(ageCity(t), "age", DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := json.Marshal(res.Insights)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	keys := []string{`"missing"`, `"target_distribution"`, `"outliers"`, `"correlation"`, `"categorical_relationships"`, `"top_features"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(s, k)
		if i < 0 || i < last {
			t.Fatalf("key %s missing or out of order in %s", k, s)
		}
		last = i
	}
	if !strings.Contains(s, `"missing":{"age":25,"city":0}`) {
		t.Fatalf("unexpected missing encoding in %s", s)
	}
	if !strings.Contains(s, `"categorical_relationships":{"city":{"A":`) {
		t.Fatalf("unexpected relationship encoding in %s", s)
	}
}

func TestInsightsJSONEncodesNaNAsNull(t *testing.T) {
	ds := mustDataset(t,
		dataset.NewNumeric("y", []float64{1, 2, 3}),
		dataset.NewNumeric("flat", []float64{7, 7, 7}),
	)
	res, err := Run(ds, "y", DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := json.Marshal(res.Insights)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"flat":null`) {
		t.Fatalf("expected null correlation for flat column: %s", b)
	}
}
