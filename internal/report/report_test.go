package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
)

func sampleInsights(t *testing.T) *eda.Insights {
	t.Helper()
	ds := dataset.MustNew("people.csv",
		dataset.NewNumeric("age", []float64{25, 30, math.NaN(), 40}),
		dataset.NewNumeric("flat", []float64{1, 1, 1, 1}),
		dataset.NewCategorical("city", []string{"A", "B", "A", "B"}, nil),
	)
	res, err := eda.Run(ds, "age", eda.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res.Insights
}

func TestTextSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sampleInsights(t)); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	rule := strings.Repeat("-", 50)
	last := -1
	for _, key := range []string{"MISSING", "TARGET_DISTRIBUTION", "OUTLIERS", "CORRELATION", "CATEGORICAL_RELATIONSHIPS", "TOP_FEATURES"} {
		i := strings.Index(out, key+"\n"+rule)
		if i < 0 || i < last {
			t.Fatalf("section %s missing or out of order:\n%s", key, out)
		}
		last = i
	}
	for _, want := range []string{"25.0000", "city", "mean 35.0000", "(none)", "NaN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sampleInsights(t))
	for _, want := range []string{
		"[DATASET SUMMARY]", "File: people.csv", "Target: age",
		"[MISSING VALUES]", "- age: 25.0%",
		"[TARGET DISTRIBUTION]", "[OUTLIERS]", "- none",
		"[CORRELATION WITH TARGET]", "| age | 1.0000 |",
		"[CATEGORICAL RELATIONSHIPS]", "• B (n=2): mean 35.0000",
		"[TOP FEATURES]", "1. age (|r|=1.0000)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestJSONIsValidAndOrdered(t *testing.T) {
	b, err := JSON(sampleInsights(t))
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, b)
	}
	corr := m["correlation"].(map[string]any)
	if corr["flat"] != nil {
		t.Fatalf("expected null for undefined correlation, got %v", corr["flat"])
	}
	s := string(b)
	if strings.Index(s, `"missing"`) > strings.Index(s, `"top_features"`) {
		t.Fatal("keys out of order")
	}
}

func TestYAMLKeepsOrderAndBlockStyle(t *testing.T) {
	b, err := YAML(sampleInsights(t))
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "{") {
		t.Fatalf("expected block style:\n%s", s)
	}
	if strings.Index(s, "\nmissing:") > strings.Index(s, "\ntop_features:") {
		t.Fatalf("keys out of order:\n%s", s)
	}
	var back map[string]any
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	missing := back["missing"].(map[string]any)
	if missing["age"] != 25 {
		t.Fatalf("missing.age = %#v", missing["age"])
	}
	if back["target"] != "age" {
		t.Fatalf("target = %#v", back["target"])
	}
}

func TestRenderAndParseFormat(t *testing.T) {
	ins := sampleInsights(t)
	for _, name := range []string{"text", "md", "json", "yml"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		var buf bytes.Buffer
		if err := Render(&buf, f, ins); err != nil {
			t.Fatalf("Render(%s): %v", f, err)
		}
		if buf.Len() == 0 || !strings.HasSuffix(buf.String(), "\n") {
			t.Fatalf("Render(%s) produced %q", f, buf.String())
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if Extension(FormatYAML) != ".yaml" || Extension(FormatMarkdown) != ".md" {
		t.Fatal("unexpected extensions")
	}
}

func TestCategoricalTargetText(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.NewCategorical("label", []string{"yes", "no", "yes"}, nil),
		dataset.NewCategorical("color", []string{"r", "g", "r"}, nil),
	)
	res, err := eda.Run(ds, "label", eda.DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var buf bytes.Buffer
	if err := Text(&buf, res.Insights); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(buf.String(), "yes=2") || !strings.Contains(buf.String(), "dtype categorical, 2 unique") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestReformatJSON(t *testing.T) {
	raw := []byte(`{"missing":{"b":0,"a":50},"target":"a"}`)
	y, err := ReformatJSON(raw, FormatYAML)
	if err != nil {
		t.Fatalf("ReformatJSON: %v", err)
	}
	if got := string(y); !strings.HasPrefix(got, "missing:\n    b: 0\n    a: 50\n") {
		t.Fatalf("unexpected yaml:\n%s", got)
	}
	j, err := ReformatJSON(raw, FormatJSON)
	if err != nil || !strings.Contains(string(j), "\n  \"missing\"") {
		t.Fatalf("unexpected json %s (%v)", j, err)
	}
	if _, err := ReformatJSON(raw, FormatText); err == nil {
		t.Fatal("expected error for text format")
	}
}
