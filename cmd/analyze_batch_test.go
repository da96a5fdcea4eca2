package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_CollisionSuffix(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Two CSV files with the same basename in different directories
	for _, d := range []string{"d1", "d2"} {
		dir := filepath.Join(home, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "metrics.csv"), []byte(sampleCSV), 0o644); err != nil {
			t.Fatalf("write %s: %v", d, err)
		}
	}
	outDir := filepath.Join(home, "reports")

	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--target", "score", "--cleaned")
	if !strings.Contains(out, "[1/2] Processing metrics.csv") || !strings.Contains(out, "[2/2] Processing metrics.csv") {
		t.Fatalf("expected progress lines, got:\n%s", out)
	}
	for _, name := range []string{"metrics.md", "metrics__2.md", "metrics.cleaned.csv", "metrics__2.cleaned.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	body, err := os.ReadFile(filepath.Join(outDir, "metrics.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "[TOP FEATURES]") {
		t.Fatalf("expected markdown report, got:\n%s", body)
	}
}

func TestAnalyzeBatch_DetectsTargetAndQuiet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	data := filepath.Join(home, "sales.csv")
	csv := "region,units,outcome\nN,3,10\nS,5,12\nN,,9\nS,7,15\n"
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(home, "reports")

	out := runCmd(t, "analyze-batch", data, "--out-dir", outDir, "--format", "json", "--quiet")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no output with --quiet, got:\n%s", out)
	}
	b, err := os.ReadFile(filepath.Join(outDir, "sales.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["target"] != "outcome" {
		t.Fatalf("target = %v, want outcome", doc["target"])
	}
}

func TestAnalyzeBatch_NoMatches(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if _, err := runCmdErr(t, "", "analyze-batch", filepath.Join(home, "*.csv")); err == nil {
		t.Fatal("expected error when nothing matches")
	}
}

func TestReportBaseAndUniquePath(t *testing.T) {
	if got := reportBase("/x/book.xlsx", "Q1 Sales"); got != "book__sheet-q1-sales" {
		t.Fatalf("reportBase = %q", got)
	}
	if got := reportBase("data.csv", ""); got != "data" {
		t.Fatalf("reportBase = %q", got)
	}
	dir := t.TempDir()
	if got := uniquePath(dir, "r", ".md"); got != filepath.Join(dir, "r.md") {
		t.Fatalf("uniquePath = %q", got)
	}
	if err := os.WriteFile(filepath.Join(dir, "r.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := uniquePath(dir, "r", ".md"); got != filepath.Join(dir, "r__2.md") {
		t.Fatalf("uniquePath = %q", got)
	}
}
