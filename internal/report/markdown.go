package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/smarteda-cli/internal/eda"
)

// Markdown renders the insights as bracketed plain-text sections suitable for
// pasting into documents.
func Markdown(ins *eda.Insights) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", ins.Dataset))
	b.WriteString(fmt.Sprintf("Rows: %d\n", ins.Rows))
	b.WriteString(fmt.Sprintf("Target: %s\n", ins.Target))
	if ins.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", ins.RunID))
	}

	b.WriteString("\n[MISSING VALUES]\n")
	for _, e := range ins.Missing {
		b.WriteString(fmt.Sprintf("- %s: %.1f%%\n", safeVal(e.Column), e.Percent))
	}

	b.WriteString("\n[TARGET DISTRIBUTION]\n")
	switch s := ins.TargetDistribution.(type) {
	case *eda.NumericSummary:
		b.WriteString(fmt.Sprintf("- mean %s, std %s, median %s\n", num(s.Mean), num(s.Std), num(s.Median)))
		b.WriteString(fmt.Sprintf("- min %s, max %s\n", num(s.Min), num(s.Max)))
		b.WriteString(fmt.Sprintf("- skew %s, kurtosis %s\n", num(s.Skew), num(s.Kurtosis)))
	case *eda.CategoricalSummary:
		b.WriteString(fmt.Sprintf("- dtype %s, unique=%d\n", s.Dtype, s.UniqueCount))
		for _, vc := range s.Counts {
			b.WriteString(fmt.Sprintf("  • %s: %d\n", safeVal(vc.Value), vc.Count))
		}
	}

	b.WriteString("\n[OUTLIERS]\n")
	if len(ins.Outliers) == 0 {
		b.WriteString("- none\n")
	}
	for _, e := range ins.Outliers {
		b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(e.Column), e.Count))
	}

	if len(ins.Correlation) > 0 {
		b.WriteString("\n[CORRELATION WITH TARGET]\n")
		b.WriteString("| Column | r |\n| --- | --- |\n")
		for _, e := range ins.Correlation {
			b.WriteString(fmt.Sprintf("| %s | %s |\n", safeVal(e.Column), num(e.Value)))
		}
	}

	if len(ins.CategoricalRelationships) > 0 {
		b.WriteString("\n[CATEGORICAL RELATIONSHIPS]\n")
		for _, rel := range ins.CategoricalRelationships {
			b.WriteString(fmt.Sprintf("- %s\n", safeVal(rel.Column)))
			for _, g := range rel.Groups {
				b.WriteString(fmt.Sprintf("  • %s (n=%d): %s\n", safeVal(g.Group), g.Size, groupValue(rel, g)))
			}
		}
	}

	if len(ins.TopFeatures) > 0 {
		b.WriteString("\n[TOP FEATURES]\n")
		for i, e := range ins.TopFeatures {
			b.WriteString(fmt.Sprintf("%d. %s (|r|=%s)\n", i+1, safeVal(e.Column), num(e.Value)))
		}
	}
	return b.String()
}
