package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/KaramelBytes/smarteda-cli/internal/eda"
)

const sectionRule = 50

// Text prints every insight section as a titled table: the upper-cased key,
// a dashed rule, then the values.
func Text(w io.Writer, ins *eda.Insights) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s (%d rows)  Target: %s\n\n", ins.Dataset, ins.Rows, ins.Target)

	section(&b, "missing", "", func(t table.Writer) {
		t.AppendHeader(table.Row{"Column", "Missing %"})
		for _, e := range ins.Missing {
			t.AppendRow(table.Row{e.Column, num(e.Percent)})
		}
	})
	note := ""
	if cs, ok := ins.TargetDistribution.(*eda.CategoricalSummary); ok {
		note = fmt.Sprintf("dtype %s, %d unique", cs.Dtype, cs.UniqueCount)
	}
	section(&b, "target_distribution", note, func(t table.Writer) {
		switch s := ins.TargetDistribution.(type) {
		case *eda.NumericSummary:
			t.AppendHeader(table.Row{"Statistic", "Value"})
			t.AppendRows([]table.Row{
				{"mean", num(s.Mean)},
				{"std", num(s.Std)},
				{"skew", num(s.Skew)},
				{"kurtosis", num(s.Kurtosis)},
				{"median", num(s.Median)},
				{"min", num(s.Min)},
				{"max", num(s.Max)},
			})
		case *eda.CategoricalSummary:
			t.AppendHeader(table.Row{"Value", "Count"})
			for _, vc := range s.Counts {
				t.AppendRow(table.Row{vc.Value, vc.Count})
			}
		}
	})
	section(&b, "outliers", "", func(t table.Writer) {
		t.AppendHeader(table.Row{"Column", "Outliers"})
		for _, e := range ins.Outliers {
			t.AppendRow(table.Row{e.Column, e.Count})
		}
	})
	section(&b, "correlation", "", func(t table.Writer) {
		t.AppendHeader(table.Row{"Column", "r"})
		for _, e := range ins.Correlation {
			t.AppendRow(table.Row{e.Column, num(e.Value)})
		}
	})
	section(&b, "categorical_relationships", "", func(t table.Writer) {
		t.AppendHeader(table.Row{"Column", "Group", "n", "Target"})
		for _, rel := range ins.CategoricalRelationships {
			for _, g := range rel.Groups {
				t.AppendRow(table.Row{rel.Column, g.Group, g.Size, groupValue(rel, g)})
			}
			t.AppendSeparator()
		}
	})
	section(&b, "top_features", "", func(t table.Writer) {
		t.AppendHeader(table.Row{"#", "Column", "|r|"})
		for i, e := range ins.TopFeatures {
			t.AppendRow(table.Row{i + 1, e.Column, num(e.Value)})
		}
	})
	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, key, note string, fill func(table.Writer)) {
	b.WriteString(strings.ToUpper(key))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", sectionRule))
	b.WriteString("\n")
	if note != "" {
		b.WriteString(note)
		b.WriteString("\n")
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AlignHeader: text.AlignCenter}})
	fill(t)
	if t.Length() == 0 {
		b.WriteString("(none)\n\n")
		return
	}
	b.WriteString(t.Render())
	b.WriteString("\n\n")
}

func groupValue(rel eda.Relationship, g eda.GroupStat) string {
	if rel.NumericTarget {
		return "mean " + num(g.Mean)
	}
	parts := make([]string, len(g.Counts))
	for i, vc := range g.Counts {
		parts[i] = fmt.Sprintf("%s=%d", vc.Value, vc.Count)
	}
	return strings.Join(parts, ", ")
}
