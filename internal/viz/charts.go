package viz

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/stats"
)

const (
	histBins = 20
	barWidth = 20
	boxWidth = 30
)

// missing draws the percentage of nulls for columns that had any.
func (r *Renderer) missing(ins *eda.Insights) (string, error) {
	var names []string
	var vals plotter.Values
	for _, e := range ins.Missing {
		if e.Percent > 0 {
			names = append(names, e.Column)
			vals = append(vals, e.Percent)
		}
	}
	if len(vals) == 0 {
		return "", nil
	}
	p := plot.New()
	p.Title.Text = "Missing values by column"
	p.Y.Label.Text = "% missing"
	bars, err := plotter.NewBarChart(vals, vg.Points(barWidth))
	if err != nil {
		return "", err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return r.save(p, MissingFile)
}

// distribution draws a histogram and box plot for a numeric target, or
// counts and shares for a categorical one.
func (r *Renderer) distribution(ds *dataset.Dataset, target string, ins *eda.Insights) (string, error) {
	col, ok := ds.Column(target)
	if !ok {
		return "", fmt.Errorf("unknown column %q", target)
	}
	var plots []*plot.Plot
	switch s := ins.TargetDistribution.(type) {
	case *eda.NumericSummary:
		vals := plotter.Values(col.Floats())
		if len(vals) == 0 {
			return "", nil
		}
		hist, err := histogram(target, vals)
		if err != nil {
			return "", err
		}
		box := plot.New()
		box.Title.Text = "Box plot of " + target
		bp, err := plotter.NewBoxPlot(vg.Points(boxWidth), 0, vals)
		if err != nil {
			return "", err
		}
		bp.FillColor = plotutil.Color(1)
		box.Add(bp)
		box.NominalX(target)
		plots = append(plots, hist, box)
	case *eda.CategoricalSummary:
		if len(s.Counts) == 0 {
			return "", nil
		}
		names := make([]string, len(s.Counts))
		counts := make(plotter.Values, len(s.Counts))
		shares := make(plotter.Values, len(s.Counts))
		total := 0
		for _, vc := range s.Counts {
			total += vc.Count
		}
		for i, vc := range s.Counts {
			names[i] = vc.Value
			counts[i] = float64(vc.Count)
			shares[i] = float64(vc.Count) / float64(total) * 100
		}
		cp, err := barPlot("Counts of "+target, "count", names, counts, 0)
		if err != nil {
			return "", err
		}
		sp, err := barPlot("Share of "+target, "%", names, shares, 1)
		if err != nil {
			return "", err
		}
		plots = append(plots, cp, sp)
	default:
		return "", nil
	}
	return r.saveGrid(plots, 2, DistributionFile(target))
}

func histogram(target string, vals plotter.Values) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of " + target
	p.X.Label.Text = target
	p.Y.Label.Text = "count"
	if stats.Min(vals) == stats.Max(vals) {
		// a single distinct value cannot be binned
		bars, err := plotter.NewBarChart(plotter.Values{float64(len(vals))}, vg.Points(barWidth))
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(0)
		p.Add(bars)
		p.NominalX(dataset.FormatFloat(vals[0]))
		return p, nil
	}
	h, err := plotter.NewHist(vals, histBins)
	if err != nil {
		return nil, err
	}
	h.FillColor = plotutil.Color(0)
	p.Add(h)
	return p, nil
}

func barPlot(title, ylabel string, names []string, vals plotter.Values, colorIdx int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	bars, err := plotter.NewBarChart(vals, vg.Points(barWidth))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(colorIdx)
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// corrGrid is a square correlation matrix addressed as a heat map grid.
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int) { return len(g.m), len(g.m) }
func (g corrGrid) Z(c, r int) float64 { return g.m[r][c] }
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// heatmap draws pairwise correlations among the numeric columns most
// correlated with a numeric target.
func (r *Renderer) heatmap(ds *dataset.Dataset, target string, ins *eda.Insights) (string, error) {
	if _, ok := ins.TargetDistribution.(*eda.NumericSummary); !ok {
		return "", nil
	}
	var names []string
	var cols [][]float64
	for _, f := range eda.TopFeatures(ins.Correlation, maxHeatmapColumns) {
		c, ok := ds.Column(f.Column)
		if !ok {
			continue
		}
		names = append(names, f.Column)
		cols = append(cols, c.Values())
	}
	if len(names) < 2 {
		return "", nil
	}
	n := len(names)
	m := make([][]float64, n)
	var labels plotter.XYLabels
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i == j {
				m[i][j] = 1
			} else {
				m[i][j] = stats.Pearson(cols[i], cols[j])
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(j), Y: float64(i)})
			labels.Labels = append(labels.Labels, corrLabel(m[i][j]))
		}
	}
	p := plot.New()
	p.Title.Text = "Correlation heatmap"
	hm := plotter.NewHeatMap(corrGrid{m: m}, palette.Heat(12, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)
	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return "", err
	}
	p.Add(lbl)
	p.NominalX(names...)
	p.NominalY(names...)
	return r.save(p, HeatmapFile)
}

func corrLabel(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// topFeatures draws |r| for the strongest predictors of a numeric target,
// leaving out the target itself.
func (r *Renderer) topFeatures(target string, ins *eda.Insights) (string, error) {
	if _, ok := ins.TargetDistribution.(*eda.NumericSummary); !ok {
		return "", nil
	}
	var names []string
	var vals plotter.Values
	for _, f := range eda.TopFeatures(ins.Correlation, len(ins.Correlation)) {
		if f.Column == target || math.IsNaN(f.Value) {
			continue
		}
		names = append(names, f.Column)
		vals = append(vals, f.Value)
		if len(vals) == maxHeatmapColumns {
			break
		}
	}
	if len(vals) == 0 {
		return "", nil
	}
	// strongest feature on top
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
		vals[i], vals[j] = vals[j], vals[i]
	}
	p := plot.New()
	p.Title.Text = "Top features by |correlation| with " + target
	p.X.Label.Text = "|r|"
	bars, err := plotter.NewBarChart(vals, vg.Points(barWidth))
	if err != nil {
		return "", err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalY(names...)
	return r.save(p, TopFeaturesFile)
}

// categorical draws one panel per categorical column: target box plots per
// group for a numeric target, target counts per group for a categorical one.
func (r *Renderer) categorical(ds *dataset.Dataset, target string, ins *eda.Insights) (string, error) {
	tgt, ok := ds.Column(target)
	if !ok {
		return "", fmt.Errorf("unknown column %q", target)
	}
	var plots []*plot.Plot
	for _, rel := range ins.CategoricalRelationships {
		if len(rel.Groups) == 0 {
			continue
		}
		col, ok := ds.Column(rel.Column)
		if !ok {
			continue
		}
		var (
			p   *plot.Plot
			err error
		)
		if rel.NumericTarget {
			p, err = groupBoxes(rel, col, tgt)
		} else {
			p, err = groupCounts(rel, ins)
		}
		if err != nil {
			return "", fmt.Errorf("%s: %w", rel.Column, err)
		}
		if p != nil {
			p.Title.Text = target + " by " + rel.Column
			plots = append(plots, p)
		}
	}
	if len(plots) == 0 {
		return "", nil
	}
	return r.saveGrid(plots, 2, CategoricalFile)
}

func groupBoxes(rel eda.Relationship, col, tgt *dataset.Column) (*plot.Plot, error) {
	byGroup := map[string]plotter.Values{}
	for i := 0; i < col.Len(); i++ {
		g, ok := col.Text(i)
		if !ok {
			continue
		}
		if v, ok := tgt.Float(i); ok {
			byGroup[g] = append(byGroup[g], v)
		}
	}
	p := plot.New()
	names := make([]string, len(rel.Groups))
	drawn := 0
	for k, g := range rel.Groups {
		names[k] = g.Group
		vals := byGroup[g.Group]
		if len(vals) == 0 {
			continue
		}
		bp, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(k), vals)
		if err != nil {
			return nil, err
		}
		bp.FillColor = plotutil.Color(k)
		p.Add(bp)
		drawn++
	}
	if drawn == 0 {
		return nil, nil
	}
	p.NominalX(names...)
	return p, nil
}

func groupCounts(rel eda.Relationship, ins *eda.Insights) (*plot.Plot, error) {
	summary, ok := ins.TargetDistribution.(*eda.CategoricalSummary)
	if !ok || len(summary.Values) == 0 {
		return nil, nil
	}
	p := plot.New()
	p.Legend.Top = true
	names := make([]string, len(rel.Groups))
	for k, g := range rel.Groups {
		names[k] = g.Group
	}
	w := vg.Points(float64(barWidth) / float64(len(summary.Values)) * 2)
	for h, value := range summary.Values {
		vals := make(plotter.Values, len(rel.Groups))
		for k, g := range rel.Groups {
			for _, vc := range g.Counts {
				if vc.Value == value {
					vals[k] = float64(vc.Count)
				}
			}
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(h)
		bars.Offset = vg.Length(float64(h)-float64(len(summary.Values)-1)/2) * w
		p.Add(bars)
		p.Legend.Add(value, bars)
	}
	p.NominalX(names...)
	return p, nil
}

// outliers draws a box plot for every numeric column except the target.
func (r *Renderer) outliers(ds *dataset.Dataset, target string) (string, error) {
	var plots []*plot.Plot
	for i, c := range ds.ColumnsOfKind(dataset.Numeric) {
		if c.Name() == target {
			continue
		}
		vals := plotter.Values(c.Floats())
		if len(vals) == 0 {
			continue
		}
		p := plot.New()
		p.Title.Text = c.Name()
		bp, err := plotter.NewBoxPlot(vg.Points(boxWidth), 0, vals)
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.Name(), err)
		}
		bp.FillColor = plotutil.Color(i)
		p.Add(bp)
		p.NominalX(c.Name())
		plots = append(plots, p)
	}
	if len(plots) == 0 {
		return "", nil
	}
	return r.saveGrid(plots, 3, OutliersFile)
}
