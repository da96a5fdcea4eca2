// Package viz draws the exploratory charts for a finished pipeline run with
// gonum/plot. A *Renderer satisfies eda.Renderer.
package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/utils"
)

// DefaultDir is where charts go when no directory is configured.
const DefaultDir = "visualizations"

// Chart file names.
const (
	MissingFile     = "missing_values.png"
	HeatmapFile     = "correlation_heatmap.png"
	TopFeaturesFile = "top_features.png"
	CategoricalFile = "categorical_relationships.png"
	OutliersFile    = "outliers.png"
)

// maxHeatmapColumns caps the correlation matrix and the feature bar chart.
const maxHeatmapColumns = 10

// DistributionFile returns the chart file name for a target column.
func DistributionFile(target string) string {
	return utils.SafeName(target) + "_distribution.png"
}

// Renderer writes PNG charts into Dir.
type Renderer struct {
	Dir string
	// Width and Height size single-plot charts; grid tiles use TileWidth and
	// TileHeight.
	Width, Height         vg.Length
	TileWidth, TileHeight vg.Length
	log                   *zap.Logger
}

// New returns a renderer writing into dir (DefaultDir when empty).
func New(dir string, log *zap.Logger) *Renderer {
	if dir == "" {
		dir = DefaultDir
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		Dir:        dir,
		Width:      8 * vg.Inch,
		Height:     5 * vg.Inch,
		TileWidth:  5 * vg.Inch,
		TileHeight: 4 * vg.Inch,
		log:        log,
	}
}

// Render draws every applicable chart and returns the written paths. Charts
// without data (no missing values, non-numeric target for the heatmap, and
// so on) are skipped. The first failure aborts rendering.
func (r *Renderer) Render(ds *dataset.Dataset, target string, ins *eda.Insights) ([]string, error) {
	if err := utils.EnsureDir(r.Dir); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.Dir, err)
	}
	charts := []struct {
		name string
		draw func() (string, error)
	}{
		{"missing", func() (string, error) { return r.missing(ins) }},
		{"distribution", func() (string, error) { return r.distribution(ds, target, ins) }},
		{"heatmap", func() (string, error) { return r.heatmap(ds, target, ins) }},
		{"top_features", func() (string, error) { return r.topFeatures(target, ins) }},
		{"categorical", func() (string, error) { return r.categorical(ds, target, ins) }},
		{"outliers", func() (string, error) { return r.outliers(ds, target) }},
	}
	var written []string
	for _, c := range charts {
		start := time.Now()
		p, err := c.draw()
		if err != nil {
			return written, fmt.Errorf("%s chart: %w", c.name, err)
		}
		if p == "" {
			r.log.Debug("chart skipped", zap.String("chart", c.name))
			continue
		}
		r.log.Debug("chart written",
			zap.String("chart", c.name),
			zap.String("path", p),
			zap.Duration("took", time.Since(start)))
		written = append(written, p)
	}
	return written, nil
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	path := filepath.Join(r.Dir, name)
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return path, nil
}

// saveGrid lays plots out row-major in a grid with cols columns and writes a
// single PNG. Trailing empty tiles are left blank.
func (r *Renderer) saveGrid(plots []*plot.Plot, cols int, name string) (string, error) {
	if len(plots) < cols {
		cols = len(plots)
	}
	rows := (len(plots) + cols - 1) / cols
	grid := make([][]*plot.Plot, rows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, cols)
		for i := range grid[j] {
			if k := j*cols + i; k < len(plots) {
				grid[j][i] = plots[k]
				continue
			}
			blank := plot.New()
			blank.HideAxes()
			grid[j][i] = blank
		}
	}

	img := vgimg.New(vg.Length(cols)*r.TileWidth, vg.Length(rows)*r.TileHeight)
	dc := draw.New(img)
	pad := 3 * vg.Millimeter
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: pad, PadY: pad,
		PadTop: pad, PadBottom: pad, PadLeft: pad, PadRight: pad,
	}
	canvases := plot.Align(grid, tiles, dc)
	for j := range grid {
		for i := range grid[j] {
			grid[j][i].Draw(canvases[j][i])
		}
	}

	path := filepath.Join(r.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}
