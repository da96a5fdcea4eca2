package eda

import (
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Renderer draws charts for a finished run. Implementations own their output
// location and return the paths they wrote.
type Renderer interface {
	Render(ds *dataset.Dataset, target string, ins *Insights) ([]string, error)
}

// Options controls a pipeline run.
type Options struct {
	// Strategy for numeric imputation. Empty selects StrategyMean.
	Strategy Strategy
	// TopN features kept by the ranking stage; <= 0 selects DefaultTopN.
	TopN int
	// ZThreshold for outlier detection; <= 0 selects DefaultZThreshold.
	ZThreshold float64
	// GenerateViz invokes Renderer after all insights are computed.
	GenerateViz bool
	Renderer    Renderer
	// VizDir is reported in VisualizationError; the Renderer decides where files go.
	VizDir string
	Logger *zap.Logger
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		Strategy:   StrategyMean,
		TopN:       DefaultTopN,
		ZThreshold: DefaultZThreshold,
	}
}

// Result carries everything a run produced.
type Result struct {
	Cleaned  *dataset.Dataset
	Insights *Insights
	// Charts lists files written by the renderer.
	Charts []string
	// VizErr is a *VisualizationError when rendering was requested and failed.
	VizErr error
}

// Run executes the EDA pipeline: missing report, imputation, target analysis,
// outlier detection, numeric and categorical relationships, and feature
// ranking, then optionally renders charts. The input dataset is not modified.
// Rendering failures are recorded in Result.VizErr and never discard the
// computed insights.
func Run(ds *dataset.Dataset, target string, opt Options) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if ds == nil {
		return nil, errors.New("nil dataset")
	}
	if _, ok := ds.Column(target); !ok {
		return nil, &InvalidColumnError{Column: target, Available: ds.Names()}
	}
	strategy := opt.Strategy
	if strategy == "" {
		strategy = StrategyMean
	}
	ins := &Insights{
		RunID:   uuid.NewString(),
		Dataset: ds.Name,
		Rows:    ds.Rows(),
		Target:  target,
	}
	log = log.With(zap.String("run_id", ins.RunID), zap.String("target", target))
	stage := func(name string, start time.Time) {
		log.Debug("stage complete", zap.String("stage", name), zap.Duration("took", time.Since(start)))
	}

	start := time.Now()
	missing, err := MissingPercentage(ds)
	if err != nil {
		return nil, fmt.Errorf("missing report: %w", err)
	}
	ins.Missing = missing
	stage("missing", start)

	start = time.Now()
	cleaned, err := fillMissing(ds, strategy, log)
	if err != nil {
		return nil, fmt.Errorf("impute: %w", err)
	}
	stage("impute", start)

	start = time.Now()
	summary, err := AnalyzeTarget(cleaned, target)
	if err != nil {
		return nil, fmt.Errorf("target distribution: %w", err)
	}
	ins.TargetDistribution = summary
	stage("target_distribution", start)

	start = time.Now()
	ins.Outliers = detectOutliers(cleaned, opt.ZThreshold, log)
	stage("outliers", start)

	start = time.Now()
	ins.Correlation = NumericalRelationship(cleaned, target)
	stage("correlation", start)

	start = time.Now()
	ins.CategoricalRelationships = CategoricalRelationship(cleaned, target)
	stage("categorical_relationships", start)

	topN := opt.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	ins.TopFeatures = TopFeatures(ins.Correlation, topN)

	res := &Result{Cleaned: cleaned, Insights: ins}
	if opt.GenerateViz {
		res.Charts, res.VizErr = render(opt, cleaned, target, ins)
		if res.VizErr != nil {
			log.Warn("visualization failed", zap.Error(res.VizErr))
		} else {
			log.Debug("visualization complete", zap.Int("charts", len(res.Charts)))
		}
	}
	return res, nil
}

// render invokes the renderer, converting errors and panics into a
// *VisualizationError.
func render(opt Options, ds *dataset.Dataset, target string, ins *Insights) (charts []string, err error) {
	if opt.Renderer == nil {
		return nil, &VisualizationError{Dir: opt.VizDir, Err: errors.New("no renderer configured")}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &VisualizationError{Dir: opt.VizDir, Err: fmt.Errorf("renderer panic: %v", r)}
		}
	}()
	charts, err = opt.Renderer.Render(ds, target, ins)
	if err != nil {
		return charts, &VisualizationError{Dir: opt.VizDir, Err: err}
	}
	return charts, nil
}
