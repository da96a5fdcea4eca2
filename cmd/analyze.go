package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/history"
	"github.com/KaramelBytes/smarteda-cli/internal/report"
	"github.com/KaramelBytes/smarteda-cli/internal/utils"
	"github.com/KaramelBytes/smarteda-cli/internal/viz"
)

var (
	anaLoad       loadFlags
	anaPipe       pipeFlags
	anaOutputPath string
	anaNoSave     bool
	anaFormat     string
	anaReportPath string
	anaAutoTarget bool
	anaNoPrompt   bool
	anaHistory    bool
	anaStoreRows  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file> [target]",
	Short: "Run the full EDA pipeline on a CSV/TSV/XLSX file",
	Long: `Run the EDA pipeline: missing-value report, imputation, target distribution,
z-score outliers, correlations and categorical group statistics, and feature
ranking. When no target is given, SmartEDA prompts for one (or detects it with
--auto-target).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opt, err := anaPipe.options(cmd)
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(anaFormat)
		if err != nil {
			return err
		}
		ds, err := anaLoad.load(args[0])
		if err != nil {
			return err
		}
		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		if target == "" {
			target, err = chooseTarget(cmd.InOrStdin(), out, ds)
			if err != nil {
				return err
			}
		}

		res, err := eda.Run(ds, target, opt)
		if err != nil {
			return err
		}

		var rendered bytes.Buffer
		if err := report.Render(&rendered, format, res.Insights); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if anaReportPath != "" {
			if err := utils.SafeWriteFile(anaReportPath, rendered.Bytes()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			successf(out, "Wrote %s report to %s", format, anaReportPath)
		} else if _, err := out.Write(rendered.Bytes()); err != nil {
			return err
		}

		if !anaNoSave {
			path := anaOutputPath
			if !cmd.Flags().Changed("output") {
				path = cfg.OutputPath
			}
			if err := dataset.WriteCSV(res.Cleaned, path); err != nil {
				return fmt.Errorf("write cleaned dataset: %w", err)
			}
			successf(out, "Cleaned dataset saved to %s", path)
		}

		if opt.GenerateViz {
			if res.VizErr != nil {
				warnf(cmd.ErrOrStderr(), "%v", res.VizErr)
			} else {
				successf(out, "Saved %d charts to %s", len(res.Charts), opt.VizDir)
			}
		}

		if anaHistory || anaStoreRows {
			if err := recordHistory(out, res, len(ds.Columns()), opt.Strategy, anaStoreRows); err != nil {
				return err
			}
		}
		return nil
	},
}

// pipeFlags are the pipeline tuning flags shared by analyze and
// analyze-batch. Config values apply unless a flag is set explicitly.
type pipeFlags struct {
	viz        bool
	vizDir     string
	strategy   string
	topN       int
	zThreshold float64
}

func (pf *pipeFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&pf.viz, "viz", "v", false, "render charts")
	fs.StringVar(&pf.vizDir, "viz-dir", viz.DefaultDir, "directory for charts (default from config)")
	fs.StringVar(&pf.strategy, "strategy", string(eda.StrategyMean), "numeric imputation strategy: mean|median|mode (default from config)")
	fs.IntVar(&pf.topN, "top-n", eda.DefaultTopN, "number of top features to keep (default from config)")
	fs.Float64Var(&pf.zThreshold, "z-threshold", eda.DefaultZThreshold, "|z| above which a value is an outlier (default from config)")
}

func (pf *pipeFlags) options(cmd *cobra.Command) (eda.Options, error) {
	f := cmd.Flags()
	opt := eda.DefaultOptions()
	opt.Logger = log

	strategy := cfg.Strategy
	if f.Changed("strategy") {
		strategy = pf.strategy
	}
	s, err := eda.ParseStrategy(strategy)
	if err != nil {
		return opt, err
	}
	opt.Strategy = s

	opt.TopN = cfg.TopN
	if f.Changed("top-n") {
		opt.TopN = pf.topN
	}
	if opt.TopN < 0 {
		return opt, fmt.Errorf("--top-n must be >= 0, got %d", opt.TopN)
	}
	opt.ZThreshold = cfg.ZThreshold
	if f.Changed("z-threshold") {
		opt.ZThreshold = pf.zThreshold
	}
	if opt.ZThreshold < 0 {
		return opt, fmt.Errorf("--z-threshold must be >= 0, got %g", opt.ZThreshold)
	}

	if pf.viz {
		dir := cfg.VizDir
		if f.Changed("viz-dir") {
			dir = pf.vizDir
		}
		opt.GenerateViz = true
		opt.VizDir = dir
		opt.Renderer = viz.New(dir, log)
	}
	return opt, nil
}

// chooseTarget resolves the target when none was passed on the command line:
// detection with --auto-target, otherwise an interactive prompt.
func chooseTarget(in io.Reader, out io.Writer, ds *dataset.Dataset) (string, error) {
	detected, ok := eda.DetectTarget(ds)
	if anaAutoTarget {
		if !ok {
			return "", errors.New("could not detect a target column: dataset has no columns")
		}
		successf(out, "Detected target column: %s", detected)
		return detected, nil
	}
	if anaNoPrompt {
		return "", errors.New("no target column given (pass it as the second argument or use --auto-target)")
	}
	return promptTarget(in, out, ds, detected)
}

func promptTarget(in io.Reader, out io.Writer, ds *dataset.Dataset, suggested string) (string, error) {
	fmt.Fprintf(out, "Available columns: %s\n", strings.Join(ds.Names(), ", "))
	if cands := eda.SuggestTargets(ds, 3); len(cands) > 0 {
		names := make([]string, len(cands))
		for i, c := range cands {
			names[i] = c.Column
		}
		fmt.Fprintf(out, "Suggested targets: %s\n", strings.Join(names, ", "))
	}
	if suggested != "" {
		fmt.Fprintf(out, "Enter the target column [%s]: ", suggested)
	} else {
		fmt.Fprint(out, "Enter the target column: ")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read target: %w", err)
	}
	fmt.Fprintln(out)
	name := strings.TrimSpace(line)
	if name == "" {
		name = suggested
	}
	if _, ok := ds.Column(name); !ok {
		return "", &eda.InvalidColumnError{Column: name, Available: ds.Names()}
	}
	return name, nil
}

// recordHistory stores the run, and with storeRows its cleaned dataset, in
// the configured history database.
func recordHistory(out io.Writer, res *eda.Result, columns int, strategy eda.Strategy, storeRows bool) error {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	run, err := history.NewRun(res.Insights, strategy, columns)
	if err != nil {
		return err
	}
	if err := store.RecordRun(run); err != nil {
		return err
	}
	log.Debug("run recorded", zap.String("run_id", run.ID), zap.String("db", cfg.HistoryDB))
	successf(out, "Recorded run %s", run.ID)
	if storeRows {
		table, err := store.StoreDataset(run.ID, res.Cleaned)
		if err != nil {
			return fmt.Errorf("store cleaned rows: %w", err)
		}
		successf(out, "Stored %d cleaned rows in table %s", res.Cleaned.Rows(), table)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	f := analyzeCmd.Flags()
	anaLoad.register(f)
	anaPipe.register(f)
	f.StringVarP(&anaOutputPath, "output", "o", "cleaned_output.csv", "path for the cleaned dataset (default from config)")
	f.BoolVar(&anaNoSave, "no-save", false, "do not write the cleaned dataset")
	f.StringVar(&anaFormat, "format", "text", "report format: text|markdown|json|yaml")
	f.StringVar(&anaReportPath, "report", "", "write the report to this file instead of stdout")
	f.BoolVar(&anaAutoTarget, "auto-target", false, "detect the target column instead of prompting")
	f.BoolVar(&anaNoPrompt, "no-prompt", false, "fail instead of prompting when no target is given")
	f.BoolVar(&anaHistory, "history", false, "record the run in the history database")
	f.BoolVar(&anaStoreRows, "store-rows", false, "also store the cleaned rows in the history database (implies --history)")
}
