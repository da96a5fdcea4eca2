package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/report"
	"github.com/KaramelBytes/smarteda-cli/internal/utils"
	"github.com/KaramelBytes/smarteda-cli/internal/viz"
)

var (
	abLoad    loadFlags
	abPipe    pipeFlags
	abTarget  string
	abOutDir  string
	abFormat  string
	abCleaned bool
	abHistory bool
	abQuiet   bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Run the EDA pipeline over several CSV/TSV/XLSX files and write one report per file",
	Long: `Run the EDA pipeline over every file matched by the given paths or globs.
The target is --target when set, otherwise detected per file. Reports are
written to --out-dir; an existing report is never overwritten, a numbered
suffix is added instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format, err := report.ParseFormat(abFormat)
		if err != nil {
			return err
		}
		opt, err := abPipe.options(cmd)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(abOutDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := abLoad.load(path)
			if err != nil {
				return err
			}
			target := abTarget
			if target == "" {
				name, ok := eda.DetectTarget(ds)
				if !ok {
					return fmt.Errorf("%s: could not detect a target column", filepath.Base(path))
				}
				target = name
			}

			base := reportBase(path, abLoad.sheetName)
			reportPath := uniquePath(abOutDir, base, report.Extension(format))
			stem := strings.TrimSuffix(filepath.Base(reportPath), report.Extension(format))
			fileOpt := opt
			if opt.GenerateViz {
				fileOpt.VizDir = filepath.Join(opt.VizDir, stem)
				fileOpt.Renderer = viz.New(fileOpt.VizDir, log)
			}

			res, err := eda.Run(ds, target, fileOpt)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			var buf bytes.Buffer
			if err := report.Render(&buf, format, res.Insights); err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			if reportPath != filepath.Join(abOutDir, base+report.Extension(format)) && !abQuiet {
				warnf(out, "Detected existing report, writing to %s to avoid overwrite.", filepath.Base(reportPath))
			}
			if err := utils.SafeWriteFile(reportPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if abCleaned {
				if err := dataset.WriteCSV(res.Cleaned, filepath.Join(abOutDir, stem+".cleaned.csv")); err != nil {
					return fmt.Errorf("write cleaned dataset: %w", err)
				}
			}
			if res.VizErr != nil {
				warnf(cmd.ErrOrStderr(), "%s: %v", filepath.Base(path), res.VizErr)
			}
			if abHistory {
				if err := recordHistory(out, res, len(ds.Columns()), opt.Strategy, false); err != nil {
					return err
				}
			}
			if !abQuiet {
				successf(out, "%s (target %s) -> %s", filepath.Base(path), target, reportPath)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeping literal paths that exist, and returns
// the unique matches sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportBase is the file stem plus a "__sheet-<name>" suffix when a sheet was
// selected by name.
func reportBase(path, sheet string) string {
	stem := utils.SafeFileStem(path)
	if sheet == "" {
		return stem
	}
	s := strings.ToLower(strings.TrimSpace(sheet))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return stem + "__sheet-" + ss
}

// uniquePath returns dir/base+ext, or the first free dir/base__N+ext (N >= 2).
func uniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	f := analyzeBatchCmd.Flags()
	abLoad.register(f)
	abPipe.register(f)
	f.StringVarP(&abTarget, "target", "t", "", "target column for every file (detected per file when empty)")
	f.StringVar(&abOutDir, "out-dir", "reports", "directory for the per-file reports")
	f.StringVar(&abFormat, "format", "markdown", "report format: text|markdown|json|yaml")
	f.BoolVar(&abCleaned, "cleaned", false, "also write <report>.cleaned.csv next to each report")
	f.BoolVar(&abHistory, "history", false, "record every run in the history database")
	f.BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
