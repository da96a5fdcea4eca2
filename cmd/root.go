package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/smarteda-cli/internal/config"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration; falls back to defaults when loading fails.
	cfg *cfgpkg.Global
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "smarteda",
	Short: "SmartEDA: automated exploratory data analysis for tabular files",
	Long: `SmartEDA loads a CSV/TSV/XLSX dataset, imputes missing values, profiles a target
column, flags z-score outliers, measures relationships with the target, ranks
features, and optionally renders charts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.smarteda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		warnf(os.Stderr, "failed to load config: %v", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = logLevel
	}
	l, err := logging.New(level, debug)
	if err != nil {
		warnf(os.Stderr, "%v; using warn", err)
		l, _ = logging.New("warn", debug)
	}
	log = l
}

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	errMark  = color.New(color.FgRed, color.Bold).SprintFunc()
)

func successf(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", okMark("✓"), fmt.Sprintf(format, a...))
}

func warnf(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", warnMark("⚠ Warning:"), fmt.Sprintf(format, a...))
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errMark("✗ Error:"), err)
	var ice *eda.InvalidColumnError
	if errors.As(err, &ice) && len(ice.Available) > 0 {
		fmt.Fprintln(w, "  Run 'smarteda suggest <file>' to see likely target columns.")
	}
}
