package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/smarteda-cli/internal/history"
	"github.com/KaramelBytes/smarteda-cli/internal/report"
)

var (
	histDB     string
	histLimit  int
	histFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect runs recorded with 'analyze --history'",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		runs, err := store.ListRuns(histLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Created", "Dataset", "Target", "Strategy", "Rows", "Cols", "Table"})
		for _, r := range runs {
			created := r.CreatedAt
			if ts := r.Time(); !ts.IsZero() {
				created = ts.Local().Format("2006-01-02 15:04:05")
			}
			t.AppendRow(table.Row{shortID(r.ID), created, r.Dataset, r.Target, r.Strategy, r.Rows, r.Columns, r.CleanedTable})
		}
		t.Render()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the insights of a recorded run (id or unique prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := report.ParseFormat(histFormat)
		if err != nil {
			return err
		}
		store, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		run, err := store.GetRun(args[0])
		if err != nil {
			return err
		}
		b, err := report.ReformatJSON([]byte(run.InsightsJSON), f)
		if err != nil {
			return err
		}
		if len(b) > 0 && b[len(b)-1] != '\n' {
			b = append(b, '\n')
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	path := cfg.HistoryDB
	if cmd.Flags().Changed("db") {
		path = histDB
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	historyCmd.PersistentFlags().StringVar(&histDB, "db", "", "history database (default from config)")
	historyListCmd.Flags().IntVar(&histLimit, "limit", 20, "maximum runs to list (0 for all)")
	historyShowCmd.Flags().StringVar(&histFormat, "format", "json", "output format: json|yaml")
}
