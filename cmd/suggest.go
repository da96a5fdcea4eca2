package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/smarteda-cli/internal/eda"
)

var (
	sugLoad loadFlags
	sugTop  int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Rank the columns most likely to be the analysis target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := sugLoad.load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		cands := eda.SuggestTargets(ds, sugTop)
		if len(cands) == 0 {
			fmt.Fprintln(out, "(no columns)")
			return nil
		}
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Rank", "Column", "Kind", "Unique", "Score"})
		for i, c := range cands {
			t.AppendRow(table.Row{i + 1, c.Column, c.Kind, c.Unique, c.Score})
		}
		t.Render()
		if name, ok := eda.DetectTarget(ds); ok {
			fmt.Fprintf(out, "Detected target: %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	sugLoad.register(suggestCmd.Flags())
	suggestCmd.Flags().IntVar(&sugTop, "top", 5, "number of candidates to list (-1 for all)")
}
