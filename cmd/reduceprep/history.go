package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reduceprep/internal/config"
	"reduceprep/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded prep runs",
	Long: `List previous prep runs, newest first.

Each line shows when the run happened, which compiler driver it used,
the target it prepared, and where its artifacts went.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path := cfg.HistoryDB
	if path == "" {
		path = state.DefaultPath()
	}

	db, err := state.Open(path)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No prep runs recorded yet.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %-5s  %-30s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Compiler, r.Target, r.OutputDir)
	}
	return nil
}
