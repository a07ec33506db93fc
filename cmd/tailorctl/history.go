package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"resume-tailor/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the application dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return printJSON(cmd, app.HistoryService.Dashboard(context.Background()))
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every history entry, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()
		entries, err := app.HistoryRepo.List(context.Background())
		if err != nil {
			return err
		}
		return printJSON(cmd, entries)
	},
}

var historyMarkCmd = &cobra.Command{
	Use:   "mark <id> <status>",
	Short: "Record the delivery outcome of an entry (SUCCESS or FAILURE)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, ok := history.ParseStatus(args[1])
		if !ok || !status.Terminal() {
			return fmt.Errorf("status must be SUCCESS or FAILURE, got %q", args[1])
		}
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()
		entry, err := app.HistoryService.UpdateStatus(context.Background(), args[0], status)
		if err != nil {
			return err
		}
		return printJSON(cmd, entry)
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyMarkCmd)
	rootCmd.AddCommand(historyCmd)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
