package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded batch runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent batch runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled in the configuration")
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.StartedAt,
					run.InputDir,
					run.Model,
					run.OutputFormat,
					strconv.Itoa(run.TotalFiles),
					strconv.Itoa(run.Successful),
					strconv.Itoa(run.Failed),
					fmt.Sprintf("%.1fs", run.DurationSeconds),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{
					numericCol("ID"), col("Started"), col("Input"), col("Model"), col("Format"),
					numericCol("Total"), numericCol("OK"), numericCol("Failed"), numericCol("Duration"),
				},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-file outcomes of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled in the configuration")
			}
			defer store.Close()

			files, err := store.RunFiles(cmd.Context(), runID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No files recorded for run %d\n", runID)
				return nil
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				status := "ok"
				if !file.Success {
					status = "failed: " + file.Error
				}
				rows = append(rows, []string{
					file.FilePath,
					status,
					file.OutputPath,
					fmt.Sprintf("%.1fs", file.DurationSeconds),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{col("File"), col("Status"), col("Output"), numericCol("Duration")},
				rows,
			))
			return nil
		},
	}
}
