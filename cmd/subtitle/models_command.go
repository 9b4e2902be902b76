package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the local whisper.cpp model cache",
	}

	modelsCmd.AddCommand(newModelsListCommand(ctx))
	modelsCmd.AddCommand(newModelsDownloadCommand(ctx))
	modelsCmd.AddCommand(newModelsDeleteCommand(ctx))

	return modelsCmd
}

func newModelsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog models and their download status",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.modelManager()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(manager.ListAvailable()))
			for _, name := range manager.ListAvailable() {
				size := "-"
				if bytes := manager.ModelSize(name); bytes >= 0 {
					size = formatBytes(bytes)
				}
				rows = append(rows, []string{name, yesNo(manager.ModelExists(name)), size})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]tableColumn{col("Model"), col("Downloaded"), numericCol("Size")},
				rows,
			))
			fmt.Fprintf(out, "Model directory: %s\n", manager.Dir())
			return nil
		},
	}
}

func newModelsDownloadCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "download <model>...",
		Short: "Download one or more models into the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.modelManager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				path, err := manager.DownloadModel(cmd.Context(), name, forceFlag)
				if err != nil {
					return fmt.Errorf("download %s: %w", name, err)
				}
				fmt.Fprintf(out, "%s ready at %s\n", name, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Re-download even when the model is already present")
	return cmd
}

func newModelsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model>...",
		Short: "Delete downloaded models from the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.modelManager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				removed, err := manager.DeleteModel(name)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Deleted %s\n", name)
				} else {
					fmt.Fprintf(out, "%s was not downloaded\n", name)
				}
			}
			return nil
		},
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
