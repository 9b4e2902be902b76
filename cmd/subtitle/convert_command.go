package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subtitle/internal/subtitles"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var fromFlag string
	var toFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:         "convert <subtitle-file>",
		Short:       "Convert a subtitle file between formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			content, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read subtitle file: %w", err)
			}

			from := strings.TrimSpace(fromFlag)
			if from == "" {
				from = strings.TrimPrefix(filepath.Ext(inputPath), ".")
			}
			to := strings.TrimSpace(toFlag)
			if to == "" {
				return fmt.Errorf("--to is required (supported: %s)", strings.Join(subtitles.SupportedFormats(), ", "))
			}

			converted, err := subtitles.Convert(string(content), from, to)
			if err != nil {
				return err
			}

			target, err := subtitles.New(to)
			if err != nil {
				return err
			}
			outputPath := strings.TrimSpace(outputFlag)
			if outputPath == "" {
				outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + target.Extension()
			}
			if err := os.WriteFile(outputPath, []byte(converted), 0o644); err != nil {
				return fmt.Errorf("write converted subtitles: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s\n", inputPath, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Source format (default: inferred from the file extension)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Target format")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output path (default: input with the target extension)")

	return cmd
}
