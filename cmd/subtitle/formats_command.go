package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subtitle/internal/subtitles"
	"subtitle/internal/transcriber"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported output and conversion formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			engine := transcriber.NewWhisperCpp()
			fmt.Fprintf(out, "Generation formats: %s\n", strings.Join(engine.SupportedFormats(), ", "))
			fmt.Fprintf(out, "Conversion formats: %s\n", strings.Join(subtitles.SupportedFormats(), ", "))
			return nil
		},
	}
}
