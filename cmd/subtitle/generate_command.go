package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subtitle/internal/fileutil"
	"subtitle/internal/media"
	"subtitle/internal/services"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var modelFlag string
	var formatFlag string
	var outputDirFlag string
	var threadsFlag int
	var processorsFlag int
	var mergeFlag bool
	var mergedOutputFlag string

	cmd := &cobra.Command{
		Use:   "generate <video-file>",
		Short: "Generate subtitles for a single video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}

			format := strings.ToLower(strings.TrimSpace(formatFlag))
			if format == "" {
				format = cfg.Batch.OutputFormat
			}
			outputDir := strings.TrimSpace(outputDirFlag)
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			}
			if outputDir == "" {
				outputDir = filepath.Dir(inputPath)
			}

			gen, err := ctx.newGenerator(threadsFlag, processorsFlag)
			if err != nil {
				return err
			}

			model := ctx.resolveModel(modelFlag)
			result, err := gen.Generate(cmd.Context(), inputPath, model, format, outputDir)
			if err != nil {
				return err
			}
			if !result.Success {
				return services.Wrap(services.ErrTranscription, "generate", "", result.Error, nil)
			}

			// Land the artifact under its source name; the engine writes a
			// request-id basename to keep concurrent invocations apart.
			target := filepath.Join(outputDir, fileutil.Stem(inputPath)+"."+format)
			if result.OutputPath != target && fileutil.FileExists(result.OutputPath) {
				if moveErr := fileutil.MoveFile(result.OutputPath, target); moveErr == nil {
					result.OutputPath = target
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subtitles written to %s\n", result.OutputPath)

			if !mergeFlag {
				return nil
			}
			mergedOutput := strings.TrimSpace(mergedOutputFlag)
			if mergedOutput == "" {
				ext := filepath.Ext(inputPath)
				mergedOutput = strings.TrimSuffix(inputPath, ext) + ".subtitled" + ext
			}
			proc := media.NewProcessor(cfg.Media.FFmpegBinary, cfg.Media.OverwriteExisting)
			if err := proc.MergeSubtitles(cmd.Context(), inputPath, result.OutputPath, mergedOutput); err != nil {
				return err
			}
			fmt.Fprintf(out, "Merged video written to %s\n", mergedOutput)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model name (default from config)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: vtt, srt, txt, json, or lrc")
	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Directory for the generated subtitles")
	cmd.Flags().IntVar(&threadsFlag, "threads", 0, "Engine thread count")
	cmd.Flags().IntVar(&processorsFlag, "processors", 0, "Engine processor count")
	cmd.Flags().BoolVar(&mergeFlag, "merge", false, "Mux the subtitles into a copy of the video")
	cmd.Flags().StringVar(&mergedOutputFlag, "merged-output", "", "Path for the muxed video (default <input>.subtitled.<ext>)")

	return cmd
}
