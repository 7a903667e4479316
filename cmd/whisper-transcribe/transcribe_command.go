package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/deps"
	"github.com/Jblast94/whisper-transcribe/internal/services/whisper"
)

func newTranscribeCommand(cmdCtx *commandContext) *cobra.Command {
	var serverURL string
	var translate bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "transcribe <video-file>",
		Short: "Transcribe a local video file and write an SRT next to it",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to a video file. Example: whisper-transcribe transcribe /media/clip.mp4")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			video := strings.TrimSpace(args[0])
			if video == "" {
				return fmt.Errorf("video file path is required")
			}
			video, _ = filepath.Abs(video)
			info, err := os.Stat(video)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("video file %q not found", video)
				}
				return fmt.Errorf("stat video: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("video path %q is a directory", video)
			}

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := cmdCtx.newConsoleLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			// No descriptor outside plugin mode; the chain falls through to
			// environment, defaults file, and the built-in default.
			runtime := config.ResolveRuntime(cmd.Context(), nil, nil, cfg, logger)
			if cmd.Flags().Changed("server") {
				runtime.ServerURL = strings.TrimSpace(serverURL)
				runtime.ServerURLSource = "flag"
			}
			if cmd.Flags().Changed("translate") {
				runtime.Translate = translate
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "dry-run: would transcribe %s to %s via %s\n",
					video, whisper.SubtitlePath(video), runtime.ServerURL)
				return nil
			}

			backend := whisper.NewClient(runtime.ServerURL,
				whisper.WithTranslate(runtime.Translate),
				whisper.WithUploadTimeout(runtime.UploadTimeout),
				whisper.WithLogger(logger),
			)
			service := whisper.NewService(backend,
				whisper.WithFFmpeg(deps.FFmpegCommand(os.Args[0])),
				whisper.WithServiceLogger(logger),
			)
			srtPath, err := service.Transcribe(cmd.Context(), video)
			if err != nil {
				return fmt.Errorf("transcription failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote subtitle: %s\n", srtPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Whisper server inference URL (default: resolved from environment and config)")
	cmd.Flags().BoolVar(&translate, "translate", false, "Translate the audio to English instead of transcribing verbatim")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without contacting the server")

	return cmd
}
