package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Jblast94/whisper-transcribe/internal/services/runpod"
)

// newRunPodCommand exercises the cloud endpoint directly with a local audio
// file. Unlike plugin mode there is no log-and-suppress guard here: a failed
// invoke exits non-zero so scripts can tell.
func newRunPodCommand(cmdCtx *commandContext) *cobra.Command {
	var endpointURL string
	var language string
	var timeoutSecs int
	var showRaw bool

	cmd := &cobra.Command{
		Use:   "runpod <audio-file>",
		Short: "Send an audio file to the RunPod endpoint and print the transcript",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the path to an audio file. Example: whisper-transcribe runpod sample.wav")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Credentials commonly live in a local .env during endpoint
			// testing. Load it before the config layer reads the environment.
			_ = godotenv.Load()

			audio := strings.TrimSpace(args[0])
			if audio == "" {
				return fmt.Errorf("audio file path is required")
			}
			audio, _ = filepath.Abs(audio)
			info, err := os.Stat(audio)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("audio file %q not found", audio)
				}
				return fmt.Errorf("stat audio: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("audio path %q is a directory", audio)
			}

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := cmdCtx.newConsoleLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			lang := strings.TrimSpace(language)
			if lang == "" {
				lang = cfg.RunPod.Language
			}
			timeout := time.Duration(timeoutSecs) * time.Second
			if timeoutSecs <= 0 {
				timeout = time.Duration(cfg.RunPod.TimeoutSeconds) * time.Second
			}

			// Later options win, so the --endpoint flag overrides both the
			// config file and the environment.
			client, err := runpod.NewClient(cfg.RunPod.APIKey,
				runpod.WithEndpointID(cfg.RunPod.EndpointID),
				runpod.WithEndpointURL(cfg.RunPod.EndpointURL),
				runpod.WithEndpointURL(endpointURL),
				runpod.WithLanguage(lang),
				runpod.WithTimeout(timeout),
				runpod.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			result, err := client.Invoke(cmd.Context(), audio)
			if err != nil {
				return fmt.Errorf("invoke endpoint: %w", err)
			}

			if showRaw {
				fmt.Fprintln(cmd.OutOrStdout(), string(result.Raw))
			}
			if !result.Found {
				fmt.Fprintln(cmd.OutOrStdout(), "No transcript text in the endpoint response (see --raw)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointURL, "endpoint", "", "Sync-invoke URL (default: RUNPOD_ENDPOINT_URL or the configured endpoint id)")
	cmd.Flags().StringVar(&language, "language", "", "Spoken language hint (default: configured language or en)")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "Invoke timeout in seconds (default: configured timeout)")
	cmd.Flags().BoolVar(&showRaw, "raw", false, "Print the raw JSON response before the extracted text")

	return cmd
}
