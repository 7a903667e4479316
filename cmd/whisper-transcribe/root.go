package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// version is stamped at release time via -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	var configFlag string

	cmdCtx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "whisper-transcribe",
		Short:         "Generate SRT subtitles for Stash scenes via a whisper server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The host pipes the task descriptor, so its stdin is never a
			// terminal. A human running the binary bare gets help instead of
			// a hung read.
			if stdinIsTerminal() {
				return cmd.Help()
			}
			runPlugin(cmd.Context(), os.Stdin, os.Stderr, cmdCtx.flagPath())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newTranscribeCommand(cmdCtx))
	rootCmd.AddCommand(newScenesCommand(cmdCtx))
	rootCmd.AddCommand(newRunPodCommand(cmdCtx))
	rootCmd.AddCommand(newDoctorCommand(cmdCtx))
	rootCmd.AddCommand(newConfigCommand(cmdCtx))

	return rootCmd
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
