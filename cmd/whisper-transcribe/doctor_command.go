package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/preflight"
)

func newDoctorCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg, configuration, and server connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A broken defaults file must not stop the diagnosis; the config
			// check in the table reports it.
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				cfg = config.Fallback()
			}
			logger := logging.NewNop()
			client := cmdCtx.stashClient(cfg, logger)
			runtime := config.ResolveRuntime(cmd.Context(), nil, client.FetchServerURLSetting, cfg, logger)

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Inputs{
				ConfigPath:   cmdCtx.flagPath(),
				ServerURL:    runtime.ServerURL,
				ServerSource: runtime.ServerURLSource,
				Scenes:       client,
			})

			colorize := shouldColorize(cmd.OutOrStdout())
			rows := make([]table.Row, 0, len(results))
			failed := 0
			for _, result := range results {
				if !result.Passed {
					failed++
				}
				rows = append(rows, table.Row{result.Name, statusCell(result.Passed, colorize), result.Detail})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"Check", "Status", "Detail"}, rows)

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All checks passed")
			return nil
		},
	}
}

func statusCell(passed bool, colorize bool) string {
	if passed {
		if colorize {
			return ansiGreen + "PASS" + ansiReset
		}
		return "PASS"
	}
	if colorize {
		return ansiRed + "FAIL" + ansiReset
	}
	return "FAIL"
}
