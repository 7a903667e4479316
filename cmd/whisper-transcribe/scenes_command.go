package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newScenesCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the host's scenes, newest update first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := cmdCtx.newConsoleLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			client := cmdCtx.stashClient(cfg, logger)

			refs := client.AllScenes(cmd.Context())
			if len(refs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No scenes found at %s (host down or library empty)\n", client.GraphQLURL())
				return nil
			}
			sort.SliceStable(refs, func(i, j int) bool {
				return refs[i].UpdatedAt > refs[j].UpdatedAt
			})
			if limit > 0 && len(refs) > limit {
				refs = refs[:limit]
			}

			rows := make([]table.Row, 0, len(refs))
			for _, ref := range refs {
				rows = append(rows, table.Row{ref.ID, ref.UpdatedAt})
			}
			renderTable(cmd.OutOrStdout(), table.Row{"ID", "Updated"}, rows, 1)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of scenes to list (0 for all)")

	return cmd
}
