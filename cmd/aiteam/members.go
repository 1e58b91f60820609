package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newMembersCmd(root *rootOptions) *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}

			members := orch.ListAllMembers()
			if enabledOnly {
				members = orch.ListEnabledMembers()
			}

			if len(orch.ListEnabledMembers()) == 0 {
				printStatus(cmd, "⚠", "no members enabled (set ANTHROPIC_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY or OLLAMA_HOST)", color.FgYellow)
			}
			return printJSON(cmd.OutOrStdout(), members)
		},
	}

	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "Only list enabled members")
	return cmd
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show orchestrator configuration snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			stats := orch.GetStats()
			printStatus(cmd, "✓", fmt.Sprintf("%d/%d members enabled, mode %s", stats.EnabledCount, stats.TotalMembers, stats.ActiveStrategy), color.FgGreen)
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
