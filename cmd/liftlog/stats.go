package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/statsui"
)

var (
	statsDate  string
	statsPlain bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compare a week against the average of prior weeks",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDate, "date", "", "any day of the week to show (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain table instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	date, err := parseDate(statsDate)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	// The day's session, persisted or not, anchors the week.
	ref, _, err := a.ed.OpenDay(ctx, date)
	if err != nil {
		return err
	}

	if statsPlain || !isTerminal(os.Stdout) {
		report, err := stats.LoadReport(ctx, a.repo, ref, a.cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), report)
	}

	m := statsui.NewModel(a.repo, a.cfg, ref)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}
