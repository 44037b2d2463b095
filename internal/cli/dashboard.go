package cli

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/dashboard"
)

var errDashboardUnavailable = errors.New("dashboard data unavailable, check the backend and try again")

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Deployment dashboard",
	}

	cmd.AddCommand(newDashboardStatsCmd())
	cmd.AddCommand(newDashboardLogsCmd())
	cmd.AddCommand(newDashboardTriggerCmd())
	cmd.AddCommand(newDashboardWatchCmd())

	return cmd
}

func newDashboardStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show environment status and build success rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := dashboard.NewController(apiClient.Dashboard(), nil, appLogger)
			ctrl.Refresh(cmd.Context())

			view := ctrl.View()
			if view.Loading {
				return errDashboardUnavailable
			}
			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), view.Snapshot)
			}
			renderSnapshot(cmd.OutOrStdout(), view.Snapshot)
			return nil
		},
	}
}

func newDashboardLogsCmd() *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the build log",
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := apiClient.Dashboard().Logs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch logs: %w", err)
			}
			if tail > 0 && len(logs) > tail {
				logs = logs[len(logs)-tail:]
			}

			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), map[string][]string{"logs": logs})
			}
			for _, line := range logs {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "only show the last N lines")

	return cmd
}

func newDashboardTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Trigger a manual build",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := dashboard.NewController(apiClient.Dashboard(), nil, appLogger)
			ctrl.Refresh(cmd.Context())

			if err := ctrl.TriggerBuild(cmd.Context()); err != nil {
				if errors.Is(err, dashboard.ErrLoading) {
					return errDashboardUnavailable
				}
				return err
			}
			logs := ctrl.View().Logs
			ctrl.Wait()

			fmt.Fprintln(cmd.OutOrStdout(), logs[len(logs)-1])
			return nil
		},
	}
}

func newDashboardWatchCmd() *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the dashboard until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctrl := dashboard.NewController(apiClient.Dashboard(), nil, appLogger)
			if err := ctrl.Activate(ctx); err != nil {
				return err
			}
			defer ctrl.Deactivate()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ctrl.Changes():
					renderView(out, ctrl.View(), tail)
				}
			}
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 10, "log lines to show")

	return cmd
}

func renderView(w io.Writer, view dashboard.View, tail int) {
	fmt.Fprintln(w, "MISSION CONTROL")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	if view.Loading {
		fmt.Fprintln(w, "Loading Mission Control...")
		return
	}

	renderSnapshot(w, view.Snapshot)
	fmt.Fprintln(w)

	logs := view.Logs
	if tail > 0 && len(logs) > tail {
		logs = logs[len(logs)-tail:]
	}
	for _, line := range logs {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

func renderSnapshot(w io.Writer, snap *dashboard.Snapshot) {
	table := NewTable(w, "ENVIRONMENT", "STATUS", "VERSION", "UPTIME")
	table.AddRow("Production", formatStatus(snap.Production.Status), snap.Production.Version, snap.Production.Uptime)
	table.AddRow("Staging", formatStatus(snap.Staging.Status), snap.Staging.Version, snap.Staging.Uptime)
	table.Render()
	fmt.Fprintf(w, "\nSuccess Rate: %.1f%%\n", snap.BuildSuccessRate)
}
