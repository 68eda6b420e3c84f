package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/safetylens-cli/internal/report"
)

var dashFlags viewFlags

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <file>",
	Short: "Summarize a detections export: KPIs, per-day, per-camera and per-type charts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		s, err := openSession(path, dashFlags.sheet)
		if isEmpty(err, path) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := dashFlags.apply(s); err != nil {
			return err
		}
		d := report.BuildDashboard(s.Snapshot(), reportOptions(time.Now()))
		return emit(dashFlags.format, dashFlags.output, &d, "dashboard")
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashFlags.register(dashboardCmd)
}
