package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/safetylens-cli/internal/output"
	"github.com/KaramelBytes/safetylens-cli/internal/report"
	"github.com/KaramelBytes/safetylens-cli/internal/session"
)

var (
	repFlags  viewFlags
	repNow    string
	repCSVDir string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Generate the weekly safety report for a detections export",
	Long: `Generate the weekly safety report. The report covers the selected
incidents (--select, --select-all-visible) or, without a selection, every row
of the file including rows without a usable timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		now, err := parseNow(repNow)
		if err != nil {
			return err
		}
		s, err := openSession(path, repFlags.sheet)
		if isEmpty(err, path) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := repFlags.apply(s); err != nil {
			return err
		}
		r := buildReport(s.Snapshot(), reportOptions(now))
		if repCSVDir != "" {
			paths, err := output.WriteSeriesCSV(repCSVDir, &r)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d chart series to %s\n", len(paths), repCSVDir)
		}
		return emit(repFlags.format, repFlags.output, &r, "report")
	},
}

func buildReport(snap session.Snapshot, opts report.Options) report.Report {
	r := report.BuildReport(snap.ReportRows, opts)
	r.Name = snap.Name
	r.Scope = reportScope(snap)
	return r
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repFlags.register(reportCmd)
	reportCmd.Flags().StringVar(&repNow, "now", "", "anchor for week-over-week windows: RFC3339 or YYYY-MM-DD (default: current time)")
	reportCmd.Flags().StringVar(&repCSVDir, "csv-dir", "", "also write each chart series as CSV into this directory")
}
