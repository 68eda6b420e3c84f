package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/safetylens-cli/internal/output"
	"github.com/KaramelBytes/safetylens-cli/internal/session"
	"github.com/KaramelBytes/safetylens-cli/internal/utils"
)

var (
	rbOutDir string
	rbFormat string
	rbNow    string
	rbCSV    bool
	rbSheet  sheetFlags
	rbQuiet  bool
)

var reportBatchCmd = &cobra.Command{
	Use:   "report-batch <files...>",
	Short: "Generate one weekly report per CSV/TSV/XLSX file with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		now, err := parseNow(rbNow)
		if err != nil {
			return err
		}
		format := rbFormat
		if format == "" {
			format = settings().DefaultFormat
		}
		if _, err := output.NormalizeFormat(format); err != nil {
			return err
		}
		outDir := rbOutDir
		if outDir == "" {
			outDir = settings().OutputDir
		}
		if outDir == "" {
			outDir = "."
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return fmt.Errorf("mkdir out dir: %w", err)
		}

		opts := reportOptions(now)
		total := len(files)
		var failed int
		for i, path := range files {
			if !rbQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			s, err := openSession(path, rbSheet)
			if errors.Is(err, session.ErrEmptyDataset) {
				fmt.Printf("⚠ Parsed 0 rows from %s, skipping\n", path)
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), err)
				failed++
				continue
			}
			r := buildReport(s.Snapshot(), opts)

			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outFile, renamed := utils.UniquePath(outDir, base, ".report"+output.Extension(format))
			if renamed && !rbQuiet {
				fmt.Printf("⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			err = output.Encode(f, format, &r)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if rbCSV {
				seriesDir := strings.TrimSuffix(outFile, filepath.Ext(outFile)) + "_series"
				if _, err := output.WriteSeriesCSV(seriesDir, &r); err != nil {
					return err
				}
			}
			if !rbQuiet {
				fmt.Printf("✓ Wrote %s\n", outFile)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns
// the unique matches sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(reportBatchCmd)
	reportBatchCmd.Flags().StringVar(&rbOutDir, "out-dir", "", "directory for the reports (default: output_dir from config, else .)")
	reportBatchCmd.Flags().StringVar(&rbFormat, "format", "", "report format: markdown|json|yaml (default from config)")
	reportBatchCmd.Flags().StringVar(&rbNow, "now", "", "anchor for week-over-week windows: RFC3339 or YYYY-MM-DD")
	reportBatchCmd.Flags().BoolVar(&rbCSV, "csv", false, "also write chart series CSVs next to each report")
	rbSheet.register(reportBatchCmd)
	reportBatchCmd.Flags().BoolVar(&rbQuiet, "quiet", false, "suppress progress and non-essential output")
}
