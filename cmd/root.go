package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/safetylens-cli/internal/config"
	"github.com/KaramelBytes/safetylens-cli/internal/logging"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagLogFormat string
	flagTimezone  string
	flagDelimiter string

	// Loaded configuration
	cfg *cfgpkg.Global
	log = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "safetylens",
	Short: "SafetyLens CLI: turn safety-camera detection exports into dashboards and weekly reports",
	Long: `SafetyLens reads CSV, TSV and XLSX exports of safety-camera detections,
normalizes them into incidents, and renders dashboards, incident listings and
weekly safety reports with week-over-week comparisons.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.safetylens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "IANA timezone for naive timestamps and calendar weeks (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter: auto|comma|semicolon|tab|<char> (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if f.Changed("timezone") {
		cfg.Timezone = flagTimezone
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}

	l, err := logging.Init(cfg.LogFormat, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using text logs\n", err)
		l, _ = logging.Init("text", debug)
	}
	log = l
}

// settings returns the loaded config, or defaults when loading was skipped.
func settings() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Default()
	}
	return cfg
}
