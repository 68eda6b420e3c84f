package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/safetylens-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SafetyLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		fmt.Printf("default_format: %s\n", c.DefaultFormat)
		if c.OutputDir != "" {
			fmt.Printf("output_dir: %s\n", c.OutputDir)
		}
		fmt.Printf("timezone: %s\n", c.Timezone)
		if c.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", c.Delimiter)
		} else {
			fmt.Println("delimiter: auto")
		}
		fmt.Printf("top_n: %d\n", c.TopN)
		fmt.Printf("camera_bars: %d\n", c.CameraBars)
		fmt.Printf("report_sections: %d\n", c.ReportSections)
		fmt.Printf("week_min_count: %d\n", c.WeekMinCount)
		fmt.Printf("week_min_percent: %.1f\n", c.WeekMinPercent)
		fmt.Printf("log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "Set a config value and save to disk. Keys: " + strings.Join(cfgpkg.Keys, ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := settings()
		switch key {
		case "default_format":
			switch strings.ToLower(val) {
			case "markdown", "md":
				c.DefaultFormat = "markdown"
			case "json", "yaml":
				c.DefaultFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid default_format: %s (use markdown, json or yaml)", val)
			}
		case "output_dir":
			c.OutputDir = val
		case "timezone":
			prev := c.Timezone
			c.Timezone = val
			if _, err := c.Location(); err != nil {
				c.Timezone = prev
				return err
			}
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			c.Delimiter = val
		case "top_n", "camera_bars", "report_sections", "week_min_count":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "top_n":
				c.TopN = i
			case "camera_bars":
				c.CameraBars = i
			case "report_sections":
				c.ReportSections = i
			default:
				c.WeekMinCount = i
			}
		case "week_min_percent":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for week_min_percent: %v", val)
			}
			c.WeekMinPercent = f
		case "log_format":
			switch val {
			case "text", "json":
				c.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
