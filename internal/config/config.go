package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/safetylens-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Output
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir"`

	// Parsing
	Timezone  string `mapstructure:"timezone" yaml:"timezone"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Report layout
	TopN           int `mapstructure:"top_n" yaml:"top_n"`
	CameraBars     int `mapstructure:"camera_bars" yaml:"camera_bars"`
	ReportSections int `mapstructure:"report_sections" yaml:"report_sections"`

	// Week-over-week display gate
	WeekMinCount   int     `mapstructure:"week_min_count" yaml:"week_min_count"`
	WeekMinPercent float64 `mapstructure:"week_min_percent" yaml:"week_min_percent"`

	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"default_format", "output_dir", "timezone", "delimiter",
	"top_n", "camera_bars", "report_sections",
	"week_min_count", "week_min_percent", "log_format",
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		DefaultFormat:  "markdown",
		Timezone:       "UTC",
		TopN:           5,
		CameraBars:     12,
		ReportSections: 3,
		WeekMinCount:   10,
		WeekMinPercent: 10,
		LogFormat:      "text",
	}
}

// Dir returns ~/.safetylens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".safetylens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.safetylens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SAFETYLENS")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("default_format", d.DefaultFormat)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("camera_bars", d.CameraBars)
	v.SetDefault("report_sections", d.ReportSections)
	v.SetDefault("week_min_count", d.WeekMinCount)
	v.SetDefault("week_min_percent", d.WeekMinPercent)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail later.
func (c *Global) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	switch c.DefaultFormat {
	case "markdown", "md", "json", "yaml":
	default:
		return fmt.Errorf("invalid default_format %q (want markdown, json or yaml)", c.DefaultFormat)
	}
	return nil
}

// Location resolves the configured timezone. Empty means UTC.
func (c *Global) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DelimiterRune resolves the configured delimiter; 0 means auto-detect.
// Accepts a single character or one of "comma", "semicolon", "tab".
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter maps a delimiter setting to a rune.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", "auto":
		return 0, nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}
