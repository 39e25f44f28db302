package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for lessonkit
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	Tables    TablesConfig    `mapstructure:"tables"`
	Output    OutputConfig    `mapstructure:"output"`
	Report    ReportConfig    `mapstructure:"report"`
}

// PathsConfig holds the default input and output directories
type PathsConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
}

// DiscoveryConfig selects which files in the input directory are lessons
type DiscoveryConfig struct {
	Include []string `mapstructure:"include"` // doublestar globs matched against the base name
	Domains []string `mapstructure:"domains"` // empty means every domain
}

// NormalizeConfig holds repair pipeline options
type NormalizeConfig struct {
	Variant string `mapstructure:"variant"` // "preserve" or "extended"
}

// TablesConfig points at an optional directory replacing the embedded tables
type TablesConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig holds JSON output options
type OutputConfig struct {
	Indent          string `mapstructure:"indent"`
	TrailingNewline bool   `mapstructure:"trailing_newline"`
}

// ReportConfig holds coverage report thresholds
type ReportConfig struct {
	OKPercent   float64 `mapstructure:"ok_percent"`
	WarnPercent float64 `mapstructure:"warn_percent"`
	ShowLimit   int     `mapstructure:"show_limit"`
}

var defaultConfig = Config{
	Paths: PathsConfig{
		Input:  "lessons",
		Output: "lessons_fixed",
	},
	Discovery: DiscoveryConfig{
		Include: []string{"*LESSON*.json"},
		Domains: []string{},
	},
	Normalize: NormalizeConfig{
		Variant: "preserve",
	},
	Output: OutputConfig{
		Indent:          "  ",
		TrailingNewline: true,
	},
	Report: ReportConfig{
		OKPercent:   85,
		WarnPercent: 48,
		ShowLimit:   5,
	},
}

// Default returns a copy of the built-in defaults
func Default() *Config {
	c := defaultConfig
	c.Discovery.Include = append([]string(nil), defaultConfig.Discovery.Include...)
	c.Discovery.Domains = append([]string(nil), defaultConfig.Discovery.Domains...)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.input", defaultConfig.Paths.Input)
	v.SetDefault("paths.output", defaultConfig.Paths.Output)
	v.SetDefault("discovery.include", defaultConfig.Discovery.Include)
	v.SetDefault("discovery.domains", defaultConfig.Discovery.Domains)
	v.SetDefault("normalize.variant", defaultConfig.Normalize.Variant)
	v.SetDefault("tables.dir", defaultConfig.Tables.Dir)
	v.SetDefault("output.indent", defaultConfig.Output.Indent)
	v.SetDefault("output.trailing_newline", defaultConfig.Output.TrailingNewline)
	v.SetDefault("report.ok_percent", defaultConfig.Report.OKPercent)
	v.SetDefault("report.warn_percent", defaultConfig.Report.WarnPercent)
	v.SetDefault("report.show_limit", defaultConfig.Report.ShowLimit)
}

// New returns a viper instance with defaults, search paths and environment binding applied.
// When configFile is non-empty it is used instead of the search paths.
func New(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lessonkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".") // Current directory
		if home, err := GetLessonkitHome(); err == nil {
			v.AddConfigPath(filepath.Join(home, "config"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("LESSONKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ReadProjectConfig reads defaults, the config file and the environment, then
// merges a hidden project file (.lessonkit.yaml or .lessonkit.yml) from dir when
// one exists. A missing default config file is not an error; an explicit
// configFile must exist. Callers bind command flags before calling Unmarshal.
func ReadProjectConfig(dir, configFile string) (*viper.Viper, error) {
	v := New(configFile)
	if err := readConfig(v, configFile); err != nil {
		return nil, err
	}

	if configFile == "" {
		for _, name := range []string{".lessonkit.yaml", ".lessonkit.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("error reading project config %s: %w", path, err)
			}
			break
		}
	}
	return v, nil
}

func readConfig(v *viper.Viper, configFile string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config: %w", err)
	}
	return nil
}

// Unmarshal decodes v into a Config and validates it
func Unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.Discovery.Domains = ParseDomains(strings.Join(config.Discovery.Domains, ","))
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// BindFlags binds command flags to config keys. Only flags that exist on fs are bound,
// so commands can share one mapping.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, mapping map[string]string) error {
	for key, flagName := range mapping {
		flag := fs.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", flagName, err)
		}
	}
	return nil
}

// Validate checks values that the rest of the tool relies on
func (c *Config) Validate() error {
	switch c.Normalize.Variant {
	case "preserve", "extended":
	default:
		return fmt.Errorf("invalid normalize.variant %q (want preserve or extended)", c.Normalize.Variant)
	}
	if c.Report.WarnPercent > c.Report.OKPercent {
		return fmt.Errorf("report.warn_percent (%.1f) must not exceed report.ok_percent (%.1f)",
			c.Report.WarnPercent, c.Report.OKPercent)
	}
	if c.Report.ShowLimit < 0 {
		return fmt.Errorf("report.show_limit must be >= 0, got %d", c.Report.ShowLimit)
	}
	if len(c.Discovery.Include) == 0 {
		return fmt.Errorf("discovery.include must list at least one pattern")
	}
	for _, d := range c.Discovery.Domains {
		if len(d) != 1 || d[0] < '1' || d[0] > '9' {
			return fmt.Errorf("invalid domain %q in discovery.domains (want a digit such as 3)", d)
		}
	}
	return nil
}

// ParseDomains splits a "3,4,5" or "D3,D4" flag value into bare domain digits.
func ParseDomains(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(strings.TrimPrefix(part, "D"), "d")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetLessonkitHome returns the lessonkit home directory
func GetLessonkitHome() (string, error) {
	// Check environment variable first
	if home := os.Getenv("LESSONKIT_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".lessonkit"), nil
}
