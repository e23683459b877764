package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/crosstab-extractor/internal/pdf"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	envPrefix = "CROSSTAB"
)

// ErrVersionRequested is returned by Load when --version is present.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the crosstab extractor
type Config struct {
	Mode string // "cli" or "stdio"

	// Conversion configuration
	Input  string
	Output string

	// Working directory for MCP requests
	Directory string

	// Layout tuning
	RowTolerance float64 // points
	CellGap      float64 // multiple of the font size

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeCLI,
		Directory:    currentDir,
		RowTolerance: pdf.DefaultRowTolerance,
		CellGap:      pdf.DefaultCellGap,
		Version:      "1.0.0",
		ServerName:   "crosstab-extractor",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// Load parses args (without the program name) together with CROSSTAB_*
// environment variables and returns a validated configuration.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	flags := pflag.NewFlagSet("crosstab-extractor", pflag.ContinueOnError)
	v := viper.New()

	setupViperEnvironment(v, cfg)
	defineFlags(flags, cfg)
	flags.Usage = usage(flags)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if showVersion, _ := flags.GetBool("version"); showVersion {
		return nil, ErrVersionRequested
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	populateConfig(v, cfg)

	if cfg.Directory != "" {
		if expanded, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("row-tolerance", cfg.RowTolerance)
	v.SetDefault("cell-gap", cfg.CellGap)
}

func defineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Run mode: 'cli' converts one file, 'stdio' serves MCP over standard I/O")
	flags.StringP("input", "i", "", "Input PDF file (cli mode)")
	flags.StringP("output", "o", "", "Output text file (default: <input>_for_gpt.txt)")
	flags.String("dir", cfg.Directory, "Working directory for MCP tool requests")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	flags.Float64("row-tolerance", cfg.RowTolerance, "Vertical distance in points within which glyphs share a line")
	flags.Float64("cell-gap", cfg.CellGap, "Horizontal gap, as a multiple of the font size, that separates table cells")
	flags.BoolP("version", "v", false, "Print version information and exit")
}

func usage(flags *pflag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage of crosstab-extractor:\n")
		fmt.Fprintf(os.Stderr, "\nCrosstab Extractor - flattens crosstab survey tables in PDF files into text\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  crosstab-extractor -i report.pdf                  # writes report_for_gpt.txt\n")
		fmt.Fprintf(os.Stderr, "  crosstab-extractor -i report.pdf -o report.txt    # explicit output\n")
		fmt.Fprintf(os.Stderr, "  crosstab-extractor --mode=stdio --dir=/data       # MCP tool server\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_MODE           Run mode\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_INPUT          Input PDF file\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_OUTPUT         Output text file\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_DIR            Working directory\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_LOGLEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_MAXFILESIZE    Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_ROW_TOLERANCE  Line grouping tolerance\n")
		fmt.Fprintf(os.Stderr, "  CROSSTAB_CELL_GAP       Cell gap factor\n")
	}
}

func populateConfig(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Input = v.GetString("input")
	cfg.Output = v.GetString("output")
	cfg.Directory = v.GetString("dir")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.RowTolerance = v.GetFloat64("row-tolerance")
	cfg.CellGap = v.GetFloat64("cell-gap")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI && c.Input == "" {
		return errors.New("input file is required in cli mode")
	}

	if c.Mode == ModeStdio {
		if c.Directory == "" {
			return errors.New("directory cannot be empty")
		}
		info, err := os.Stat(c.Directory)
		if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", c.Directory)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.RowTolerance <= 0 {
		return errors.New("row tolerance must be positive")
	}
	if c.CellGap <= 0 {
		return errors.New("cell gap must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Layout returns the layout tolerances for the PDF page source
func (c *Config) Layout() pdf.LayoutOptions {
	return pdf.LayoutOptions{
		RowTolerance: c.RowTolerance,
		CellGap:      c.CellGap,
	}
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when serving MCP over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsCLIMode returns true when converting a single file
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, Directory: %s, LogLevel: %s, MaxFileSize: %d, "+
		"RowTolerance: %g, CellGap: %g}",
		c.Mode, c.Input, c.Output, c.Directory, c.LogLevel, c.MaxFileSize, c.RowTolerance, c.CellGap)
}
