// Package config loads the command-line and environment configuration,
// layered as defaults, then an optional .env file, then TEXTLIFT_*
// environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultOutputDir      = "./extracted"
	DefaultTimeoutSeconds = 300
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// Config holds everything the CLI and the extraction stack need.
type Config struct {
	// Single-file mode
	File   string
	Output string

	// Batch mode
	BatchDir  string
	OutputDir string

	// Shared
	Password       string
	Check          bool
	CheckProtected bool
	Workers        int
	TimeoutSeconds int
	LogLevel       string
	LogFormat      string
	OCRLanguages   []string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir,
		Workers:        runtime.NumCPU(),
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		OCRLanguages:   []string{"eng"},
	}
}

// LoadFromFlags parses command line flags, environment variables and an
// optional .env file and returns the resulting configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env file is the normal case.
	_ = godotenv.Load()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.File = pflag.Arg(0)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("TEXTLIFT")
	viper.AutomaticEnv()

	viper.SetDefault("output-dir", cfg.OutputDir)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("timeout", cfg.TimeoutSeconds)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
	viper.SetDefault("ocr-languages", cfg.OCRLanguages)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.StringP("output", "o", "", "Output file path for single-file extraction")
	pflag.StringP("password", "p", "", "Password for protected documents")
	pflag.String("batch", "", "Process all supported files in the given directory")
	pflag.String("output-dir", cfg.OutputDir, "Output directory for batch processing")
	pflag.Bool("check", false, "Print the capability report and exit")
	pflag.Bool("check-protected", false, "Report whether the document is password protected")
	pflag.Int("workers", cfg.Workers, "Worker pool size for batch processing")
	pflag.Int("timeout", cfg.TimeoutSeconds, "Per-file timeout in seconds (0 disables)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (console, json)")
	pflag.StringSlice("ocr-languages", cfg.OCRLanguages, "Tesseract recognition languages")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"output", "password", "batch", "output-dir", "check", "check-protected",
		"workers", "timeout", "loglevel", "logformat", "ocr-languages",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textlift - universal document text extraction\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options] <file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --batch <dir> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s document.pdf                        # extract and preview\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s scanned.pdf -o output.txt           # save to file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s locked.pdf -p secret -o out.txt     # protected PDF\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --batch ./docs --output-dir ./out   # batch processing\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --check                             # capability report\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s document.pdf --check-protected      # protection check\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  TEXTLIFT_WORKERS        Worker pool size\n")
		fmt.Fprintf(os.Stderr, "  TEXTLIFT_TIMEOUT        Per-file timeout in seconds\n")
		fmt.Fprintf(os.Stderr, "  TEXTLIFT_LOGLEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  TEXTLIFT_OCR_LANGUAGES  Tesseract languages\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Output = viper.GetString("output")
	cfg.Password = viper.GetString("password")
	cfg.BatchDir = viper.GetString("batch")
	cfg.OutputDir = viper.GetString("output-dir")
	cfg.Check = viper.GetBool("check")
	cfg.CheckProtected = viper.GetBool("check-protected")
	cfg.Workers = viper.GetInt("workers")
	cfg.TimeoutSeconds = viper.GetInt("timeout")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
	cfg.OCRLanguages = viper.GetStringSlice("ocr-languages")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("timeout cannot be negative")
	}
	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if len(c.OCRLanguages) == 0 {
		return errors.New("at least one OCR language is required")
	}

	validLogLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: trace, debug, info, warn, error)", c.LogLevel)
	}
	return nil
}
