package chansql

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

const (
	defaultFetchLimit     = 100
	defaultMaxRows        = 20
	defaultMaxColumnWidth = 50
	defaultFormat         = "table"
	defaultDriver         = "sqlite3"
	defaultConnection     = "chansql.db"
	devGuildEnv           = "DEV_GUILD_ID"
)

// Config represents the chansql configuration
type Config struct {
	Store      StoreConfig  `yaml:"store"`
	Guild      string       `yaml:"guild"`
	User       string       `yaml:"user"`
	FetchLimit int          `yaml:"fetch_limit"`
	Output     OutputConfig `yaml:"output"`
}

// StoreConfig selects the message store backend
type StoreConfig struct {
	// Driver is memory, sqlite3, pgx or mysql.
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
}

// OutputConfig represents result rendering settings
type OutputConfig struct {
	Format         string `yaml:"format"`
	MaxRows        int    `yaml:"max_rows"`
	MaxColumnWidth int    `yaml:"max_column_width"`
}

// IsMemory reports whether the in-memory store is configured. It is only
// used when chosen explicitly since it keeps nothing between runs.
func (s StoreConfig) IsMemory() bool {
	return s.Driver == "memory"
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)
		applyDefaults(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&config)
	config.Store.Driver = normalizeDriverName(config.Store.Driver)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// normalizeDriverName maps driver aliases to the database/sql driver names.
func normalizeDriverName(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pgx":
		return "pgx"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	validDrivers := map[string]bool{
		"memory":  true,
		"sqlite3": true,
		"pgx":     true,
		"mysql":   true,
	}
	if config.Store.Driver != "" && !validDrivers[config.Store.Driver] {
		return fmt.Errorf("%w: invalid store.driver '%s': must be one of memory, sqlite3, pgx, mysql", ErrConfigValidation, config.Store.Driver)
	}

	if (config.Store.Driver == "pgx" || config.Store.Driver == "mysql") && config.Store.Connection == "" {
		return fmt.Errorf("%w: store.connection is required for driver '%s'", ErrConfigValidation, config.Store.Driver)
	}

	if config.FetchLimit < 0 {
		return fmt.Errorf("%w: fetch_limit must be non-negative, got %d", ErrConfigValidation, config.FetchLimit)
	}

	if config.Output.MaxRows < 0 {
		return fmt.Errorf("%w: output.max_rows must be non-negative, got %d", ErrConfigValidation, config.Output.MaxRows)
	}

	if config.Output.MaxColumnWidth != 0 && config.Output.MaxColumnWidth < 4 {
		return fmt.Errorf("%w: output.max_column_width must be at least 4, got %d", ErrConfigValidation, config.Output.MaxColumnWidth)
	}

	if config.Output.Format != "" {
		validFormats := map[string]bool{
			"table":    true,
			"json":     true,
			"csv":      true,
			"yaml":     true,
			"markdown": true,
			"xml":      true,
		}
		if !validFormats[config.Output.Format] {
			return fmt.Errorf("%w: output.format '%s' is invalid: must be one of table, json, csv, yaml, markdown, xml", ErrConfigValidation, config.Output.Format)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:     defaultDriver,
			Connection: defaultConnection,
		},
		FetchLimit: defaultFetchLimit,
		Output: OutputConfig{
			Format:         defaultFormat,
			MaxRows:        defaultMaxRows,
			MaxColumnWidth: defaultMaxColumnWidth,
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Store.Driver == "" {
		config.Store.Driver = defaultDriver
	}

	switch {
	case config.Store.IsMemory():
		config.Store.Connection = ""
	case config.Store.Driver == defaultDriver && config.Store.Connection == "":
		config.Store.Connection = defaultConnection
	}

	if config.Guild == "" {
		config.Guild = os.Getenv(devGuildEnv)
	}

	if config.User == "" {
		config.User = os.Getenv("USER")
	}

	if config.FetchLimit == 0 {
		config.FetchLimit = defaultFetchLimit
	}

	if config.Output.Format == "" {
		config.Output.Format = defaultFormat
	}

	if config.Output.MaxRows == 0 {
		config.Output.MaxRows = defaultMaxRows
	}

	if config.Output.MaxColumnWidth == 0 {
		config.Output.MaxColumnWidth = defaultMaxColumnWidth
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

func expandConfigEnvVars(config *Config) {
	config.Store.Driver = expandEnvVars(config.Store.Driver)
	config.Store.Connection = expandEnvVars(config.Store.Connection)
	config.Guild = expandEnvVars(config.Guild)
	config.User = expandEnvVars(config.User)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
