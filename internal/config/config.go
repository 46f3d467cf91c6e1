package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Schema   SchemaConfig   `yaml:"schema" envconfig:"SCHEMA"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// AnalysisConfig contains the tunables of the analysis pipeline
type AnalysisConfig struct {
	DefaultContamination float64 `yaml:"default_contamination" envconfig:"DEFAULT_CONTAMINATION"`
	MaxUploadBytes       int64   `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	CacheSize            int     `yaml:"cache_size" envconfig:"CACHE_SIZE"`
}

// SchemaConfig names the columns the cleaner expects in uploaded files.
// It is passed into the pipeline at construction time so that multiple
// pipelines with different schemas can coexist in one process.
type SchemaConfig struct {
	InvoiceDateColumn string `yaml:"invoice_date_column" envconfig:"INVOICE_DATE_COLUMN"`
	QuantityColumn    string `yaml:"quantity_column" envconfig:"QUANTITY_COLUMN"`
	UnitPriceColumn   string `yaml:"unit_price_column" envconfig:"UNIT_PRICE_COLUMN"`
	CountryColumn     string `yaml:"country_column" envconfig:"COUNTRY_COLUMN"`
	CustomerIDColumn  string `yaml:"customer_id_column" envconfig:"CUSTOMER_ID_COLUMN"`
	DescriptionColumn string `yaml:"description_column" envconfig:"DESCRIPTION_COLUMN"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    10,
			RateLimitBurst:  20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Analysis: AnalysisConfig{
			DefaultContamination: 0.01,
			MaxUploadBytes:       50 << 20,
			CacheSize:            32,
		},
		Schema: SchemaConfig{
			InvoiceDateColumn: "InvoiceDate",
			QuantityColumn:    "Quantity",
			UnitPriceColumn:   "UnitPrice",
			CountryColumn:     "Country",
			CustomerIDColumn:  "CustomerID",
			DescriptionColumn: "Description",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence (environment wins).
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("RVP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("RVP_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Analysis.DefaultContamination <= 0 || c.Analysis.DefaultContamination >= 0.5 {
		return fmt.Errorf("default contamination must be in (0, 0.5), got %g", c.Analysis.DefaultContamination)
	}
	if c.Analysis.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Analysis.MaxUploadBytes)
	}
	if c.Analysis.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.Analysis.CacheSize)
	}

	return c.Schema.Validate()
}

// Validate checks that all required column names are set
func (s *SchemaConfig) Validate() error {
	required := map[string]string{
		"invoice_date_column": s.InvoiceDateColumn,
		"quantity_column":     s.QuantityColumn,
		"unit_price_column":   s.UnitPriceColumn,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("schema %s must not be empty", name)
		}
	}
	return nil
}
