package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration. Values come from an
// optional YAML file overlaid by RAILTREND_* environment variables.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/railtrend.log"`
}

// OutputConfig locates the run artifacts.
type OutputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" default:"output" validate:"required"`
	ChartsDir   string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"charts" validate:"required"`
	SummaryFile string `yaml:"summary_file" envconfig:"SUMMARY_FILE" default:"forecast_summary.csv" validate:"required"`
	// ExcelBOM prepends a UTF-8 BOM to the summary CSV so it opens
	// cleanly in Excel.
	ExcelBOM bool `yaml:"excel_bom" envconfig:"EXCEL_BOM" default:"true"`
}

// ForecastConfig holds the modeling defaults.
type ForecastConfig struct {
	Horizon     int `yaml:"horizon" envconfig:"HORIZON" default:"3" validate:"min=0,max=60"`
	DefaultYear int `yaml:"default_year" envconfig:"DEFAULT_YEAR" validate:"omitempty,min=1900,max=2100"`
}

// ServerConfig configures the optional HTTP report surface.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// Load builds the configuration: YAML file first when present, then
// environment variables on top, then validation.
func Load(configFile string) (*Config, error) {
	var fileCfg Config
	haveFile := false
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
			haveFile = true
		}
	}

	var envCfg Config
	if err := envconfig.Process("RAILTREND", &envCfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	cfg := envCfg
	if haveFile {
		cfg = mergeConfigs(fileCfg, envCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays env values onto the file config. envconfig has
// already applied struct defaults, so a file value wins only where the
// corresponding environment variable is unset.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := envCfg

	overlayString(&merged.Logging.Level, fileCfg.Logging.Level, "RAILTREND_LOGGING_LEVEL")
	overlayString(&merged.Logging.Output, fileCfg.Logging.Output, "RAILTREND_LOGGING_OUTPUT")
	overlayString(&merged.Logging.FilePath, fileCfg.Logging.FilePath, "RAILTREND_LOGGING_FILE_PATH")

	overlayString(&merged.Output.Dir, fileCfg.Output.Dir, "RAILTREND_OUTPUT_DIR")
	overlayString(&merged.Output.ChartsDir, fileCfg.Output.ChartsDir, "RAILTREND_OUTPUT_CHARTS_DIR")
	overlayString(&merged.Output.SummaryFile, fileCfg.Output.SummaryFile, "RAILTREND_OUTPUT_SUMMARY_FILE")

	overlayInt(&merged.Forecast.Horizon, fileCfg.Forecast.Horizon, "RAILTREND_FORECAST_HORIZON")
	overlayInt(&merged.Forecast.DefaultYear, fileCfg.Forecast.DefaultYear, "RAILTREND_FORECAST_DEFAULT_YEAR")

	overlayInt(&merged.Server.Port, fileCfg.Server.Port, "RAILTREND_SERVER_PORT")

	return merged
}

func overlayString(dst *string, fileValue, envVar string) {
	if fileValue != "" && os.Getenv(envVar) == "" {
		*dst = fileValue
	}
}

func overlayInt(dst *int, fileValue int, envVar string) {
	if fileValue != 0 && os.Getenv(envVar) == "" {
		*dst = fileValue
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// SummaryPath is the resolved path of the summary CSV artifact.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.Output.Dir, c.Output.SummaryFile)
}

// ChartsPath is the resolved charts output directory.
func (c *Config) ChartsPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ChartsDir)
}

// EnsureOutputDirs creates the output and charts directories. Called
// once before the render loop so chart writers never race on mkdir.
func (c *Config) EnsureOutputDirs() error {
	for _, dir := range []string{c.Output.Dir, c.ChartsPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return nil
}
