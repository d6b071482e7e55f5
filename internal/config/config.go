// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
	"github.com/verustcode/doctest/pkg/telemetry"
)

// DefaultConfigPath is where the CLI looks for configuration when no path is given
const DefaultConfigPath = "doctest.yaml"

// Default configuration values
const (
	defaultCaptureGlob  = "target/doctest/captures/*.yaml"
	defaultServerHost   = "127.0.0.1"
	defaultServerPort   = 8093
	defaultPDFTimeout   = 120
	defaultPaperWidth   = 8.27
	defaultPaperHeight  = 11.69
	defaultOTLPEndpoint = "localhost:4317"
)

// Config represents the complete application configuration
type Config struct {
	Output    OutputConfig     `yaml:"output"`
	Report    ReportConfig     `yaml:"report"`
	PDF       PDFConfig        `yaml:"pdf"`
	Server    ServerConfig     `yaml:"server"`
	Logging   logger.Config    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// OutputConfig holds where captures are read from and reports written to
type OutputConfig struct {
	// Dir receives the report pages and the index
	Dir string `yaml:"dir"`
	// Captures are glob patterns of capture files rendered when no file is given on the command line
	Captures []string `yaml:"captures"`
}

// ReportConfig holds report defaults
type ReportConfig struct {
	// Introduction is used when a capture has none
	Introduction string `yaml:"introduction"`
}

// PDFConfig holds PDF export settings
type PDFConfig struct {
	Enabled bool `yaml:"enabled"`
	// Timeout in seconds for one export
	Timeout int `yaml:"timeout"`
	// Paper size in inches
	PaperWidth      float64 `yaml:"paper_width"`
	PaperHeight     float64 `yaml:"paper_height"`
	PrintBackground bool    `yaml:"print_background"`
	// ChromePath overrides the browser binary; CHROME_PATH is used when empty
	ChromePath string `yaml:"chrome_path"`
}

// TimeoutDuration returns the export timeout as a duration
func (c *PDFConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:      consts.DefaultOutputDir,
			Captures: []string{defaultCaptureGlob},
		},
		PDF: PDFConfig{
			Enabled:         false,
			Timeout:         defaultPDFTimeout,
			PaperWidth:      defaultPaperWidth,
			PaperHeight:     defaultPaperHeight,
			PrintBackground: true,
		},
		Server: ServerConfig{
			Host:  defaultServerHost,
			Port:  defaultServerPort,
			Debug: false,
		},
		Logging: logger.Config{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 5,
			Compress:   false,
		},
		Telemetry: telemetry.Config{
			Enabled:     false,
			ServiceName: consts.ServiceName,
			OTLP: telemetry.OTLPConfig{
				Enabled:  false,
				Endpoint: defaultOTLPEndpoint,
				Insecure: true,
			},
			Prometheus: telemetry.PrometheusConfig{
				Enabled: false,
			},
		},
	}
}

// Load loads configuration from a YAML file with environment variable expansion.
// A missing file yields the defaults. Environment variables with the DOCTEST_
// prefix override file values:
//   - DOCTEST_OUTPUT_DIR, DOCTEST_INTRODUCTION
//   - DOCTEST_PDF_ENABLED, DOCTEST_PDF_TIMEOUT
//   - DOCTEST_SERVER_HOST, DOCTEST_SERVER_PORT, DOCTEST_SERVER_DEBUG
//   - DOCTEST_LOG_LEVEL, DOCTEST_LOG_FORMAT, DOCTEST_LOG_FILE
//   - DOCTEST_TELEMETRY_ENABLED, DOCTEST_OTLP_ENABLED, DOCTEST_OTLP_ENDPOINT
//   - DOCTEST_PROMETHEUS_ENABLED, DOCTEST_PROMETHEUS_TEXTFILE
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse config", err).WithDetails(path)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, "failed to read config", err).WithDetails(path)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the renderer cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "output.dir must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeConfigInvalid, "server.port must be between 1 and 65535").
			WithDetails(strconv.Itoa(c.Server.Port))
	}
	if c.PDF.Enabled {
		if c.PDF.Timeout <= 0 {
			return errors.New(errors.ErrCodeConfigInvalid, "pdf.timeout must be positive")
		}
		if c.PDF.PaperWidth <= 0 || c.PDF.PaperHeight <= 0 {
			return errors.New(errors.ErrCodeConfigInvalid, "pdf paper size must be positive")
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return errors.New(errors.ErrCodeConfigInvalid, "logging.format must be text or json").
			WithDetails(c.Logging.Format)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// ${VAR_NAME:-default} falls back to default when the variable is unset or empty.
func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	})
}

// applyEnvOverrides applies DOCTEST_* environment variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCTEST_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("DOCTEST_INTRODUCTION"); v != "" {
		cfg.Report.Introduction = v
	}

	if v := os.Getenv("DOCTEST_PDF_ENABLED"); v != "" {
		cfg.PDF.Enabled = parseBool(v)
	}
	if v := os.Getenv("DOCTEST_PDF_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.PDF.Timeout = timeout
		}
	}

	if v := os.Getenv("DOCTEST_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DOCTEST_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DOCTEST_SERVER_DEBUG"); v != "" {
		cfg.Server.Debug = parseBool(v)
	}

	if v := os.Getenv("DOCTEST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCTEST_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DOCTEST_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}

	if v := os.Getenv("DOCTEST_TELEMETRY_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("DOCTEST_OTLP_ENABLED"); v != "" {
		cfg.Telemetry.OTLP.Enabled = parseBool(v)
	}
	if v := os.Getenv("DOCTEST_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLP.Endpoint = v
	}
	if v := os.Getenv("DOCTEST_PROMETHEUS_ENABLED"); v != "" {
		cfg.Telemetry.Prometheus.Enabled = parseBool(v)
	}
	if v := os.Getenv("DOCTEST_PROMETHEUS_TEXTFILE"); v != "" {
		cfg.Telemetry.Prometheus.Textfile = v
	}
}

// parseBool parses a boolean string value
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}
