// Package config loads service configuration from YAML with environment
// overrides.
package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName          = "script-breakdown"
	defaultServiceVersion       = "1.0.0"
	defaultServicePort          = 8090
	defaultConcurrency          = 4
	defaultAnalysisURL          = "http://analysis-brain:8080"
	defaultAnalysisTimeoutSec   = 20
	defaultAnalysisPollMs       = 250
	defaultDBPath               = "breakdown.db"
	defaultDBMaxConns           = 10
	defaultLogLevel             = "info"
	defaultConfidenceThreshold  = 0.5
	defaultHumanReviewThreshold = 0.7
)

// Config holds all configuration for the breakdown service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"BREAKDOWN_PORT"        yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"             yaml:"debug"`
	Concurrency int    `env:"BREAKDOWN_CONCURRENCY" yaml:"concurrency"`
}

// AnalysisConfig holds the analysis collaborator settings.
type AnalysisConfig struct {
	BaseURL      string        `env:"ANALYSIS_BASE_URL" yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Enabled      bool          `env:"ANALYSIS_ENABLED"  yaml:"enabled"`
}

// DatabaseConfig holds the report history database settings.
type DatabaseConfig struct {
	Path           string        `env:"BREAKDOWN_DB_PATH" yaml:"path"`
	MaxConnections int           `yaml:"max_connections"`
	ConnMaxLife    time.Duration `yaml:"connection_max_lifetime"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// PipelineConfig holds arbitration and confidence thresholds.
type PipelineConfig struct {
	ConfidenceThreshold  float64 `yaml:"confidence_threshold"`
	HumanReviewThreshold float64 `yaml:"human_review_threshold"`
	RulesPath            string  `env:"SUPERVISOR_RULES_PATH" yaml:"rules_path"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setAnalysisDefaults(&cfg.Analysis)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
	setPipelineDefaults(&cfg.Pipeline)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
}

func setAnalysisDefaults(a *AnalysisConfig) {
	if a.BaseURL == "" {
		a.BaseURL = defaultAnalysisURL
	}
	if a.Timeout == 0 {
		a.Timeout = defaultAnalysisTimeoutSec * time.Second
	}
	if a.PollInterval == 0 {
		a.PollInterval = defaultAnalysisPollMs * time.Millisecond
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Path == "" {
		d.Path = defaultDBPath
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.ConnMaxLife == 0 {
		d.ConnMaxLife = time.Hour
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}

func setPipelineDefaults(p *PipelineConfig) {
	if p.ConfidenceThreshold == 0 {
		p.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if p.HumanReviewThreshold == 0 {
		p.HumanReviewThreshold = defaultHumanReviewThreshold
	}
}
