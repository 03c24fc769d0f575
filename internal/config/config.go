// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Edgar    EdgarConfig    `yaml:"edgar" mapstructure:"edgar"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig configures the Postgres backend.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// EdgarConfig configures retrieval from the SEC EDGAR archive.
type EdgarConfig struct {
	// UserAgent is the identifying header EDGAR requires on every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// RatePerSecond caps outbound requests. EDGAR allows 10/s but each
	// filing costs two physical requests (landing page + instance doc),
	// so the default stays well under the stated ceiling.
	RatePerSecond int `yaml:"rate_per_second" mapstructure:"rate_per_second"`

	MaxRetries     int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBase      time.Duration `yaml:"retry_base" mapstructure:"retry_base"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	IndexDir       string        `yaml:"index_dir" mapstructure:"index_dir"`
	BatchSize      int           `yaml:"batch_size" mapstructure:"batch_size"`
	DownloadNonXML bool          `yaml:"download_non_xml" mapstructure:"download_non_xml"`
	DataDir        string        `yaml:"data_dir" mapstructure:"data_dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EDGAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("edgar.user_agent", "Sells Advisors blake@sellsadvisors.com")
	v.SetDefault("edgar.rate_per_second", 4)
	v.SetDefault("edgar.max_retries", 3)
	v.SetDefault("edgar.retry_base", 500*time.Millisecond)
	v.SetDefault("edgar.timeout", 30*time.Second)
	v.SetDefault("edgar.index_dir", "./index")
	v.SetDefault("edgar.batch_size", 1000)
	v.SetDefault("edgar.download_non_xml", false)
	v.SetDefault("edgar.data_dir", "./data")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
