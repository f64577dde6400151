package config

import (
	"errors"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// EnvPrefix namespaces every environment override (CHURNFORM_PREDICT_ENDPOINT).
const EnvPrefix = "CHURNFORM"

// Config holds the full application configuration.
type Config struct {
	Predict PredictConfig `yaml:"predict" mapstructure:"predict"`
	Form    FormConfig    `yaml:"form" mapstructure:"form"`
	Theme   ThemeConfig   `yaml:"theme" mapstructure:"theme"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PredictConfig configures the classifier client.
type PredictConfig struct {
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// Timeout returns the request timeout as a duration.
func (p PredictConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// FormConfig selects the form layout.
type FormConfig struct {
	Preset string `yaml:"preset" mapstructure:"preset"`
	Schema string `yaml:"schema" mapstructure:"schema"`
	Locale string `yaml:"locale" mapstructure:"locale"`
}

// ThemeConfig selects the visual theme.
type ThemeConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Variant string `yaml:"variant" mapstructure:"variant"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	SessionTTLMins      int      `yaml:"session_ttl_mins" mapstructure:"session_ttl_mins"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	Metrics             bool     `yaml:"metrics" mapstructure:"metrics"`
}

// SessionTTL returns the idle session lifetime.
func (s ServerConfig) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMins) * time.Minute
}

// ShutdownTimeout returns the graceful shutdown budget.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional .env file, a config file and
// the environment. configFile may be empty, in which case config.yaml is
// looked up in the working directory.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("predict.endpoint", "http://localhost:5001/api/predict")
	v.SetDefault("predict.timeout_secs", 30)
	v.SetDefault("predict.rate_limit", 0)
	v.SetDefault("form.preset", "full")
	v.SetDefault("form.schema", "")
	v.SetDefault("form.locale", "en")
	v.SetDefault("theme.name", "churnform")
	v.SetDefault("theme.variant", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_ttl_mins", 30)
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.metrics", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. mode is the command
// name ("serve", "tui", "predict").
func (c *Config) Validate(mode string) error {
	var problems []string

	endpoint, err := url.Parse(c.Predict.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		problems = append(problems, "predict.endpoint must be an absolute URL")
	}
	if c.Predict.TimeoutSecs <= 0 {
		problems = append(problems, "predict.timeout_secs must be positive")
	}
	if c.Predict.RateLimit < 0 {
		problems = append(problems, "predict.rate_limit must not be negative")
	}
	if strings.TrimSpace(c.Form.Preset) == "" {
		problems = append(problems, "form.preset is required")
	}
	if _, err := language.Parse(c.Form.Locale); err != nil {
		problems = append(problems, "form.locale must be a BCP 47 tag")
	}

	if mode == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.SessionTTLMins <= 0 {
			problems = append(problems, "server.session_ttl_mins must be positive")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid %s configuration: %s", mode, strings.Join(problems, "; "))
	}
	return nil
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
