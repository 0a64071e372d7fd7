package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// DefaultUserAgent is the default User-Agent string sent with all outbound HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// TMDBConfig holds the settings of the TMDB metadata API.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Language     string `mapstructure:"language"` // BCP 47 tag, e.g. "it-IT"
}

// ProviderConfig holds the settings of the video hosting site.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// MediaFlowConfig holds the settings of the optional MediaFlow streaming proxy.
type MediaFlowConfig struct {
	URL         string `mapstructure:"url"`
	APIPassword string `mapstructure:"api_password"`
}

// Enabled reports whether streams should be routed through the proxy.
func (m MediaFlowConfig) Enabled() bool {
	return m.URL != "" && m.APIPassword != ""
}

// ServerConfig holds the listen address of the addon HTTP server.
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	Address string `mapstructure:"address"`
}

// MetricsConfig controls the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// SentryConfig controls error reporting. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// CatalogConfig holds the caching hints returned with catalog responses, in seconds.
type CatalogConfig struct {
	CacheMaxAge     int `mapstructure:"cache_max_age"`
	StaleRevalidate int `mapstructure:"stale_revalidate"`
	StaleError      int `mapstructure:"stale_error"`
}

type Config struct {
	TMDB          TMDBConfig      `mapstructure:"tmdb"`
	Provider      ProviderConfig  `mapstructure:"provider"`
	MediaFlow     MediaFlowConfig `mapstructure:"mediaflow"`
	ClientTimeout string          `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent     string          `mapstructure:"user_agent"`
	Server        ServerConfig    `mapstructure:"server"`
	LogLevel      string          `mapstructure:"log_level"`
	Metrics       MetricsConfig   `mapstructure:"metrics"`
	Sentry        SentryConfig    `mapstructure:"sentry"`
	Catalog       CatalogConfig   `mapstructure:"catalog"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
}

// LoadConfig reads config.yaml (from . or ./config) and the environment.
// Environment variables use the APP_ prefix (APP_TMDB_API_KEY, APP_SERVER_PORT, ...);
// the variable names used by earlier deployments of the addon are accepted as well.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("tmdb.api_key", "APP_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("mediaflow.url", "APP_MEDIAFLOW_URL", "MEDIAFLOW_PROXY_URL")
	_ = v.BindEnv("mediaflow.api_password", "APP_MEDIAFLOW_API_PASSWORD", "API_PASSWORD")
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	// Invalid tags are left as-is for Validate to report.
	if tag, err := language.Parse(config.TMDB.Language); err == nil {
		config.TMDB.Language = tag.String()
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("tmdb.language", "it-IT")
	v.SetDefault("provider.base_url", "https://vixsrc.to")
	v.SetDefault("mediaflow.url", "")
	v.SetDefault("mediaflow.api_password", "")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("server.port", 5555)
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
	v.SetDefault("catalog.cache_max_age", 1300)
	v.SetDefault("catalog.stale_revalidate", 120)
	v.SetDefault("catalog.stale_error", 86400)
}

// Validate checks that every field the addon cannot run without is present and
// well formed. All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	if c.TMDB.APIKey == "" {
		errs = append(errs, errors.New("tmdb.api_key is required"))
	}
	if err := validateBaseURL("tmdb.base_url", c.TMDB.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateBaseURL("tmdb.image_base_url", c.TMDB.ImageBaseURL); err != nil {
		errs = append(errs, err)
	}
	if _, err := language.Parse(c.TMDB.Language); err != nil {
		errs = append(errs, fmt.Errorf("tmdb.language %q is not a valid language tag: %w", c.TMDB.Language, err))
	}
	if err := validateBaseURL("provider.base_url", c.Provider.BaseURL); err != nil {
		errs = append(errs, err)
	}

	switch {
	case c.MediaFlow.URL != "" && c.MediaFlow.APIPassword == "":
		errs = append(errs, errors.New("mediaflow.api_password is required when mediaflow.url is set"))
	case c.MediaFlow.URL == "" && c.MediaFlow.APIPassword != "":
		errs = append(errs, errors.New("mediaflow.url is required when mediaflow.api_password is set"))
	case c.MediaFlow.URL != "":
		if err := validateBaseURL("mediaflow.url", c.MediaFlow.URL); err != nil {
			errs = append(errs, err)
		}
	}

	if c.ClientTimeout != "" {
		if d, err := time.ParseDuration(c.ClientTimeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("client_timeout %q is not a positive duration", c.ClientTimeout))
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}

func validateBaseURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
