// This file defines the configuration structure for the application.
package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	TMDB       TMDBConfig       `mapstructure:"tmdb"`
	JustWatch  JustWatchConfig  `mapstructure:"justwatch"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Server     ServerConfig     `mapstructure:"server"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // "json" or "console"
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

type TMDBConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	ImageBaseURL      string        `mapstructure:"image_base_url"`
	Language          string        `mapstructure:"language"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type JustWatchConfig struct {
	URL      string        `mapstructure:"url"`
	Country  string        `mapstructure:"country"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LLMConfig points at any OpenAI-compatible chat completion endpoint.
type LLMConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	MaxItems int           `mapstructure:"max_items"`
}

type ScheduleConfig struct {
	DefaultRuntimeMinutes int    `mapstructure:"default_runtime_minutes"`
	DayStart              string `mapstructure:"day_start"` // "HH:MM"
}

type EnrichmentConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type ServerConfig struct {
	RateLimit      int           `mapstructure:"rate_limit"` // requests per minute per IP
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type JobsConfig struct {
	SessionCleanupInterval time.Duration `mapstructure:"session_cleanup_interval"`
	CacheSweepInterval     time.Duration `mapstructure:"cache_sweep_interval"`
}

func setDefaults() {
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./showtime.db")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.max_size_mb", 50)

	viper.SetDefault("tmdb.api_key", "")
	viper.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	viper.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p/w342")
	viper.SetDefault("tmdb.language", "en-US")
	viper.SetDefault("tmdb.requests_per_second", 20)
	viper.SetDefault("tmdb.timeout", "10s")

	viper.SetDefault("justwatch.url", "https://apis.justwatch.com/graphql")
	viper.SetDefault("justwatch.country", "US")
	viper.SetDefault("justwatch.language", "en")
	viper.SetDefault("justwatch.timeout", "10s")

	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.max_tokens", 300)
	viper.SetDefault("llm.timeout", "20s")

	viper.SetDefault("cache.ttl", "5m")
	viper.SetDefault("cache.max_items", 1000)

	viper.SetDefault("schedule.default_runtime_minutes", 30)
	viper.SetDefault("schedule.day_start", "19:00")

	viper.SetDefault("enrichment.concurrency", 4)

	viper.SetDefault("server.rate_limit", 300)
	viper.SetDefault("server.allowed_origins", []string{})
	viper.SetDefault("server.request_timeout", "30s")

	viper.SetDefault("jobs.session_cleanup_interval", "1h")
	viper.SetDefault("jobs.cache_sweep_interval", "5m")
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	// SHOWTIME_DATABASE_PATH overrides `database.path`.
	viper.SetEnvPrefix("SHOWTIME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Watch re-reads config.yml whenever it changes on disk and hands the new
// values to onChange. It does nothing when no config file was loaded.
func Watch(onChange func(*Config)) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		var config Config
		if err := viper.Unmarshal(&config); err != nil {
			log.Error().Err(err).Str("file", e.Name).Msg("Ignoring invalid config change")
			return
		}
		log.Info().Str("file", e.Name).Msg("Config file changed")
		onChange(&config)
	})
	viper.WatchConfig()
}
