// Package config provides configuration management for yt-dw using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort       = 8080
	defaultServerTimeout    = 30 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultPrimaryTimeout   = 20 * time.Second
	defaultSecondaryTimeout = 45 * time.Second
	defaultRetryAttempts    = 2
	defaultCacheTTL         = 10 * time.Minute
	defaultAudioBitrate     = "128k"
	defaultEncoderPreset    = "veryfast"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Cache     CacheConfig     `mapstructure:"cache"`
	FFmpeg    FFmpegConfig    `mapstructure:"ffmpeg"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// ExtractorConfig holds extraction backend configuration.
type ExtractorConfig struct {
	// PrimaryTimeout bounds the primary backend metadata call.
	PrimaryTimeout time.Duration `mapstructure:"primary_timeout"`
	// SecondaryTimeout bounds the yt-dlp fallback invocation. A stuck
	// secondary must never stall the request indefinitely.
	SecondaryTimeout time.Duration `mapstructure:"secondary_timeout"`
	// YtDlpPath is the path to the yt-dlp binary (empty = auto-detect).
	YtDlpPath string `mapstructure:"ytdlp_path"`
	// RetryAttempts is the number of retries for source stream fetches.
	RetryAttempts int `mapstructure:"retry_attempts"`
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	// TTL is the lifetime of cached secondary-backend format lists.
	TTL time.Duration `mapstructure:"ttl"`
}

// FFmpegConfig holds FFmpeg binary and encoding configuration.
type FFmpegConfig struct {
	BinaryPath   string `mapstructure:"binary_path"` // Path to ffmpeg binary (empty = auto-detect)
	Preset       string `mapstructure:"preset"`      // Encoder preset for downscale transcodes
	AudioBitrate string `mapstructure:"audio_bitrate"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with YTDW_ and use underscores for
// nesting. Example: YTDW_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/yt-dw")
		v.AddConfigPath("$HOME/.yt-dw")
	}

	v.SetEnvPrefix("YTDW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file so defaults are in place.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	v.SetDefault("extractor.primary_timeout", defaultPrimaryTimeout)
	v.SetDefault("extractor.secondary_timeout", defaultSecondaryTimeout)
	v.SetDefault("extractor.ytdlp_path", "")
	v.SetDefault("extractor.retry_attempts", defaultRetryAttempts)

	v.SetDefault("cache.ttl", defaultCacheTTL)

	v.SetDefault("ffmpeg.binary_path", "")
	v.SetDefault("ffmpeg.preset", defaultEncoderPreset)
	v.SetDefault("ffmpeg.audio_bitrate", defaultAudioBitrate)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Extractor.SecondaryTimeout <= 0 {
		return fmt.Errorf("extractor.secondary_timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
