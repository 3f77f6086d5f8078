package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvAPIKey    = "YOUTUBE_API_KEY"
	EnvChannelID = "YOUTUBE_CHANNEL_ID"

	// maxPlaylistPage is the largest maxResults the playlistItems endpoint accepts.
	maxPlaylistPage = 50
)

var ErrMissingValue = errors.New("missing required configuration value")

var ErrInvalidValue = errors.New("invalid configuration value")

type Config struct {
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Feed     FeedConfig     `yaml:"feed"`
	Output   OutputConfig   `yaml:"output"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	LogLevel string         `yaml:"log_level"`
}

type YouTubeConfig struct {
	APIKey    string        `yaml:"api_key"`
	ChannelID string        `yaml:"channel_id"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type FeedConfig struct {
	HistoryLength         int    `yaml:"history_length"`
	ShortThresholdSeconds int    `yaml:"short_threshold_seconds"`
	FetchMultiplier       int    `yaml:"fetch_multiplier"`
	Locale                string `yaml:"locale"`
	WriteEmpty            bool   `yaml:"write_empty"`
}

// FetchLimit is how many playlist items to request so that enough videos
// survive the short-form filter.
func (f FeedConfig) FetchLimit() int {
	limit := (f.HistoryLength + 1) * f.FetchMultiplier
	if limit < 1 {
		return 1
	}
	if limit > maxPlaylistPage {
		return maxPlaylistPage
	}
	return limit
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads the optional YAML file at path, expanding ${VAR} references,
// then applies environment overrides and defaults. An empty path means the
// configuration comes from the environment alone.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv(EnvChannelID); v != "" {
		c.YouTube.ChannelID = v
	}
}

// Validate reports the first missing required value or out-of-range feed
// setting.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("%w: %s", ErrMissingValue, EnvAPIKey)
	}
	if c.YouTube.ChannelID == "" {
		return fmt.Errorf("%w: %s", ErrMissingValue, EnvChannelID)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path", ErrMissingValue)
	}
	if c.Feed.HistoryLength < 0 {
		return fmt.Errorf("%w: feed.history_length must not be negative, got %d", ErrInvalidValue, c.Feed.HistoryLength)
	}
	if c.Feed.ShortThresholdSeconds < 0 {
		return fmt.Errorf("%w: feed.short_threshold_seconds must not be negative, got %d", ErrInvalidValue, c.Feed.ShortThresholdSeconds)
	}
	if c.Feed.FetchMultiplier < 0 {
		return fmt.Errorf("%w: feed.fetch_multiplier must not be negative, got %d", ErrInvalidValue, c.Feed.FetchMultiplier)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.YouTube.Timeout == 0 {
		c.YouTube.Timeout = 30 * time.Second
	}
	if c.Feed.HistoryLength == 0 {
		c.Feed.HistoryLength = 3
	}
	if c.Feed.ShortThresholdSeconds == 0 {
		c.Feed.ShortThresholdSeconds = 60
	}
	if c.Feed.FetchMultiplier == 0 {
		c.Feed.FetchMultiplier = 5
	}
	if c.Feed.Locale == "" {
		c.Feed.Locale = "es_ES"
	}
	if c.Output.Path == "" {
		c.Output.Path = "docs/videos.json"
	}
	if c.Schedule.Timeout == 0 {
		c.Schedule.Timeout = 2 * time.Minute
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "video_feed"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "feed.updated"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "video_feed_updates"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
