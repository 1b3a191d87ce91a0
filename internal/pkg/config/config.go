package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
)

// Environment variables holding secrets. Secrets are never read from YAML.
const (
	EnvProviderAPIKey = "TIPSBOT_PROVIDER_API_KEY"
	EnvTelegramToken  = "TIPSBOT_TELEGRAM_TOKEN"
	EnvTelegramChatID = "TIPSBOT_TELEGRAM_CHAT_ID"
)

// Known fetch sources and notification sinks.
const (
	SourceAPIFootball = "api-football"
	SourceTheOddsAPI  = "the-odds-api"
	SourceSynthetic   = "synthetic"

	SinkTelegram = "telegram"
	SinkKafka    = "kafka"
	SinkLog      = "log"
)

type Config struct {
	Source     string           `yaml:"source"`
	Sport      string           `yaml:"sport"`
	Timezone   string           `yaml:"timezone"`
	Logging    LoggingConfig    `yaml:"logging"`
	Web        WebConfig        `yaml:"web"`
	OddsDemo   OddsDemoConfig   `yaml:"odds_demo"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Notifier   NotifierConfig   `yaml:"notifier"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Postgres   PostgresConfig   `yaml:"postgres"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // optional JSON log file in addition to stdout
}

type WebConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

type OddsDemoConfig struct {
	Enabled bool `yaml:"enabled"` // serve /odds from the tipsbot process as well
	Port    int  `yaml:"port"`
}

type ProvidersConfig struct {
	APIFootball APIFootballConfig `yaml:"api_football"`
	TheOddsAPI  TheOddsAPIConfig  `yaml:"the_odds_api"`
	APIKey      string            `yaml:"-"`
}

type APIFootballConfig struct {
	BaseURL   string        `yaml:"base_url"`
	MirrorURL string        `yaml:"mirror_url"` // resolved with a headless browser at startup
	Timeout   time.Duration `yaml:"timeout"`
	Leagues   []int         `yaml:"leagues"` // empty = all leagues
}

type TheOddsAPIConfig struct {
	BaseURL   string            `yaml:"base_url"`
	MirrorURL string            `yaml:"mirror_url"`
	Timeout   time.Duration     `yaml:"timeout"`
	Regions   string            `yaml:"regions"`
	SportKeys map[string]string `yaml:"sport_keys"` // sport -> provider key override
}

type NotifierConfig struct {
	Sink         string         `yaml:"sink"`
	SendInterval time.Duration  `yaml:"send_interval"` // min gap between Telegram chunks
	Telegram     TelegramConfig `yaml:"-"`
	Kafka        KafkaConfig    `yaml:"kafka"`
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type ConfidenceConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // empty disables the dispatch journal
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults, loads secrets from the environment
// (.env included) and validates the result.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	if err := config.loadSecrets(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Source == "" {
		c.Source = SourceSynthetic
	}
	if c.Sport == "" {
		c.Sport = string(enums.Football)
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.Web.ReadHeaderTimeout <= 0 {
		c.Web.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Web.RequestTimeout <= 0 {
		c.Web.RequestTimeout = 30 * time.Second
	}
	if c.OddsDemo.Port == 0 {
		c.OddsDemo.Port = 8081
	}
	if c.Providers.APIFootball.BaseURL == "" {
		c.Providers.APIFootball.BaseURL = "https://v3.football.api-sports.io"
	}
	if c.Providers.APIFootball.Timeout <= 0 {
		c.Providers.APIFootball.Timeout = 15 * time.Second
	}
	if c.Providers.TheOddsAPI.BaseURL == "" {
		c.Providers.TheOddsAPI.BaseURL = "https://api.the-odds-api.com"
	}
	if c.Providers.TheOddsAPI.Timeout <= 0 {
		c.Providers.TheOddsAPI.Timeout = 15 * time.Second
	}
	if c.Providers.TheOddsAPI.Regions == "" {
		c.Providers.TheOddsAPI.Regions = "eu"
	}
	if c.Notifier.Sink == "" {
		c.Notifier.Sink = SinkLog
	}
	if c.Notifier.SendInterval <= 0 {
		c.Notifier.SendInterval = time.Second
	}
	if c.Notifier.Kafka.Topic == "" {
		c.Notifier.Kafka.Topic = "tipsbot.suggestions"
	}
	if c.Confidence.Min == 0 && c.Confidence.Max == 0 {
		c.Confidence.Min = 0.55
		c.Confidence.Max = 0.90
	}
}

func (c *Config) loadSecrets() error {
	c.Providers.APIKey = strings.TrimSpace(os.Getenv(EnvProviderAPIKey))
	c.Notifier.Telegram.Token = strings.TrimSpace(os.Getenv(EnvTelegramToken))

	if raw := strings.TrimSpace(os.Getenv(EnvTelegramChatID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvTelegramChatID, err)
		}
		c.Notifier.Telegram.ChatID = id
	}
	return nil
}

// Validate checks names, bounds and the secrets required by the chosen
// source and sink.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceAPIFootball, SourceTheOddsAPI:
		if c.Providers.APIKey == "" {
			return fmt.Errorf("source %q requires %s", c.Source, EnvProviderAPIKey)
		}
	case SourceSynthetic:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}

	if _, ok := enums.ParseSport(c.Sport); !ok {
		return fmt.Errorf("unknown sport %q", c.Sport)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}

	switch c.Notifier.Sink {
	case SinkTelegram:
		if c.Notifier.Telegram.Token == "" || c.Notifier.Telegram.ChatID == 0 {
			return fmt.Errorf("sink %q requires %s and %s", SinkTelegram, EnvTelegramToken, EnvTelegramChatID)
		}
	case SinkKafka:
		if len(c.Notifier.Kafka.Brokers) == 0 {
			return fmt.Errorf("sink %q requires notifier.kafka.brokers", SinkKafka)
		}
	case SinkLog:
	default:
		return fmt.Errorf("unknown sink %q", c.Notifier.Sink)
	}

	// NaN bounds fail every comparison, so check the valid range positively.
	if lo, hi := c.Confidence.Min, c.Confidence.Max; !(lo >= 0 && hi <= 1 && lo <= hi) {
		return fmt.Errorf("confidence bounds must satisfy 0 <= min <= max <= 1, got [%g, %g]", c.Confidence.Min, c.Confidence.Max)
	}
	return nil
}

// Location returns the configured display timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WebAddr returns the listen address of the trigger server.
func (c *Config) WebAddr() string {
	return fmt.Sprintf(":%d", c.Web.Port)
}

// OddsDemoAddr returns the listen address of the odds demo service.
func (c *Config) OddsDemoAddr() string {
	return fmt.Sprintf(":%d", c.OddsDemo.Port)
}
