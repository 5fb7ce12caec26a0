package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Analytics sinks.
const (
	SinkLog     = "log"
	SinkKafka   = "kafka"
	SinkSpanner = "spanner"
)

var (
	ErrMissingStoreDomain = errors.New("PUBLIC_STORE_DOMAIN is required")
	ErrUnknownSink        = errors.New("unknown ANALYTICS_SINK")
	ErrMissingKafka       = errors.New("KAFKA_BROKERS and KAFKA_TOPIC are required for the kafka sink")
	ErrMissingSpanner     = errors.New("SPANNER_DATABASE is required for the spanner sink")
)

// Config holds application configuration.
type Config struct {
	PublicStoreDomain          string        `mapstructure:"PUBLIC_STORE_DOMAIN"`
	PublicStorefrontAPIToken   string        `mapstructure:"PUBLIC_STOREFRONT_API_TOKEN"`
	PublicStorefrontAPIVersion string        `mapstructure:"PUBLIC_STOREFRONT_API_VERSION"`
	StorefrontCountry          string        `mapstructure:"STOREFRONT_COUNTRY"`
	StorefrontLanguage         string        `mapstructure:"STOREFRONT_LANGUAGE"`
	HTTPPort                   string        `mapstructure:"HTTP_PORT"`
	LogLevel                   string        `mapstructure:"LOG_LEVEL"`
	LogDevelopment             bool          `mapstructure:"LOG_DEVELOPMENT"`
	CartCacheTTL               time.Duration `mapstructure:"CART_CACHE_TTL"`
	LayoutCacheTTL             time.Duration `mapstructure:"LAYOUT_CACHE_TTL"`
	DeferredTimeout            time.Duration `mapstructure:"DEFERRED_TIMEOUT"`
	AnalyticsSink              string        `mapstructure:"ANALYTICS_SINK"`
	KafkaBrokers               []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic                 string        `mapstructure:"KAFKA_TOPIC"`
	SpannerDatabase            string        `mapstructure:"SPANNER_DATABASE"`
	SessionCookieSecure        bool          `mapstructure:"SESSION_COOKIE_SECURE"`
}

var defaults = map[string]any{
	"PUBLIC_STORE_DOMAIN":           "",
	"PUBLIC_STOREFRONT_API_TOKEN":   "",
	"PUBLIC_STOREFRONT_API_VERSION": "2025-01",
	"STOREFRONT_COUNTRY":            "US",
	"STOREFRONT_LANGUAGE":           "EN",
	"HTTP_PORT":                     "8080",
	"LOG_LEVEL":                     "info",
	"LOG_DEVELOPMENT":               false,
	"CART_CACHE_TTL":                "30m",
	"LAYOUT_CACHE_TTL":              "5m",
	"DEFERRED_TIMEOUT":              "2s",
	"ANALYTICS_SINK":                SinkLog,
	"KAFKA_BROKERS":                 []string{},
	"KAFKA_TOPIC":                   "storefront.analytics",
	"SPANNER_DATABASE":              "",
	"SESSION_COOKIE_SECURE":         true,
}

// Load reads configuration from the optional file at path and the
// environment, then validates it for serving. Environment variables win
// over the file.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes configuration without validating it.
func Read(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers)
	return cfg, nil
}

// Validate checks required settings for the selected sink.
func (c *Config) Validate() error {
	if c.PublicStoreDomain == "" {
		return ErrMissingStoreDomain
	}
	switch c.AnalyticsSink {
	case SinkLog:
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			return ErrMissingKafka
		}
	case SinkSpanner:
		if c.SpannerDatabase == "" {
			return ErrMissingSpanner
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.AnalyticsSink)
	}
	return nil
}

// ValidateOutbox checks the settings of the outbox maintenance commands.
// The relay also needs a broker to publish to.
func (c *Config) ValidateOutbox(relay bool) error {
	if c.SpannerDatabase == "" {
		return ErrMissingSpanner
	}
	if relay && (len(c.KafkaBrokers) == 0 || c.KafkaTopic == "") {
		return ErrMissingKafka
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

// splitList accepts both repeated values and a single comma separated value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
