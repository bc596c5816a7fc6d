package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Backend  BackendConfig  `yaml:"backend"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Session  SessionConfig  `yaml:"session"`
	Payment  PaymentConfig  `yaml:"payment"`
	Bookings BookingsConfig `yaml:"bookings"`
	Flights  FlightsConfig  `yaml:"flights"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	// PublicURL is the origin the browser sees; checkout return URLs are built from it.
	PublicURL  string `yaml:"public_url"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (b BackendConfig) APIURL() string {
	return b.BaseURL + "/api"
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	FlowEventsTopic    string   `yaml:"flow_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
	PublishQueueSize   int      `yaml:"publish_queue_size"`
	PublishTimeoutMs   int      `yaml:"publish_timeout_ms"`
}

type SessionConfig struct {
	CookieName      string `yaml:"cookie_name"`
	CredentialKey   string `yaml:"credential_key"`
	IdleTTLMinutes  int    `yaml:"idle_ttl_minutes"`
	SweepMinutes    int    `yaml:"sweep_minutes"`
	SecureCookie    bool   `yaml:"secure_cookie"`
	CookieMaxAgeDay int    `yaml:"cookie_max_age_days"`
}

type PaymentConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	IntervalMillis   int `yaml:"interval_ms"`
	ConfirmedDelayMs int `yaml:"confirmed_delay_ms"`
	FailedDelayMs    int `yaml:"failed_delay_ms"`
}

type BookingsConfig struct {
	RefreshSeconds int `yaml:"refresh_seconds"`
}

type FlightsConfig struct {
	LocationsCacheTTLSeconds int `yaml:"locations_cache_ttl_seconds"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url is required")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":3000"
	}
	if c.HTTP.PublicURL == "" {
		c.HTTP.PublicURL = "http://localhost:3000"
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 15
	}
	if c.Kafka.PublishQueueSize == 0 {
		c.Kafka.PublishQueueSize = 256
	}
	if c.Kafka.PublishTimeoutMs == 0 {
		c.Kafka.PublishTimeoutMs = 5000
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "sid"
	}
	if c.Session.CredentialKey == "" {
		c.Session.CredentialKey = "token"
	}
	if c.Session.IdleTTLMinutes == 0 {
		c.Session.IdleTTLMinutes = 60
	}
	if c.Session.SweepMinutes == 0 {
		c.Session.SweepMinutes = 5
	}
	if c.Session.CookieMaxAgeDay == 0 {
		c.Session.CookieMaxAgeDay = 30
	}
	if c.Payment.MaxAttempts == 0 {
		c.Payment.MaxAttempts = 10
	}
	if c.Payment.IntervalMillis == 0 {
		c.Payment.IntervalMillis = 2000
	}
	if c.Payment.ConfirmedDelayMs == 0 {
		c.Payment.ConfirmedDelayMs = 1500
	}
	if c.Payment.FailedDelayMs == 0 {
		c.Payment.FailedDelayMs = 2000
	}
	if c.Bookings.RefreshSeconds == 0 {
		c.Bookings.RefreshSeconds = 10
	}
	if c.Flights.LocationsCacheTTLSeconds == 0 {
		c.Flights.LocationsCacheTTLSeconds = 300
	}
	if c.Log.Path == "" {
		c.Log.Path = "logs/"
	}
}
