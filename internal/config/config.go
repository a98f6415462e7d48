// Package config loads the marketctl client and fake backend settings from
// environment variables.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	pkgconfig "github.com/localharvest/marketclient/pkg/config"
	"github.com/localharvest/marketclient/pkg/database"
	"github.com/localharvest/marketclient/pkg/httpclient"
	"github.com/localharvest/marketclient/pkg/tracing"
)

// Wishlist storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Observability holds the settings shared by every binary.
type Observability struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Tracing returns the tracer settings for serviceName.
func (o Observability) Tracing(serviceName, version string) tracing.Config {
	return tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    o.Environment,
		OTLPEndpoint:   o.OTELEndpoint,
		SampleRate:     o.OTELSampleRate,
		Enabled:        o.OTELEnabled,
	}
}

func (o Observability) validate() error {
	if o.OTELSampleRate < 0 || o.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", o.OTELSampleRate)
	}
	return nil
}

// Redis holds the connection used by the redis wishlist storage.
type Redis struct {
	Host        string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port        int           `env:"REDIS_PORT" envDefault:"6379"`
	Password    string        `env:"REDIS_PASSWORD" envDefault:""`
	DB          int           `env:"REDIS_DB" envDefault:"0"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	KeyPrefix   string        `env:"REDIS_KEY_PREFIX" envDefault:""`
	SlowCommand time.Duration `env:"REDIS_SLOW_COMMAND_THRESHOLD" envDefault:"100ms"`
}

// Database converts r to the connection settings of pkg/database.
func (r Redis) Database() database.RedisConfig {
	return database.RedisConfig{
		Host:        r.Host,
		Port:        r.Port,
		Password:    r.Password,
		DB:          r.DB,
		DialTimeout: r.DialTimeout,
	}
}

// Config holds all configuration for the marketctl client.
type Config struct {
	Observability

	// Marketplace API
	APIURL         string        `env:"MARKET_API_URL" envDefault:"http://localhost:8000/api"`
	APIToken       string        `env:"MARKET_API_TOKEN" envDefault:""`
	APITimeout     time.Duration `env:"MARKET_API_TIMEOUT" envDefault:"30s"`
	APIMaxRetries  int           `env:"MARKET_API_MAX_RETRIES" envDefault:"0"`
	APIRateLimit   float64       `env:"MARKET_API_RATE_LIMIT" envDefault:"0"`
	APIRateBurst   int           `env:"MARKET_API_RATE_BURST" envDefault:"1"`
	BreakerEnabled bool          `env:"MARKET_BREAKER_ENABLED" envDefault:"false"`
	PageSize       int           `env:"MARKET_PAGE_SIZE" envDefault:"10"`

	// Wishlist persistence
	WishlistStorage string `env:"WISHLIST_STORAGE" envDefault:"file"`
	WishlistFile    string `env:"WISHLIST_FILE" envDefault:".marketctl/wishlist.json"`

	Redis Redis
}

// Load reads client configuration from environment variables.
func Load() (*Config, error) {
	return LoadProfile("")
}

// LoadProfile reads a named configuration profile: every variable is read
// with the upper-cased profile name as prefix, e.g. STAGING_MARKET_API_URL
// for "staging". An empty profile is Load.
func LoadProfile(profile string) (*Config, error) {
	cfg := &Config{}
	var err error
	if profile == "" {
		err = pkgconfig.Load(cfg)
	} else {
		err = pkgconfig.LoadWithPrefix(cfg, strings.ToUpper(profile)+"_")
	}
	if err != nil {
		return nil, fmt.Errorf("load marketctl config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HTTPClient returns the transport settings.
func (c *Config) HTTPClient() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = c.APITimeout
	cfg.MaxRetries = c.APIMaxRetries
	cfg.RateLimit = c.APIRateLimit
	cfg.RateBurst = c.APIRateBurst
	return cfg
}

func (c *Config) validate() error {
	if err := c.Observability.validate(); err != nil {
		return err
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MARKET_API_URL must be an absolute URL, got %q", c.APIURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("MARKET_API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.APIMaxRetries < 0 {
		return fmt.Errorf("MARKET_API_MAX_RETRIES must not be negative, got %d", c.APIMaxRetries)
	}
	if c.APIRateLimit < 0 {
		return fmt.Errorf("MARKET_API_RATE_LIMIT must not be negative, got %f", c.APIRateLimit)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("MARKET_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if !slices.Contains([]string{StorageMemory, StorageFile, StorageRedis}, c.WishlistStorage) {
		return fmt.Errorf("WISHLIST_STORAGE must be one of memory, file, redis, got %q", c.WishlistStorage)
	}
	if c.WishlistStorage == StorageFile && c.WishlistFile == "" {
		return fmt.Errorf("WISHLIST_FILE is required when WISHLIST_STORAGE=file")
	}
	return nil
}

// FakeAPI holds all configuration for the fake marketplace backend.
type FakeAPI struct {
	Observability

	HTTPPort    int           `env:"FAKEAPI_HTTP_PORT" envDefault:"8000"`
	JWTSecret   string        `env:"FAKEAPI_JWT_SECRET" envDefault:"local-development-secret"`
	TokenExpiry time.Duration `env:"FAKEAPI_TOKEN_EXPIRY" envDefault:"24h"`
	Seed        bool          `env:"FAKEAPI_SEED" envDefault:"true"`
}

// LoadFakeAPI reads fake backend configuration from environment variables.
func LoadFakeAPI() (*FakeAPI, error) {
	cfg := &FakeAPI{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load fakeapi config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *FakeAPI) validate() error {
	if err := c.Observability.validate(); err != nil {
		return err
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if len(c.JWTSecret) < 8 {
		return fmt.Errorf("FAKEAPI_JWT_SECRET must be at least 8 characters")
	}
	if c.TokenExpiry <= 0 {
		return fmt.Errorf("FAKEAPI_TOKEN_EXPIRY must be positive, got %s", c.TokenExpiry)
	}
	return nil
}
