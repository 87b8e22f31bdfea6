package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	gateway "github.com/nimasrn/banking-gateway/internal/gateways"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/pg"
	"github.com/nimasrn/banking-gateway/pkg/redis"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every configuration value of the banking binaries. Only this
// struct must be used to read configuration; no direct access to env or any
// other source should be made.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"banking_gateway"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr            string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout     int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout    int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`
	HttpServerReadBufferSize  int    `env:"HTTP_SERVER_READ_BUFFER_SIZE"`
	HttpServerWriteBufferSize int    `env:"HTTP_SERVER_WRITE_BUFFER_SIZE"`
	HttpRequestTimeout        int    `env:"HTTP_REQUEST_TIMEOUT"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`
	PostgresMaxOpenConns  int    `env:"POSTGRES_MAX_OPEN_CONNS"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	LogLevel []string `env:"LOG_LEVEL"`

	JwtSecret string        `env:"JWT_SECRET"`
	JwtExpiry time.Duration `env:"JWT_EXPIRY"`

	LedgerStream string `env:"LEDGER_STREAM"`

	NotifierConsumerGroup string        `env:"NOTIFIER_CONSUMER_GROUP"`
	NotifierConsumerName  string        `env:"NOTIFIER_CONSUMER_NAME"`
	NotifierWorkers       int           `env:"NOTIFIER_WORKERS"`
	NotifierBatchSize     int64         `env:"NOTIFIER_BATCH_SIZE"`
	NotifierBlock         time.Duration `env:"NOTIFIER_BLOCK"`
	NotifierClaimIdle     time.Duration `env:"NOTIFIER_CLAIM_IDLE"`
	NotifierDedupeTTL     time.Duration `env:"NOTIFIER_DEDUPE_TTL"`

	NotifierWebhookURLs             []string      `env:"NOTIFIER_WEBHOOK_URLS"`
	NotifierWebhookTimeout          time.Duration `env:"NOTIFIER_WEBHOOK_TIMEOUT"`
	NotifierWebhookBreakerThreshold int           `env:"NOTIFIER_WEBHOOK_BREAKER_THRESHOLD"`
	NotifierWebhookBreakerTimeout   time.Duration `env:"NOTIFIER_WEBHOOK_BREAKER_TIMEOUT"`

	SeedOnStart bool `env:"SEED_ON_START"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.Wrap(err, "failed to load configuration file "+path)
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	c.applyDefaults()
	config = c
	return nil
}

func (c *Config) applyDefaults() {
	if c.JwtExpiry == 0 {
		c.JwtExpiry = 24 * time.Hour
	}
	if c.LedgerStream == "" {
		c.LedgerStream = "ledger-events"
	}
	if c.NotifierConsumerGroup == "" {
		c.NotifierConsumerGroup = "notifier"
	}
	if c.NotifierConsumerName == "" {
		c.NotifierConsumerName = "notifier-1"
	}
	if c.NotifierWorkers == 0 {
		c.NotifierWorkers = 4
	}
	if c.NotifierBatchSize == 0 {
		c.NotifierBatchSize = 50
	}
	if c.NotifierBlock == 0 {
		c.NotifierBlock = 2 * time.Second
	}
	if c.NotifierClaimIdle == 0 {
		c.NotifierClaimIdle = time.Minute
	}
	if c.NotifierDedupeTTL == 0 {
		c.NotifierDedupeTTL = 24 * time.Hour
	}
	if c.HttpRequestTimeout == 0 {
		c.HttpRequestTimeout = 10
	}
}

func (c *Config) PostgresRead() pg.Config {
	return pg.Config{
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
		MaxOpen:  c.PostgresMaxOpenConns,
	}
}

func (c *Config) PostgresWrite() pg.Config {
	return pg.Config{
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
		MaxOpen:  c.PostgresMaxOpenConns,
	}
}

func (c *Config) Redis(clientName string) *redis.Options {
	return &redis.Options{
		Addrs:      []string{c.RedisAddr},
		ClientName: clientName,
		DB:         c.RedisDatabase,
		Username:   c.RedisUsername,
		Password:   c.RedisPassword,
	}
}

// AlertProviders names webhook providers in priority order; earlier URLs
// get a higher weight.
func (c *Config) AlertProviders() []gateway.ProviderConfig {
	providers := make([]gateway.ProviderConfig, 0, len(c.NotifierWebhookURLs))
	for i, url := range c.NotifierWebhookURLs {
		if url == "" {
			continue
		}
		providers = append(providers, gateway.ProviderConfig{
			Name:   fmt.Sprintf("webhook-%d", i+1),
			URL:    url,
			Weight: 100 - 10*i,
		})
	}
	return providers
}

// Validate reports settings the API cannot start without.
func (c *Config) Validate() error {
	if c.HttpListenAddr == "" {
		return errors.New("HTTP_LISTEN_ADDR is required")
	}
	if len(c.JwtSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// Set replaces the global config; used by tests and tooling.
func Set(c *Config) {
	config = c
}
