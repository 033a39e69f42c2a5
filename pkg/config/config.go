package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shoplane/cartsync-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Upstream     UpstreamConfig
	GuestCart    GuestCartConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.GuestCart.validate(); err != nil {
		return nil, err
	}
	if cfg.GuestCart.Kind() == enums.GuestStoreDB && cfg.DB.DSN == "" {
		return nil, fmt.Errorf("%s is required when %s=db", EnvDBDSN, EnvGuestCartStore)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTSYNC_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTSYNC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARTSYNC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTSYNC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARTSYNC_DB_DSN"`
	Driver string `envconfig:"CARTSYNC_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"CARTSYNC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTSYNC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTSYNC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTSYNC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTSYNC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARTSYNC_REDIS_ADDR"`
	Password     string        `envconfig:"CARTSYNC_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTSYNC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTSYNC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTSYNC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTSYNC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTSYNC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTSYNC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"CARTSYNC_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"CARTSYNC_JWT_ISSUER" required:"true"`
}

// UpstreamConfig points at the commerce backend that owns authenticated carts.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"CARTSYNC_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"CARTSYNC_UPSTREAM_TIMEOUT" default:"10s"`
}

// GuestCartConfig controls where guest carts are persisted and for how long.
type GuestCartConfig struct {
	Store string        `envconfig:"CARTSYNC_GUEST_CART_STORE" default:"redis"`
	TTL   time.Duration `envconfig:"CARTSYNC_GUEST_CART_TTL" default:"720h"`
}

// Kind returns the normalized guest store selector.
func (g GuestCartConfig) Kind() enums.GuestStoreKind {
	return enums.GuestStoreKind(strings.ToLower(strings.TrimSpace(g.Store)))
}

func (g GuestCartConfig) validate() error {
	if !g.Kind().IsValid() {
		return fmt.Errorf("%s must be %q or %q", EnvGuestCartStore, enums.GuestStoreRedis, enums.GuestStoreDB)
	}
	return nil
}

// RateLimitConfig bounds cart requests per session. A zero Requests value
// disables the limiter.
type RateLimitConfig struct {
	Requests int64         `envconfig:"CARTSYNC_RATE_LIMIT_REQUESTS" default:"0"`
	Window   time.Duration `envconfig:"CARTSYNC_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARTSYNC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARTSYNC_AUTO_MIGRATE" default:"false"`
}
