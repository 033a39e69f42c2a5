package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "CARTSYNC"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv          = "CARTSYNC_APP_ENV"
	EnvPort            = "CARTSYNC_APP_PORT"
	EnvDBDSN           = "CARTSYNC_DB_DSN"
	EnvDBDriver        = "CARTSYNC_DB_DRIVER"
	EnvRedisURL        = "CARTSYNC_REDIS_URL"
	EnvJWTSecret       = "CARTSYNC_JWT_SECRET"
	EnvJWTIssuer       = "CARTSYNC_JWT_ISSUER"
	EnvUpstreamBaseURL = "CARTSYNC_UPSTREAM_BASE_URL"
	EnvGuestCartStore  = "CARTSYNC_GUEST_CART_STORE"
	EnvGuestCartTTL    = "CARTSYNC_GUEST_CART_TTL"
)
