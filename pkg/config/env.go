package config

// EnvPrefix is empty because every field names its variable explicitly.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "STOREFRONT_APP_ENV"
	EnvPort        = "STOREFRONT_APP_PORT"
	EnvLogLevel    = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat   = "STOREFRONT_LOG_FORMAT"
	EnvDBDSN       = "STOREFRONT_DB_DSN"
	EnvDBHost      = "STOREFRONT_DB_HOST"
	EnvDBUser      = "STOREFRONT_DB_USER"
	EnvDBPassword  = "STOREFRONT_DB_PASSWORD"
	EnvDBName      = "STOREFRONT_DB_NAME"
	EnvRedisURL    = "STOREFRONT_REDIS_URL"
	EnvRedisAddr   = "STOREFRONT_REDIS_ADDR"
	EnvUseSQLite   = "STOREFRONT_USE_SQLITE"
	EnvMemoryCache = "STOREFRONT_MEMORY_CACHE"
	EnvProductTTL  = "STOREFRONT_CATALOG_PRODUCT_TTL"
	EnvCORSOrigins = "STOREFRONT_CORS_ALLOWED_ORIGINS"
	EnvOverrides   = "STOREFRONT_SETTINGS_OVERRIDES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
