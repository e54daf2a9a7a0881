package config

const (
	EnvPrefix = "MARKETPLACE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "MARKETPLACE_APP_ENV"
	EnvPort         = "MARKETPLACE_APP_PORT"
	EnvLogLevel     = "MARKETPLACE_LOG_LEVEL"
	EnvLogWarnStack = "MARKETPLACE_LOG_WARN_STACK"

	EnvDBDSN      = "MARKETPLACE_DB_DSN"
	EnvDBDriver   = "MARKETPLACE_DB_DRIVER"
	EnvDBHost     = "MARKETPLACE_DB_HOST"
	EnvDBPort     = "MARKETPLACE_DB_PORT"
	EnvDBUser     = "MARKETPLACE_DB_USER"
	EnvDBPassword = "MARKETPLACE_DB_PASSWORD"
	EnvDBName     = "MARKETPLACE_DB_NAME"
	EnvDBSSLMode  = "MARKETPLACE_DB_SSLMODE"

	EnvRedisURL  = "MARKETPLACE_REDIS_URL"
	EnvRedisAddr = "MARKETPLACE_REDIS_ADDR"

	EnvJWTSecret  = "MARKETPLACE_JWT_SECRET"
	EnvJWTIssuer  = "MARKETPLACE_JWT_ISSUER"
	EnvJWTExpMins = "MARKETPLACE_JWT_EXPIRATION_MINUTES"

	EnvCheckoutTaxRate      = "MARKETPLACE_CHECKOUT_TAX_RATE"
	EnvCheckoutShippingFlat = "MARKETPLACE_CHECKOUT_SHIPPING_FLAT"

	EnvUseSQLite   = "MARKETPLACE_USE_SQLITE"
	EnvAutoMigrate = "MARKETPLACE_AUTO_MIGRATE"

	EnvGCPProjectID       = "MARKETPLACE_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic  = "MARKETPLACE_PUBSUB_ORDERS_TOPIC"
	EnvOutboxBatchSize    = "MARKETPLACE_OUTBOX_PUBLISH_BATCH_SIZE"
	EnvOutboxPollInterval = "MARKETPLACE_OUTBOX_PUBLISH_POLL_MS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
