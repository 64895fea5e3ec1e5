package config

// EnvPrefix is intentionally empty: every variable carries the full
// PRICING_ name in its envconfig tag so grepping for a variable finds it.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "PRICING_APP_ENV"
	EnvPort   = "PRICING_APP_PORT"

	EnvDBDSN  = "PRICING_DB_DSN"
	EnvDBHost = "PRICING_DB_HOST"
	EnvDBUser = "PRICING_DB_USER"
	EnvDBName = "PRICING_DB_NAME"

	EnvRedisURL = "PRICING_REDIS_URL"

	EnvDefaultCurrency = "PRICING_DEFAULT_CURRENCY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
