package config

const (
	// EnvPrefix is passed to envconfig.Process for every entry point.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "VISTAPRO_APP_ENV"
	EnvPort       = "VISTAPRO_APP_PORT"
	EnvDBDSN      = "VISTAPRO_DB_DSN"
	EnvDBHost     = "VISTAPRO_DB_HOST"
	EnvDBUser     = "VISTAPRO_DB_USER"
	EnvDBName     = "VISTAPRO_DB_NAME"
	EnvRedisURL   = "VISTAPRO_REDIS_URL"
	EnvJWTSecret  = "VISTAPRO_JWT_SECRET"
	EnvJWTIssuer  = "VISTAPRO_JWT_ISSUER"
	EnvJWTExpMins = "VISTAPRO_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
