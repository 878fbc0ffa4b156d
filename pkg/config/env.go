package config

const (
	EnvPrefix = "BAZAAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"

	EnvAppEnv      = "BAZAAR_APP_ENV"
	EnvPort        = "BAZAAR_APP_PORT"
	EnvStoreDriver = "BAZAAR_STORE_DRIVER"

	EnvDBDSN  = "BAZAAR_DB_DSN"
	EnvDBHost = "BAZAAR_DB_HOST"
	EnvDBUser = "BAZAAR_DB_USER"
	EnvDBName = "BAZAAR_DB_NAME"

	EnvMongoURI = "BAZAAR_MONGO_URI"

	EnvRedisURL  = "BAZAAR_REDIS_URL"
	EnvJWTSecret = "BAZAAR_JWT_SECRET"
	EnvJWTIssuer = "BAZAAR_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
