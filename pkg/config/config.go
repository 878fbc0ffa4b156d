package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	case StoreDriverMongo:
		if cfg.Mongo.URI == "" {
			return nil, fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvStoreDriver, StoreDriverMongo)
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAZAAR_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZAAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZAAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects the persistence backend for carts, orders and the catalog.
type StoreConfig struct {
	Driver string `envconfig:"BAZAAR_STORE_DRIVER" default:"postgres"`
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	if s.Driver == "" {
		s.Driver = StoreDriverPostgres
	}
	switch s.Driver {
	case StoreDriverPostgres, StoreDriverMongo:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
	}
}

type DBConfig struct {
	DSN string `envconfig:"BAZAAR_DB_DSN"`

	LegacyHost     string `envconfig:"BAZAAR_DB_HOST"`
	LegacyPort     int    `envconfig:"BAZAAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAZAAR_DB_USER"`
	LegacyPassword string `envconfig:"BAZAAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAZAAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAZAAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAZAAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAZAAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAZAAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZAAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MongoConfig struct {
	URI            string        `envconfig:"BAZAAR_MONGO_URI"`
	Database       string        `envconfig:"BAZAAR_MONGO_DATABASE" default:"bazaar"`
	ConnectTimeout time.Duration `envconfig:"BAZAAR_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"BAZAAR_MONGO_MAX_POOL_SIZE" default:"50"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZAAR_REDIS_URL"`
	Address      string        `envconfig:"BAZAAR_REDIS_ADDR"`
	Password     string        `envconfig:"BAZAAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZAAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZAAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZAAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZAAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZAAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZAAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"BAZAAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAZAAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAZAAR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// SessionConfig controls whether access tokens must map to a live redis session.
type SessionConfig struct {
	Required bool `envconfig:"BAZAAR_SESSION_REQUIRED" default:"false"`
}

// RateLimitConfig throttles authenticated traffic per user. Zero disables it.
type RateLimitConfig struct {
	PerMinute int `envconfig:"BAZAAR_RATE_LIMIT_PER_MINUTE" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAZAAR_AUTO_MIGRATE" default:"false"`
}

// CronConfig drives cmd/cron-worker.
type CronConfig struct {
	Interval      time.Duration `envconfig:"BAZAAR_CRON_INTERVAL" default:"1h"`
	CartIdleAfter time.Duration `envconfig:"BAZAAR_CART_ABANDON_AFTER" default:"720h"`
	LockTTL       time.Duration `envconfig:"BAZAAR_CRON_LOCK_TTL" default:"55m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BAZAAR_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
