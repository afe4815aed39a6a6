package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Wallet        WalletConfig
	Cron          CronConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VISTAPRO_APP_ENV" required:"true"`
	Port         string `envconfig:"VISTAPRO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VISTAPRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VISTAPRO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VISTAPRO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VISTAPRO_DB_DSN"`
	Driver string `envconfig:"VISTAPRO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VISTAPRO_DB_HOST"`
	LegacyPort     int    `envconfig:"VISTAPRO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VISTAPRO_DB_USER"`
	LegacyPassword string `envconfig:"VISTAPRO_DB_PASSWORD"`
	LegacyName     string `envconfig:"VISTAPRO_DB_NAME"`
	LegacySSLMode  string `envconfig:"VISTAPRO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VISTAPRO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VISTAPRO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VISTAPRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VISTAPRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VISTAPRO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VISTAPRO_REDIS_ADDR"`
	Password     string        `envconfig:"VISTAPRO_REDIS_PASSWORD"`
	DB           int           `envconfig:"VISTAPRO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VISTAPRO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VISTAPRO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VISTAPRO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VISTAPRO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VISTAPRO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VISTAPRO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VISTAPRO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VISTAPRO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VISTAPRO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VISTAPRO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VISTAPRO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VISTAPRO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VISTAPRO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VISTAPRO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"VISTAPRO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"VISTAPRO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"VISTAPRO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`

	RegisterWindow     time.Duration `envconfig:"VISTAPRO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"1h"`
	RegisterEmailLimit int           `envconfig:"VISTAPRO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VISTAPRO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VISTAPRO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VISTAPRO_AUTO_MIGRATE" default:"false"`
}

// WalletConfig tunes the commission and withdrawal arithmetic. Amounts are
// kobo minor units.
type WalletConfig struct {
	AvailablePct  int64 `envconfig:"VISTAPRO_WALLET_AVAILABLE_PCT" default:"40"`
	WithdrawalFee int64 `envconfig:"VISTAPRO_WALLET_WITHDRAWAL_FEE" default:"10000"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"VISTAPRO_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"VISTAPRO_CRON_LOCK_TTL" default:"25h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VISTAPRO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VISTAPRO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VISTAPRO_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"VISTAPRO_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"VISTAPRO_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"VISTAPRO_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VISTAPRO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VISTAPRO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VISTAPRO_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
		Path:   "/" + db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
