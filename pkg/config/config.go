package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied to every environment variable the backend reads.
const EnvPrefix = "DOHELMOTO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "DOHELMOTO_DB_DSN"
	EnvDBHost = "DOHELMOTO_DB_HOST"
	EnvDBUser = "DOHELMOTO_DB_USER"
	EnvDBName = "DOHELMOTO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cardcom       CardcomConfig
	URLs          URLConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"DOHELMOTO_APP_ENV" required:"true"`
	Port         string `envconfig:"DOHELMOTO_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"DOHELMOTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DOHELMOTO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"DOHELMOTO_DB_DSN"`

	LegacyHost     string `envconfig:"DOHELMOTO_DB_HOST"`
	LegacyPort     int    `envconfig:"DOHELMOTO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DOHELMOTO_DB_USER"`
	LegacyPassword string `envconfig:"DOHELMOTO_DB_PASSWORD"`
	LegacyName     string `envconfig:"DOHELMOTO_DB_NAME"`
	LegacySSLMode  string `envconfig:"DOHELMOTO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DOHELMOTO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DOHELMOTO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DOHELMOTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DOHELMOTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DOHELMOTO_REDIS_URL"`
	Address      string        `envconfig:"DOHELMOTO_REDIS_ADDR"`
	Password     string        `envconfig:"DOHELMOTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"DOHELMOTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DOHELMOTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DOHELMOTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DOHELMOTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DOHELMOTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DOHELMOTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis target is configured at all. The API keeps
// serving without redis; only auth rate limiting degrades to a pass-through.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"DOHELMOTO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DOHELMOTO_JWT_ISSUER" default:"dohelmoto"`
	ExpirationMinutes int    `envconfig:"DOHELMOTO_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DOHELMOTO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DOHELMOTO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DOHELMOTO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DOHELMOTO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DOHELMOTO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"DOHELMOTO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"DOHELMOTO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"DOHELMOTO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"DOHELMOTO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"DOHELMOTO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"DOHELMOTO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DOHELMOTO_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"DOHELMOTO_METRICS" default:"true"`
}

// CardcomConfig carries the LowProfile gateway credentials. The password never
// leaves the process; it only feeds the tamper-evidence hash.
type CardcomConfig struct {
	APIURL     string `envconfig:"DOHELMOTO_CARDCOM_API_URL" default:"https://secure.cardcom.solutions"`
	TerminalID string `envconfig:"DOHELMOTO_CARDCOM_TERMINAL_ID"`
	Username   string `envconfig:"DOHELMOTO_CARDCOM_USERNAME"`
	Password   string `envconfig:"DOHELMOTO_CARDCOM_PASSWORD"`
}

// URLConfig holds the base URLs used to assemble gateway redirect targets.
type URLConfig struct {
	Frontend string `envconfig:"DOHELMOTO_FRONTEND_URL" default:"http://localhost"`
	Backend  string `envconfig:"DOHELMOTO_BACKEND_URL" default:"http://localhost:5000"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DOHELMOTO_CORS_ALLOWED_ORIGINS" default:"http://localhost,http://localhost:3000"`
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
