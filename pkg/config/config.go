package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "sitecrm"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Admin AdminConfig
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
	Env          string `envconfig:"SITECRM_APP_ENV" required:"true"`
	Port         string `envconfig:"SITECRM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SITECRM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SITECRM_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SITECRM_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SITECRM_DB_DSN"`
	Driver string `envconfig:"SITECRM_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SITECRM_DB_HOST"`
	Port     int    `envconfig:"SITECRM_DB_PORT" default:"5432"`
	User     string `envconfig:"SITECRM_DB_USER"`
	Password string `envconfig:"SITECRM_DB_PASSWORD"`
	Name     string `envconfig:"SITECRM_DB_NAME"`
	SSLMode  string `envconfig:"SITECRM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SITECRM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SITECRM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SITECRM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SITECRM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SITECRM_REDIS_URL"`
	Address      string        `envconfig:"SITECRM_REDIS_ADDR"`
	Password     string        `envconfig:"SITECRM_REDIS_PASSWORD"`
	DB           int           `envconfig:"SITECRM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SITECRM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SITECRM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SITECRM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SITECRM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SITECRM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SITECRM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SITECRM_JWT_ISSUER" default:"sitecrm"`
	ExpirationMinutes int    `envconfig:"SITECRM_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig carries the single-admin credentials used by the login
// endpoint. PasswordHash is a bcrypt hash; the plaintext password is never
// configured.
type AdminConfig struct {
	Email        string `envconfig:"SITECRM_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"SITECRM_ADMIN_PASSWORD_HASH" required:"true"`
}
