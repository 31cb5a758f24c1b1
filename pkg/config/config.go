package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TICKETDESK_DB_DSN"
	EnvDBHost = "TICKETDESK_DB_HOST"
	EnvDBUser = "TICKETDESK_DB_USER"
	EnvDBName = "TICKETDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Sessions  SessionsConfig
	GCP       GCPConfig
	PubSub    PubSubConfig
	Outbox    OutboxConfig
	RateLimit RateLimitConfig
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
	Env          string `envconfig:"TICKETDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"TICKETDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TICKETDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TICKETDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TICKETDESK_DB_DSN"`
	Driver string `envconfig:"TICKETDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TICKETDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"TICKETDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TICKETDESK_DB_USER"`
	LegacyPassword string `envconfig:"TICKETDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TICKETDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TICKETDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TICKETDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TICKETDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TICKETDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TICKETDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"TICKETDESK_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TICKETDESK_REDIS_URL"`
	Address      string        `envconfig:"TICKETDESK_REDIS_ADDR"`
	Password     string        `envconfig:"TICKETDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TICKETDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TICKETDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TICKETDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TICKETDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TICKETDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TICKETDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionsConfig controls how long a bot's parked conversation state survives.
type SessionsConfig struct {
	TTL time.Duration `envconfig:"TICKETDESK_SESSION_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TICKETDESK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TICKETDESK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TICKETDESK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	TicketTopic        string `envconfig:"TICKETDESK_PUBSUB_TICKET_TOPIC" default:"ticketdesk-ticket-events"`
	TicketSubscription string `envconfig:"TICKETDESK_PUBSUB_TICKET_SUBSCRIPTION"`
}

// RateLimitConfig throttles write traffic per actor. A zero WriteLimit
// disables the throttle.
type RateLimitConfig struct {
	Window     time.Duration `envconfig:"TICKETDESK_RATE_LIMIT_WINDOW" default:"1m"`
	WriteLimit int           `envconfig:"TICKETDESK_RATE_LIMIT_WRITES" default:"0"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TICKETDESK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TICKETDESK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TICKETDESK_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
