package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	infradb "coinlend-backend/internal/infrastructure/db"
)

type Config struct {
	AppPort     string
	ServiceName string

	DBDriver    string
	MySQLHost   string
	MySQLPort   string
	MySQLDB     string
	MySQLUser   string
	MySQLPass   string
	PostgresDSN string
	SQLitePath  string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string

	LogLevel string
	LogFile  string

	OTLPEndpoint string

	ReceiptBucket   string
	PubSubProjectID string
	PubSubTopic     string

	OverdueSweepInterval time.Duration

	PolicyFile string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads .env (if present) and then the process environment.
// Real env vars win over .env entries.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		ServiceName: getenv("SERVICE_NAME", "coinlend-backend"),

		DBDriver:    getenv("DB_DRIVER", infradb.DriverMySQL),
		MySQLHost:   getenv("MYSQL_HOST", "mysql"),
		MySQLPort:   getenv("MYSQL_PORT", "3306"),
		MySQLDB:     getenv("MYSQL_DB", "coinlend"),
		MySQLUser:   getenv("MYSQL_USER", "coinlend"),
		MySQLPass:   getenv("MYSQL_PASS", "coinlend"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SQLitePath:  getenv("SQLITE_PATH", "coinlend.db"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		ReceiptBucket:   os.Getenv("RECEIPT_BUCKET"),
		PubSubProjectID: os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubTopic:     getenv("PUBSUB_TOPIC", "loan-events"),

		OverdueSweepInterval: time.Hour,

		PolicyFile: os.Getenv("POLICY_FILE"),
	}
	if v := os.Getenv("OVERDUE_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.OverdueSweepInterval = d
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case infradb.DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case infradb.DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case infradb.DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if c.OverdueSweepInterval <= 0 {
		return fmt.Errorf("invalid OVERDUE_SWEEP_INTERVAL %s", c.OverdueSweepInterval)
	}
	if c.PubSubProjectID != "" && c.PubSubTopic == "" {
		return errors.New("PUBSUB_TOPIC required when PUBSUB_PROJECT_ID is set")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case infradb.DriverPostgres:
		return c.PostgresDSN
	case infradb.DriverSQLite:
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}
