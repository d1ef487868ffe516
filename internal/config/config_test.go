package config

import (
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv with "" is enough for getenv to fall back to defaults
	setEnv(t, map[string]string{
		"APP_PORT": "", "DB_DRIVER": "", "MYSQL_HOST": "", "REDIS_DB": "",
		"IDEMPOTENCY_TTL_SECONDS": "", "OVERDUE_SWEEP_INTERVAL": "", "PUBSUB_TOPIC": "",
	})
	c := Load()

	if c.AppPort != "8080" || c.DBDriver != "mysql" || c.MySQLHost != "mysql" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.IdempTTLSecs != 300 || c.IdempotencyTTL() != 5*time.Minute {
		t.Fatalf("idempotency ttl = %d", c.IdempTTLSecs)
	}
	if c.OverdueSweepInterval != time.Hour {
		t.Fatalf("sweep interval = %s", c.OverdueSweepInterval)
	}
	if c.PubSubTopic != "loan-events" {
		t.Fatalf("topic = %q", c.PubSubTopic)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_PORT":                "9090",
		"DB_DRIVER":               "postgres",
		"POSTGRES_DSN":            "host=db user=x dbname=y",
		"REDIS_DB":                "3",
		"IDEMPOTENCY_TTL_SECONDS": "60",
		"OVERDUE_SWEEP_INTERVAL":  "15m",
		"JWT_SECRET":              "0123456789abcdef0123",
	})
	c := Load()

	if c.AppPort != "9090" || c.RedisDB != 3 || c.IdempTTLSecs != 60 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.OverdueSweepInterval != 15*time.Minute {
		t.Fatalf("sweep interval = %s", c.OverdueSweepInterval)
	}
	if c.DSN() != "host=db user=x dbname=y" {
		t.Fatalf("DSN = %q", c.DSN())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_BadNumbersKeepDefaults(t *testing.T) {
	setEnv(t, map[string]string{"REDIS_DB": "x", "IDEMPOTENCY_TTL_SECONDS": "soon", "OVERDUE_SWEEP_INTERVAL": "often"})
	c := Load()
	if c.RedisDB != 0 || c.IdempTTLSecs != 300 || c.OverdueSweepInterval != time.Hour {
		t.Fatalf("bad values should fall back: %+v", c)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: "mysql",
			MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			JWTSecret: "0123456789abcdef", OverdueSweepInterval: time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"no port", func(c *Config) { c.AppPort = "" }, true},
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }, true},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "notaport" }, true},
		{"postgres without dsn", func(c *Config) { c.DBDriver = "postgres" }, true},
		{"sqlite ok", func(c *Config) { c.DBDriver = "sqlite"; c.SQLitePath = "x.db" }, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"zero interval", func(c *Config) { c.OverdueSweepInterval = 0 }, true},
		{"pubsub without topic", func(c *Config) { c.PubSubProjectID = "p" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{DBDriver: "mysql", MySQLUser: "u", MySQLPass: "p", MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d"}
	want := "u:p@tcp(h:3306)/d?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := c.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
