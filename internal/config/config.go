package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMySQL  = "mysql"
	StorageSQLite = "sqlite"
)

type Config struct {
	AppPort string

	// StorageDriver selects the primary store. With mysql, SQLitePath is the local mirror.
	StorageDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	OverdueSweepCron string

	LogLevel     string
	LogFormat    string
	GormLogLevel string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Load reads the configuration from the environment, after loading a .env file when present.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:       getenv("APP_PORT", "8080"),
		StorageDriver: getenv("STORAGE_DRIVER", StorageSQLite),
		MySQLHost:     getenv("MYSQL_HOST", "mysql"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDB:       getenv("MYSQL_DB", "credconecta"),
		MySQLUser:     getenv("MYSQL_USER", "credconecta"),
		MySQLPass:     getenv("MYSQL_PASS", "credconecta"),
		SQLitePath:    getenv("SQLITE_PATH", "credconecta.db"),

		RedisAddr:    getenv("REDIS_ADDR", ""),
		IdempTTLSecs: 300,

		AdminPassword: getenv("ADMIN_PASSWORD", "8470"),
		JWTSecret:     getenv("JWT_SECRET", "change-me"),
		TokenTTL:      24 * time.Hour,

		OverdueSweepCron: getenv("OVERDUE_SWEEP_CRON", "0 8 * * *"),

		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		GormLogLevel: getenv("GORM_LOG_LEVEL", "warn"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.TokenTTL = d
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StorageDriver {
	case StorageMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case StorageSQLite:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want mysql or sqlite)", c.StorageDriver)
	}
	if c.SQLitePath == "" {
		return errors.New("missing SQLITE_PATH")
	}
	if c.AdminPassword == "" {
		return errors.New("missing ADMIN_PASSWORD")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }
