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
	StorageMySQL     = "mysql"
	StorageFirestore = "firestore"
)

type Config struct {
	AppPort   string
	AppEnv    string
	LogLevel  string
	LogFormat string

	StorageDriver string

	MySQLHost  string
	MySQLPort  string
	MySQLDB    string
	MySQLUser  string
	MySQLPass  string
	DBLogLevel string

	FirebaseProjectID   string
	FirebaseCredentials string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs      int
	ReportLockTTLSecs int

	// BusinessTimezone decides which calendar day a submission belongs to.
	BusinessTimezone string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, after merging a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		AppEnv:    getenv("APP_ENV", "development"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		StorageDriver: getenv("STORAGE_DRIVER", StorageMySQL),

		MySQLHost:  getenv("MYSQL_HOST", "mysql"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLDB:    getenv("MYSQL_DB", "obras"),
		MySQLUser:  getenv("MYSQL_USER", "obras"),
		MySQLPass:  getenv("MYSQL_PASS", "obras"),
		DBLogLevel: getenv("DB_LOG_LEVEL", "warn"),

		FirebaseProjectID:   getenv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getenv("FIREBASE_CREDENTIALS_PATH", ""),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: getenv("REDIS_PASSWORD", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs:      getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		ReportLockTTLSecs: getenvInt("REPORT_LOCK_TTL_SECONDS", 10),

		BusinessTimezone: getenv("BUSINESS_TIMEZONE", "Europe/Madrid"),
	}
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
	case StorageFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("missing FIREBASE_PROJECT_ID for firestore storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want mysql or firestore)", c.StorageDriver)
	}
	if c.ReportLockTTLSecs <= 0 {
		return errors.New("REPORT_LOCK_TTL_SECONDS must be positive")
	}
	if _, err := time.LoadLocation(c.BusinessTimezone); err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.BusinessTimezone, err)
	}
	return nil
}

// Location is the parsed BusinessTimezone; call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) ReportLockTTL() time.Duration {
	return time.Duration(c.ReportLockTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATE/DATETIME; loc=UTC keeps report days stable
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
