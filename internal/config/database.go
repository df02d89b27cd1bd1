package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// DatabaseConfig holds MySQL connection settings. Credentials never live in
// config.yaml; they come from the environment or a local .env file.
type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectAttempts bounds the startup ping loop.
	ConnectAttempts int
}

// DatabaseConfigFromEnv reads DB_* variables after loading .env if present.
func DatabaseConfigFromEnv() DatabaseConfig {
	// A missing .env is fine, the process env may already be populated.
	_ = godotenv.Load()

	return DatabaseConfig{
		User:            os.Getenv("DB_USER"),
		Password:        os.Getenv("DB_PASSWORD"),
		Host:            envOrDefault("DB_HOST", "127.0.0.1"),
		Port:            envOrDefault("DB_PORT", "3306"),
		Name:            envOrDefault("DB_NAME", "sales"),
		MaxOpenConns:    intFromEnv("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    intFromEnv("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		ConnectAttempts: intFromEnv("DB_CONNECT_ATTEMPTS", 3),
	}
}

// DSN renders the go-sql-driver connection string. Unix sockets are used when
// the host is an absolute path.
//
// Invoice dates are calendar days held as UTC midnight, so the connection
// location is UTC regardless of the host zone. Parameters are interpolated
// client side so bulk statements are not prepared on the server.
func (c DatabaseConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.MultiStatements = true
	cfg.InterpolateParams = true
	cfg.Loc = time.UTC

	if strings.HasPrefix(c.Host, "/") {
		cfg.Net = "unix"
		cfg.Addr = c.Host
	} else {
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	}

	return cfg.FormatDSN()
}

// String is safe to log.
func (c DatabaseConfig) String() string {
	return fmt.Sprintf("%s@%s:%s/%s", c.User, c.Host, c.Port, c.Name)
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
