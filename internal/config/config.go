package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig contains connection and pool settings for the backing store.
// Credentials are deliberately absent; see Secrets.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string `mapstructure:"address"` // listen address (e.g., ":50051")
	TLSCert string `mapstructure:"tls_cert"`
	TLSKey  string `mapstructure:"tls_key"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // text | json
}

// Secrets are read from the environment only, never from a config file.
type Secrets struct {
	DBUser     string
	DBPassword string
	JWTSecret  string
}

// DefaultDatabaseConfig returns the default database settings.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:          DriverPostgres,
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "require",
		MaxConnections:  10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		QueryTimeout:    30 * time.Second,
	}
}

// Load reads configuration from an optional YAML file and DBFE_* environment
// variables (e.g. DBFE_DATABASE_HOST). Environment values win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DBFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultDatabaseConfig()
	v.SetDefault("database.driver", d.Driver)
	v.SetDefault("database.host", d.Host)
	v.SetDefault("database.port", d.Port)
	v.SetDefault("database.name", "app")
	v.SetDefault("database.ssl_mode", d.SSLMode)
	v.SetDefault("database.max_connections", d.MaxConnections)
	v.SetDefault("database.max_idle_conns", d.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", d.ConnMaxLifetime.String())
	v.SetDefault("database.query_timeout", d.QueryTimeout.String())

	v.SetDefault("grpc.address", ":50051")
	v.SetDefault("grpc.tls_cert", "")
	v.SetDefault("grpc.tls_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadSecrets reads DB_USER, DB_PASSWORD and JWT_SECRET from the environment.
func LoadSecrets() (*Secrets, error) {
	s := &Secrets{
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
	}
	var missing []string
	if s.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if s.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if s.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, errors.New("missing environment variables: " + strings.Join(missing, ", "))
	}
	return s, nil
}

// String returns a string representation of the config. It holds no secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s://%s:%d/%s sslmode=%s pool=%d/%d, gRPC: %s, tls: %t}",
		c.Database.Driver, c.Database.Host, c.Database.Port, c.Database.Database, c.Database.SSLMode,
		c.Database.MaxConnections, c.Database.MaxIdleConns, c.GRPC.Address, c.GRPC.TLSCert != "")
}

// String masks every secret value.
func (s *Secrets) String() string {
	return fmt.Sprintf("Secrets{DBUser: %s, DBPassword: *** (masked) ***, JWTSecret: *** (masked) ***}", s.DBUser)
}
