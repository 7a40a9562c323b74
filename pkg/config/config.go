package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SHOPSTORE_DATABASE_DRIVER.
const EnvPrefix = "SHOPSTORE"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Database DatabaseConfig `mapstructure:"database"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Order    OrderConfig    `mapstructure:"order"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig describes the gRPC health endpoint that gets registered in etcd.
type ServerConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	Enabled bool   `mapstructure:"enabled"`
}

type GatewayConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	Swagger         bool          `mapstructure:"swagger"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type EtcdConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	LeaseTTL    int64         `mapstructure:"lease_ttl"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MongoDBConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// OrderConfig holds the policies of the order workflow.
type OrderConfig struct {
	AllowOversell  bool          `mapstructure:"allow_oversell"`
	AllowEmpty     bool          `mapstructure:"allow_empty"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Load reads the YAML file at configPath, applies SHOPSTORE_* environment
// overrides and fills the remaining keys with defaults. An empty path skips the
// file and relies on defaults and the environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "shopstore")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.enabled", true)

	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 5000)
	v.SetDefault("gateway.swagger", false)
	v.SetDefault("gateway.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "shopping_store")
	v.SetDefault("database.sqlite_path", "shopping_store.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("etcd.enabled", false)
	v.SetDefault("etcd.endpoints", []string{"127.0.0.1:2379"})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.lease_ttl", 30)
	v.SetDefault("etcd.prefix", "/services/")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.prefix", "shopstore")
	v.SetDefault("redis.ttl", 30*time.Minute)

	v.SetDefault("mongodb.enabled", false)
	v.SetDefault("mongodb.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongodb.database", "shopstore")
	v.SetDefault("mongodb.collection", "audit_logs")
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)

	v.SetDefault("order.allow_oversell", false)
	v.SetDefault("order.allow_empty", true)
	v.SetDefault("order.request_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

// Validate checks the settings that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Username == "" {
			return fmt.Errorf("database.username is required for the mysql driver")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Order.RequestTimeout <= 0 {
		return fmt.Errorf("order.request_timeout must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return sqliteDSN(c.SQLitePath)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// sqliteDSN turns foreign key enforcement on, SQLite leaves it off by default.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (g *GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
