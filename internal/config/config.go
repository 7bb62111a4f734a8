// Package config loads the desk configuration from defaults, an optional
// YAML file, a .env file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
}

type AppConfig struct {
	FlightsDocument  string        `mapstructure:"flights_document"`
	AircraftDocument string        `mapstructure:"aircraft_document"`
	TicketIDAttempts int           `mapstructure:"ticket_id_attempts"`
	AuditInterval    time.Duration `mapstructure:"audit_interval"`
}

// StorageConfig picks the backends. Documents: file, redis or postgres.
// Tickets: memory or postgres.
type StorageConfig struct {
	Documents string `mapstructure:"documents"`
	Tickets   string `mapstructure:"tickets"`
	DataDir   string `mapstructure:"data_dir"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	Prefix       string        `mapstructure:"prefix"`
	SeatCache    bool          `mapstructure:"seat_cache"`
	SeatCacheTTL time.Duration `mapstructure:"seat_cache_ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.flights_document", "flights")
	v.SetDefault("app.aircraft_document", "aircraft")
	v.SetDefault("app.ticket_id_attempts", 64)
	v.SetDefault("app.audit_interval", time.Minute)

	v.SetDefault("storage.documents", "file")
	v.SetDefault("storage.tickets", "memory")
	v.SetDefault("storage.data_dir", "var")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "airline_desk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_retries", 10)
	v.SetDefault("database.retry_delay", 2*time.Second)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "desk")
	v.SetDefault("redis.seat_cache", false)
	v.SetDefault("redis.seat_cache_ttl", 30*time.Second)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// legacyEnv keeps the short variable names used by existing deployments.
var legacyEnv = map[string]string{
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.dbname":   "DB_NAME",
}

// Load builds the configuration. An empty path searches ./config/config.yaml
// and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Documents {
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("unknown document storage %q", c.Storage.Documents)
	}

	switch c.Storage.Tickets {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown ticket storage %q", c.Storage.Tickets)
	}

	if c.App.TicketIDAttempts <= 0 {
		return fmt.Errorf("app.ticket_id_attempts must be positive, got %d", c.App.TicketIDAttempts)
	}

	if c.App.AuditInterval <= 0 {
		return fmt.Errorf("app.audit_interval must be positive, got %s", c.App.AuditInterval)
	}

	return nil
}

func (c *Config) UsesPostgres() bool {
	return c.Storage.Documents == "postgres" || c.Storage.Tickets == "postgres"
}

func (c *Config) UsesRedis() bool {
	return c.Storage.Documents == "redis" || c.Redis.SeatCache
}
