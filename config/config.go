package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	// DB is the store connection string: a mongodb:// URI, a postgres DSN or a redis host:port
	DB            string `mapstructure:"DB"`
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DBName        string `mapstructure:"DB_NAME"`
	DBCollection  string `mapstructure:"DB_COLLECTION"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	PostgresMaxOpenConns       int `mapstructure:"PG_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int `mapstructure:"PG_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int `mapstructure:"PG_CONN_MAX_LIFE_MINUTES"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
	TrustProxy     bool    `mapstructure:"TRUST_PROXY"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`
	LogJSON        bool `mapstructure:"LOG_JSON"`
}

var defaults = map[string]any{
	"PORT":                     "3000",
	"DB":                       "",
	"STORE_DRIVER":             DriverMongo,
	"DB_NAME":                  "library",
	"DB_COLLECTION":            "books",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"PG_MAX_OPEN_CONNS":        25,
	"PG_MAX_IDLE_CONNS":        5,
	"PG_CONN_MAX_LIFE_MINUTES": 5,
	"RATE_LIMIT_RPS":           0.0,
	"RATE_LIMIT_BURST":         10,
	"TRUST_PROXY":              false,
	"METRICS_ENABLED":          true,
	"LOG_JSON":                 true,
}

// GetConfig reads ./.env (toml, optional) and the environment, environment wins
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load is GetConfig with an explicit directory for the .env file
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverRedis:
		if c.DB == "" {
			return fmt.Errorf("DB connection string is required for driver %q", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}
