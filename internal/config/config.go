package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env      string   `yaml:"env" env:"APP_ENV" env-default:"local" env-description:"Environment" env-choices:"local,dev,prod"`
	HTTP     HTTP     `yaml:"http"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	JWT      JWT      `yaml:"jwt"`
	// SeedUsers populates the in-memory user directory; ignored by the postgres driver.
	SeedUsers []SeedUser `yaml:"seed_users"`
}

type SeedUser struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type HTTP struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
}

type Postgres struct {
	Host         string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User         string `yaml:"user" env:"PG_USER" env-default:"ledger"`
	Pass         string `yaml:"pass" env:"PG_PASS" env-default:"ledger"`
	Db           string `yaml:"db" env:"PG_DB" env-default:"ledger"`
	SSLMode      string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"PG_MAX_OPEN_CONNS" env-default:"20"`
	// LockTimeout bounds the wait for a user's advisory lock.
	LockTimeout time.Duration `yaml:"lock_timeout" env:"PG_LOCK_TIMEOUT" env-default:"5s"`
}

// URL builds a postgres:// connection string.
func (p Postgres) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Pass, p.Host, p.Port, p.Db, p.SSLMode)
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"60s"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
}

type JWT struct {
	Secret string `yaml:"secret" env:"JWT_SECRET"`
}

// MustLoad reads the config file from -config or CONFIG_PATH and panics on failure.
func MustLoad() *Config {
	path := fetchConfigPath()

	cfg, err := Load(path)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	return cfg
}

// Load reads the YAML file at path (env-only when path is empty) and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka is enabled but no brokers are configured")
	}
	return nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
