package file

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full seeder configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Seeder   SeederConfig   `toml:"seeder"`
}

// DatabaseConfig holds the PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// SeederConfig holds the ingestion tuning knobs.
type SeederConfig struct {
	BatchSize int `toml:"batch_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			Database: "druginfo",
		},
		Seeder: SeederConfig{
			BatchSize: 100,
		},
	}
}

// Load resolves the configuration. When path is empty only defaults and
// environment variables apply; a named file that does not exist is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Database = v
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host must not be empty")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database port %d out of range", c.Database.Port)
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name must not be empty")
	}
	if c.Seeder.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.Seeder.BatchSize)
	}
	return nil
}
