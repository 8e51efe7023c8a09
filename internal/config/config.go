package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel       string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	ServerURL      string        `yaml:"server-url" env:"SERVER_URL" env-default:"http://localhost:8080"`
	RequestTimeout time.Duration `yaml:"request-timeout" env:"REQUEST_TIMEOUT" env-default:"10s"`
	PollInterval   time.Duration `yaml:"poll-interval" env:"POLL_INTERVAL" env-default:"0s"`
	HTTPPort       string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Board          Board         `yaml:"board"`
	Redis          Redis         `yaml:"redis"`
}

type Board struct {
	Rows    int `yaml:"rows" env:"BOARD_ROWS" env-default:"6"`
	Columns int `yaml:"columns" env:"BOARD_COLUMNS" env-default:"7"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Load reads the config file at path with environment overrides. Without a file only the
// environment and the defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	case err == nil:
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
