package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

type Reader interface {
	Read() (*Config, error)
	ReadClient() (*ClientConfig, error)
}

// EnvReader reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

var ErrEmptySecret = errors.New("SESSION_SECRET must not be blank")

// Read returns the console server configuration.
func (EnvReader) Read() (*Config, error) {
	cfg, err := readEnv[Config]("server")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Session.Secret) == "" {
		return nil, ErrEmptySecret
	}
	return cfg, nil
}

// ReadClient returns the fieldctl configuration.
func (EnvReader) ReadClient() (*ClientConfig, error) {
	return readEnv[ClientConfig]("client")
}

func readEnv[T any](name string) (*T, error) {
	cfg := new(T)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s config: %w", name, err)
	}
	return cfg, nil
}
