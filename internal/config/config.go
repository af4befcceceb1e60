package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env     string `env:"ENV" env-default:"local"`
	API     APIConfig
	HTTP    HTTPConfig
	Session SessionConfig
	Notify  NotifyConfig
}

// APIConfig points at the remote field operations backend.
type APIConfig struct {
	BaseURL        string        `env:"API_BASE_URL" env-default:"http://localhost:8080/api"`
	RequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" env-default:"15s"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8090"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET" env-required:"true"`
	TTL          time.Duration `env:"SESSION_TTL" env-default:"12h"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" env-default:"false"`
}

type NotifyConfig struct {
	TTL time.Duration `env:"NOTIFY_TTL" env-default:"3s"`
}

// ClientConfig is the subset the command line client reads.
type ClientConfig struct {
	Env         string `env:"ENV" env-default:"local"`
	API         APIConfig
	SessionPath string `env:"FIELDOPS_SESSION_PATH"`
}
