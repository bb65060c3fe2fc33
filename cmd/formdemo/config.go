package main

import (
	"time"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formstar"
)

const envPrefix = "FORMDEMO_"

// Config is read from FORMDEMO_* variables; nested structs share the prefix,
// so the form timeout is FORMDEMO_FORM_VALIDATION_TIMEOUT.
type Config struct {
	Env       string `env:"ENV" envDefault:"development"`
	Service   string `env:"SERVICE" envDefault:"formdemo"`
	LogLevel  string `env:"LOG_LEVEL"`
	RulesFile string `env:"RULES_FILE"`
	// BcryptCost hashes accepted signup passwords.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	HTTP ServerConfig
	Form form.Config
	Star formstar.Config
}

// ServerConfig has no write timeout: the stream endpoint holds its response
// open for the life of the page.
type ServerConfig struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func loadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{config.WithPrefix(envPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
