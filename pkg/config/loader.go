package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Option tunes a single Load call.
type Option func(*options)

type options struct {
	prefix  string
	files   []string
	environ map[string]string
	skipDot bool
}

// WithPrefix requires every variable to start with prefix, so FORM_ with a
// tag `env:"TIMEOUT"` reads FORM_TIMEOUT.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles loads the given dotenv files before parsing. Variables already
// set in the process environment win.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.files = append(o.files, paths...) }
}

// WithEnvironment parses from m instead of the process environment.
// The default .env file is not read.
func WithEnvironment(m map[string]string) Option {
	return func(o *options) {
		o.environ = m
		o.skipDot = true
	}
}

// Load parses environment variables into v using `env` and `envDefault`
// struct tags. The .env file in the working directory is loaded once per
// process when present.
//
// Example:
//
//	type Config struct {
//		Addr    string        `env:"ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("FORMDEMO_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if !o.skipDot {
		defaultEnvLoaded.Do(func() {
			// A missing .env file is fine.
			_ = godotenv.Load()
		})
	}
	if len(o.files) > 0 {
		if err := godotenv.Load(o.files...); err != nil {
			return errors.Join(ErrEnvFile, err)
		}
	}

	envOpts := env.Options{Prefix: o.prefix}
	if o.environ != nil {
		envOpts.Environment = o.environ
	}

	if err := env.ParseWithOptions(v, envOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load for configuration the program cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
