// Package config loads application configuration from environment variables
// into tagged structs.
//
// It wraps `github.com/caarlos0/env/v11` for parsing and
// `github.com/joho/godotenv` for dotenv files:
//
//   - The `.env` file in the working directory is loaded once per process
//     when present.
//   - WithEnvFiles loads additional dotenv files for one call.
//   - WithPrefix namespaces the variables of a struct.
//   - WithEnvironment parses from an explicit map, which keeps tests
//     independent of the process environment.
//
// # Usage
//
//	type Config struct {
//	    Addr    string        `env:"ADDR" envDefault:":8080"`
//	    Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg, config.WithPrefix("FORMDEMO_"))
//
// # Error Handling
//
// Errors wrap ErrParsingConfig, ErrEnvFile or ErrNilPointer and can be
// matched with errors.Is.
package config
