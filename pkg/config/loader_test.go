package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/config"
)

type testConfig struct {
	Name    string        `env:"NAME" envDefault:"default"`
	Count   int           `env:"COUNT" envDefault:"1"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"2s"`
}

type requiredConfig struct {
	Secret string `env:"SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))
	assert.Equal(t, testConfig{Name: "default", Count: 1, Timeout: 2 * time.Second}, cfg)
}

func TestLoad_EnvironmentWithPrefix(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	err := config.Load(&cfg,
		config.WithPrefix("APP_"),
		config.WithEnvironment(map[string]string{
			"APP_NAME":    "signup",
			"APP_TIMEOUT": "150ms",
			"NAME":        "ignored",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "signup", cfg.Name)
	assert.Equal(t, 150*time.Millisecond, cfg.Timeout)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("PROC_NAME", "from-env")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg, config.WithPrefix("PROC_")))
	assert.Equal(t, "from-env", cfg.Name)
}

func TestLoad_EnvFiles(t *testing.T) {
	var cfg testConfig
	err := config.Load(&cfg, config.WithPrefix("FORMKIT_TEST_"), config.WithEnvFiles("testdata/.env.test"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 3, cfg.Count)

	err = config.Load(&cfg, config.WithEnvFiles("testdata/missing.env"))
	assert.ErrorIs(t, err, config.ErrEnvFile)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	var missing requiredConfig
	err := config.Load(&missing, config.WithEnvironment(map[string]string{}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	var bad testConfig
	err = config.Load(&bad, config.WithEnvironment(map[string]string{"COUNT": "many"}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.ErrorIs(t, config.Load[testConfig](nil), config.ErrNilPointer)
	assert.Panics(t, func() { config.MustLoad(&missing, config.WithEnvironment(map[string]string{})) })
}
