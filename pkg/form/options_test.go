package form_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := form.ParsePolicy("latest-dispatched")
	require.NoError(t, err)
	assert.Equal(t, form.PolicyLatestDispatched, p)
	assert.Equal(t, "latest-dispatched", p.String())

	p, err = form.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, form.PolicyLastCompleted, p)

	_, err = form.ParsePolicy("newest")
	assert.ErrorIs(t, err, form.ErrInvalidOption)
}

func TestParseAdmission(t *testing.T) {
	t.Parallel()

	a, err := form.ParseAdmission("admit")
	require.NoError(t, err)
	assert.Equal(t, form.AdmitOpen, a)
	assert.Equal(t, "admit", a.String())

	_, err = form.ParseAdmission("maybe")
	assert.ErrorIs(t, err, form.ErrInvalidOption)
}

func TestParseEventKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"blur", "change", "submit"} {
		k, err := form.ParseEventKind(s)
		require.NoError(t, err)
		assert.Equal(t, form.EventKind(s), k)
	}

	_, err := form.ParseEventKind("input")
	assert.ErrorIs(t, err, form.ErrUnknownEvent)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := form.LoadConfig(config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, form.Config{
			ValidationTimeout: 5 * time.Second,
			SupersedePolicy:   "last-completed",
			UnknownFields:     "reject",
			EventBuffer:       64,
		}, cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		cfg, err := form.LoadConfig(config.WithEnvironment(map[string]string{
			"FORM_VALIDATION_TIMEOUT": "250ms",
			"FORM_SUPERSEDE_POLICY":   "latest-dispatched",
			"FORM_UNKNOWN_FIELDS":     "admit",
			"FORM_EVENT_BUFFER":       "0",
		}))
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, cfg.ValidationTimeout)
		assert.Equal(t, "latest-dispatched", cfg.SupersedePolicy)
		assert.Equal(t, 0, cfg.EventBuffer)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()
		_, err := form.LoadConfig(config.WithEnvironment(map[string]string{
			"FORM_VALIDATION_TIMEOUT": "soon",
		}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("applies settings", func(t *testing.T) {
		t.Parallel()
		c := newController(t, form.State{"a": ""}, rules.RuleSet{"b": {rules.Required()}}, nil,
			form.WithConfig(form.Config{
				SupersedePolicy: "latest-dispatched",
				UnknownFields:   "admit",
				EventBuffer:     0,
			}),
		)
		require.NoError(t, c.Dispatch(context.Background(), form.Change("b", "x")))
		waitIdle(t, c)
		assert.Equal(t, []string{"a", "b"}, c.Models().Names())
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		t.Parallel()
		_, err := form.New(form.State{"a": ""}, nil, func(form.State) {},
			form.WithConfig(form.Config{SupersedePolicy: "random"}))
		assert.ErrorIs(t, err, form.ErrInvalidOption)
	})
}
