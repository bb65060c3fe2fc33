package form_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

// gatedEngine holds validations of the listed values until their gate is
// closed. Other values are validated immediately.
func gatedEngine(honorCtx bool, gates map[any]chan struct{}) rules.Engine {
	return rules.EngineFunc(func(ctx context.Context, set rules.RuleSet, src rules.Source) error {
		for _, v := range src {
			gate, ok := gates[v]
			if !ok {
				continue
			}
			if honorCtx {
				select {
				case <-gate:
				case <-ctx.Done():
					return ctx.Err()
				}
			} else {
				<-gate
			}
		}
		return rules.New().Validate(ctx, set, src)
	})
}

var emailRules = rules.RuleSet{"email": {rules.Required(), rules.Email()}}

func TestPolicy_LastCompletedWins(t *testing.T) {
	t.Parallel()

	slow := make(chan struct{})
	c := newController(t, form.State{"email": "x"}, emailRules, nil,
		form.WithEngine(gatedEngine(false, map[any]chan struct{}{"": slow})),
	)
	ctx := context.Background()

	require.NoError(t, c.Dispatch(ctx, form.Blur("email", "")))
	require.NoError(t, c.Dispatch(ctx, form.Blur("email", "ok@example.com")))

	require.Eventually(t, func() bool {
		return c.Errors().Has("email")
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, c.Errors().Get("email"), "the later event completed first")

	close(slow)
	waitIdle(t, c)

	// The earlier event completed last, so its errors stand even though the
	// value is the later one.
	assert.Equal(t, "ok@example.com", c.State()["email"])
	assert.Equal(t, []string{"field is required"}, c.Errors().Get("email").Messages())
}

func TestPolicy_LatestDispatched(t *testing.T) {
	t.Parallel()

	t.Run("earlier validation is cancelled", func(t *testing.T) {
		t.Parallel()

		slow := make(chan struct{})
		defer close(slow)
		c := newController(t, form.State{"email": "x"}, emailRules, nil,
			form.WithEngine(gatedEngine(true, map[any]chan struct{}{"": slow})),
			form.WithPolicy(form.PolicyLatestDispatched),
		)
		ctx := context.Background()

		require.NoError(t, c.Dispatch(ctx, form.Blur("email", "")))
		require.NoError(t, c.Dispatch(ctx, form.Blur("email", "ok@example.com")))
		waitIdle(t, c)

		errs, ok := c.Errors().Lookup("email")
		require.True(t, ok)
		assert.Empty(t, errs)
	})

	t.Run("stale result is discarded", func(t *testing.T) {
		t.Parallel()

		slow := make(chan struct{})
		c := newController(t, form.State{"email": "x"}, emailRules, nil,
			form.WithEngine(gatedEngine(false, map[any]chan struct{}{"": slow})),
			form.WithPolicy(form.PolicyLatestDispatched),
		)
		ctx := context.Background()

		require.NoError(t, c.Dispatch(ctx, form.Blur("email", "")))
		require.NoError(t, c.Dispatch(ctx, form.Blur("email", "ok@example.com")))
		require.Eventually(t, func() bool {
			return c.Errors().Has("email")
		}, 2*time.Second, 5*time.Millisecond)
		version := c.Models().Version()

		close(slow)
		waitIdle(t, c)

		assert.Empty(t, c.Errors().Get("email"))
		assert.Equal(t, version, c.Models().Version())
	})

	t.Run("other fields are independent", func(t *testing.T) {
		t.Parallel()

		slow := make(chan struct{})
		c := newController(t,
			form.State{"email": "x", "backup": "y"},
			rules.RuleSet{"email": {rules.Required()}, "backup": {rules.Required()}},
			nil,
			form.WithEngine(gatedEngine(false, map[any]chan struct{}{"": slow})),
			form.WithPolicy(form.PolicyLatestDispatched),
		)
		ctx := context.Background()

		require.NoError(t, c.Dispatch(ctx, form.Blur("email", "")))
		require.NoError(t, c.Dispatch(ctx, form.Blur("backup", "z")))
		close(slow)
		waitIdle(t, c)

		assert.False(t, c.Errors().Get("email").IsEmpty())
		assert.Empty(t, c.Errors().Get("backup"))
	})
}

func TestPolicy_ValidationTimeout(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	defer close(blocked)
	c := newController(t, form.State{"email": "x"}, emailRules, nil,
		form.WithEngine(gatedEngine(true, map[any]chan struct{}{"": blocked})),
		form.WithValidationTimeout(20*time.Millisecond),
	)

	require.NoError(t, c.Dispatch(context.Background(), form.Blur("email", "")))
	waitIdle(t, c)

	assert.Equal(t, "", c.State()["email"])
	assert.False(t, c.Errors().Has("email"), "a timed out validation leaves ErrorState untouched")
}
