package formstar_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formstar"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func simpleFactory(created *atomic.Int32) formstar.Factory {
	return func(context.Context, string) (*form.Controller, error) {
		if created != nil {
			created.Add(1)
		}
		return form.New(form.State{"name": ""}, nil, func(form.State) {}, form.WithLogger(logger.Discard()))
	}
}

func TestNewRegistry_NilFactory(t *testing.T) {
	t.Parallel()

	reg, err := formstar.NewRegistry(nil)
	assert.ErrorIs(t, err, formstar.ErrNilFactory)
	assert.Nil(t, reg)
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	reg, err := formstar.NewRegistry(simpleFactory(&created), formstar.WithRegistryLogger(logger.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	ctx := context.Background()
	a1, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	a2, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, int32(2), created.Load())
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Same(t, a1, got)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	_, err = reg.Get(ctx, "")
	assert.ErrorIs(t, err, formstar.ErrNoSession)
}

func TestRegistry_FactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reg, err := formstar.NewRegistry(func(context.Context, string) (*form.Controller, error) {
		return nil, boom
	}, formstar.WithRegistryLogger(logger.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	_, err = reg.Get(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_DeleteIdle(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	reg, err := formstar.NewRegistry(simpleFactory(nil),
		formstar.WithIdleTTL(time.Minute),
		formstar.WithClock(clock.Now),
		formstar.WithRegistryLogger(logger.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	ctx := context.Background()
	stale, err := reg.Get(ctx, "stale")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "fresh")
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	reg.Touch("fresh")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, reg.DeleteIdle())
	_, ok := reg.Lookup("stale")
	assert.False(t, ok)
	_, ok = reg.Lookup("fresh")
	assert.True(t, ok)

	assert.ErrorIs(t, stale.Dispatch(ctx, form.Change("name", "x")), form.ErrClosed)
}

func TestRegistry_CleanupLoop(t *testing.T) {
	t.Parallel()

	reg, err := formstar.NewRegistry(simpleFactory(nil),
		formstar.WithIdleTTL(time.Millisecond),
		formstar.WithCleanupInterval(5*time.Millisecond),
		formstar.WithRegistryLogger(logger.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	_, err = reg.Get(context.Background(), "a")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return reg.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestRegistry_RemoveAndClose(t *testing.T) {
	t.Parallel()

	reg, err := formstar.NewRegistry(simpleFactory(nil), formstar.WithRegistryLogger(logger.Discard()))
	require.NoError(t, err)

	ctx := context.Background()
	a, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	var rest []*form.Controller
	for _, id := range []string{"b", "c", "d"} {
		ctrl, err := reg.Get(ctx, id)
		require.NoError(t, err)
		rest = append(rest, ctrl)
	}

	reg.Remove("a")
	assert.ErrorIs(t, a.Dispatch(ctx, form.Change("name", "x")), form.ErrClosed)
	assert.Equal(t, 3, reg.Len())

	require.NoError(t, reg.Close())
	require.NoError(t, reg.Close())
	for _, ctrl := range rest {
		assert.ErrorIs(t, ctrl.Dispatch(ctx, form.Change("name", "x")), form.ErrClosed)
	}

	_, err = reg.Get(ctx, "e")
	assert.ErrorIs(t, err, formstar.ErrRegistryClosed)
}
