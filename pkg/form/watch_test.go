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

func receive(t *testing.T, ch <-chan form.ModelMap) form.ModelMap {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
		return form.ModelMap{}
	}
}

func TestWatch_InitialAndUpdates(t *testing.T) {
	t.Parallel()

	c := newController(t, form.State{"name": ""}, rules.RuleSet{"name": {rules.Required().On(rules.TargetBlur)}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := c.Watch(ctx)
	first := receive(t, ch)
	assert.Equal(t, c.Models().Version(), first.Version())

	require.NoError(t, c.Dispatch(ctx, form.Blur("name", "")))
	waitIdle(t, c)

	// Only the newest snapshot is kept for a reader that fell behind.
	latest := receive(t, ch)
	assert.Equal(t, c.Models().Version(), latest.Version())
	assert.True(t, latest.Field("name").HasErrors())

	select {
	case m := <-ch:
		t.Fatalf("unexpected extra snapshot %d", m.Version())
	default:
	}
}

func TestWatch_ContextCancelClosesChannel(t *testing.T) {
	t.Parallel()

	c := newController(t, form.State{"name": ""}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch := c.Watch(ctx)
	receive(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWatch_CloseClosesChannel(t *testing.T) {
	t.Parallel()

	c, err := form.New(form.State{"name": ""}, nil, func(form.State) {})
	require.NoError(t, err)

	ch := c.Watch(context.Background())
	receive(t, ch)
	require.NoError(t, c.Close())

	_, ok := <-ch
	assert.False(t, ok)

	late := c.Watch(context.Background())
	_, ok = <-late
	assert.False(t, ok)
}

func TestWatch_SnapshotsAreImmutable(t *testing.T) {
	t.Parallel()

	c := newController(t, form.State{"name": "a"}, nil, nil)
	before := c.Models()

	require.NoError(t, c.Dispatch(context.Background(), form.Change("name", "b")))

	assert.Equal(t, "a", before.Field("name").Value)
	assert.Equal(t, "b", c.Models().Field("name").Value)
	assert.Equal(t, before.Version()+1, c.Models().Version())

	values := c.State()
	values["name"] = "mutated"
	assert.Equal(t, "b", c.State()["name"])
}
