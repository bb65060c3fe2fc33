package formstar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Factory builds the controller for a new session.
type Factory func(ctx context.Context, sessionID string) (*form.Controller, error)

// Registry holds one controller per session. Sessions not used for the idle
// TTL are closed by a background sweep.
type Registry struct {
	factory Factory
	ttl     time.Duration
	log     *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	closed   bool

	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

type entry struct {
	ctrl     *form.Controller
	lastSeen time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTTL sets how long an unused session is kept. Zero keeps sessions
// until the registry is closed.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = d }
}

// WithCleanupInterval starts a background sweep of idle sessions.
func WithCleanupInterval(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.ticker = time.NewTicker(d)
		}
	}
}

func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(factory Factory, opts ...RegistryOption) (*Registry, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	r := &Registry{
		factory:  factory,
		ttl:      defaultIdleTTL,
		log:      slog.Default(),
		now:      time.Now,
		sessions: make(map[string]*entry),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("formstar.registry"))

	if r.ticker != nil {
		r.wg.Add(1)
		go r.cleanupLoop()
	}
	return r, nil
}

// Get returns the controller of the session, creating it on first use.
func (r *Registry) Get(ctx context.Context, sessionID string) (*form.Controller, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if e, ok := r.sessions[sessionID]; ok {
		e.lastSeen = r.now()
		return e.ctrl, nil
	}

	ctrl, err := r.factory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	r.sessions[sessionID] = &entry{ctrl: ctrl, lastSeen: r.now()}
	r.log.DebugContext(ctx, "session started",
		logger.SessionID(sessionID),
		logger.FormID(ctrl.ID()),
	)
	return ctrl, nil
}

// Lookup returns the controller of an existing session without creating one.
func (r *Registry) Lookup(sessionID string) (*form.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return e.ctrl, true
}

// Touch marks the session as used.
func (r *Registry) Touch(sessionID string) {
	r.mu.Lock()
	if e, ok := r.sessions[sessionID]; ok {
		e.lastSeen = r.now()
	}
	r.mu.Unlock()
}

// Remove closes and forgets the session.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	if ok {
		_ = e.ctrl.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// DeleteIdle closes every session unused for longer than the idle TTL and
// returns how many were removed.
func (r *Registry) DeleteIdle() int {
	if r.ttl <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.ttl)
	var expired []*form.Controller

	r.mu.Lock()
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	if err := closeAll(expired); err != nil {
		r.log.Warn("idle session not closed", logger.Error(err))
	}
	if len(expired) > 0 {
		r.log.Debug("idle sessions closed", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Close stops the sweep and closes every controller.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	if r.ticker != nil {
		r.ticker.Stop()
		close(r.done)
		r.wg.Wait()
	}

	ctrls := make([]*form.Controller, 0, len(sessions))
	for _, e := range sessions {
		ctrls = append(ctrls, e.ctrl)
	}
	return closeAll(ctrls)
}

// closeAll closes the controllers concurrently, each waiting for its own
// in-flight validations.
func closeAll(ctrls []*form.Controller) error {
	futures := make([]*async.Future[struct{}], len(ctrls))
	for i, ctrl := range ctrls {
		futures[i] = async.Go(context.Background(), func(context.Context) (struct{}, error) {
			return struct{}{}, ctrl.Close()
		})
	}
	_, err := async.WaitAll(context.Background(), futures...)
	return err
}

func (r *Registry) cleanupLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ticker.C:
			r.DeleteIdle()
		case <-r.done:
			return
		}
	}
}
