package form

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

// SubmitResult is the outcome of a submit validation.
type SubmitResult struct {
	// OK is true when every rule passed.
	OK bool
	// State is the FormState that was validated.
	State State
	// Errors holds the per-field errors when OK is false.
	Errors map[string]rules.ValidationErrors
}

// Controller owns one FormState/ErrorState pair. All state changes happen on
// a single loop goroutine; validations run on their own goroutines and report
// back to that loop.
type Controller struct {
	id        string
	rules     rules.RuleSet
	fields    map[string]struct{}
	engine    rules.Engine
	onSuccess func(State)
	onFailure func(map[string]rules.ValidationErrors)
	log       *slog.Logger
	policy    Policy
	admission Admission
	timeout   time.Duration
	buffer    int

	cmds      chan command
	ctx       context.Context
	cancel    context.CancelFunc
	loopDone  chan struct{}
	workers   sync.WaitGroup
	closeOnce sync.Once

	current  atomic.Pointer[ModelMap]
	watchers *watchers

	// Owned by the loop goroutine.
	state    State
	errs     ErrorState
	version  uint64
	seq      map[string]uint64
	inflight map[string]context.CancelFunc
	pending  int
	idle     []chan struct{}
}

type command any

type dispatchCmd struct {
	event Event
	ack   chan error
}

type submitCmd struct {
	reply chan *async.Future[SubmitResult]
}

type waitCmd struct {
	done chan struct{}
}

type completion struct {
	field  string
	seq    uint64
	errs   rules.ValidationErrors
	err    error
	submit bool
}

// New starts a controller for initial, validating with set. onSuccess is
// called with the validated FormState after a successful submit.
//
// Models and Submit are the two handles exposed to the host: the current
// model map and the zero-argument submit trigger.
func New(initial State, set rules.RuleSet, onSuccess func(State), opts ...Option) (*Controller, error) {
	if len(initial) == 0 {
		return nil, ErrEmptyState
	}
	if onSuccess == nil {
		return nil, ErrNilCallback
	}

	c := &Controller{
		id:        uuid.NewString(),
		rules:     set.Clone(),
		engine:    rules.New(),
		onSuccess: onSuccess,
		log:       slog.Default(),
		buffer:    defaultEventBuffer,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.rules.Validate(); err != nil {
		return nil, err
	}

	c.fields = make(map[string]struct{}, len(initial))
	for name := range initial {
		c.fields[name] = struct{}{}
	}
	if c.admission == AdmitClosed {
		for _, name := range c.rules.Fields() {
			if _, ok := c.fields[name]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrRuleWithoutField, name)
			}
		}
	}

	c.log = c.log.With(logger.FormID(c.id))
	c.state = initial.Clone()
	c.seq = make(map[string]uint64)
	c.inflight = make(map[string]context.CancelFunc)
	c.cmds = make(chan command, c.buffer)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.loopDone = make(chan struct{})
	c.watchers = newWatchers()

	c.publish()
	go c.run()

	return c, nil
}

// ID identifies the controller in logs.
func (c *Controller) ID() string {
	return c.id
}

// Models returns the latest model map.
func (c *Controller) Models() ModelMap {
	return *c.current.Load()
}

// State returns a copy of the current FormState.
func (c *Controller) State() State {
	return c.Models().Values()
}

// Errors returns the current ErrorState snapshot.
func (c *Controller) Errors() ErrorState {
	return c.Models().ErrorState()
}

// Watch returns a channel receiving the current model map and then every new
// one. Unread snapshots are replaced by newer ones. The channel is closed when
// ctx is done or the controller is closed.
func (c *Controller) Watch(ctx context.Context) <-chan ModelMap {
	return c.watchers.subscribe(ctx)
}

// Dispatch processes one event. For blur and change the FormState update is
// visible through Models once Dispatch returns; validation, when a rule
// applies, completes later. A submit event behaves like Submit.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventSubmit:
		_, err := c.startSubmit(ctx)
		return err
	case EventBlur, EventChange:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	if c.admission == AdmitClosed {
		if _, ok := c.fields[ev.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, ev.Name)
		}
	} else if ev.Name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownField)
	}

	ack := make(chan error, 1)
	if err := c.send(ctx, dispatchCmd{event: ev, ack: ack}); err != nil {
		return err
	}
	select {
	case err := <-ack:
		return err
	case <-c.loopDone:
		return ErrClosed
	}
}

// Submit validates the whole FormState against every rule, ignoring rule
// targets, and reports through the success or failure callback. It does not
// wait for the result and does not change FormState or ErrorState.
func (c *Controller) Submit() {
	if _, err := c.startSubmit(context.Background()); err != nil {
		c.log.Debug("submit ignored", logger.Error(err))
	}
}

// SubmitResult starts a submit like Submit and also returns its outcome.
// Callbacks have returned by the time the Future completes. The Future fails with
// ErrClosed on a closed controller, or with the engine error when validation
// could not complete.
func (c *Controller) SubmitResult(ctx context.Context) *async.Future[SubmitResult] {
	f, err := c.startSubmit(ctx)
	if err != nil {
		return async.Resolved(SubmitResult{}, err)
	}
	return f
}

// Wait blocks until no validation is in flight, including submit
// validations. Submit callbacks may still be running; await the
// SubmitResult future to wait for them.
func (c *Controller) Wait(ctx context.Context) error {
	done := make(chan struct{})
	if err := c.send(ctx, waitCmd{done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.loopDone:
		return ErrClosed
	}
}

// Close stops the controller, cancels running validations and waits for
// them. Watch channels are closed. Close is idempotent and does not wait for
// submit callbacks, so a callback may call it.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.loopDone
		c.workers.Wait()
		c.watchers.close()
	})
	return nil
}

func (c *Controller) send(ctx context.Context, cmd command) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case c.cmds <- cmd:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) startSubmit(ctx context.Context) (*async.Future[SubmitResult], error) {
	reply := make(chan *async.Future[SubmitResult], 1)
	if err := c.send(ctx, submitCmd{reply: reply}); err != nil {
		return nil, err
	}
	select {
	case f := <-reply:
		return f, nil
	case <-c.loopDone:
		return nil, ErrClosed
	}
}

func (c *Controller) run() {
	defer close(c.loopDone)

	for {
		select {
		case <-c.ctx.Done():
			return
		case cmd := <-c.cmds:
			switch cmd := cmd.(type) {
			case dispatchCmd:
				c.handleDispatch(cmd)
			case submitCmd:
				c.handleSubmit(cmd)
			case completion:
				c.handleCompletion(cmd)
			case waitCmd:
				if c.pending == 0 {
					close(cmd.done)
				} else {
					c.idle = append(c.idle, cmd.done)
				}
			}
		}
	}
}

func (c *Controller) handleDispatch(cmd dispatchCmd) {
	ev := cmd.event
	if _, ok := c.state[ev.Name]; !ok {
		c.log.Debug("field admitted", logger.Field(ev.Name))
	}

	next := c.state.Clone()
	next[ev.Name] = ev.Value
	c.state = next
	c.publish()
	cmd.ack <- nil

	matching := c.rules.Matching(ev.Name, ev.Kind.target())
	if len(matching) == 0 {
		c.log.Debug("no rule applies to event",
			logger.Field(ev.Name),
			logger.Event(string(ev.Kind)),
		)
		return
	}

	c.seq[ev.Name]++
	seq := c.seq[ev.Name]
	if c.policy == PolicyLatestDispatched {
		if cancel, ok := c.inflight[ev.Name]; ok {
			cancel()
		}
	}

	ctx, cancel := c.validationContext()
	if c.policy == PolicyLatestDispatched {
		c.inflight[ev.Name] = cancel
	}

	set := rules.RuleSet{ev.Name: matching}
	src := rules.Source{ev.Name: ev.Value}
	name := ev.Name

	c.log.Debug("validating field",
		logger.Field(name),
		logger.Event(string(ev.Kind)),
	)

	track(c, async.Go(ctx, func(ctx context.Context) (rules.ValidationErrors, error) {
		return c.validate(ctx, set, src)
	}), cancel, func(verrs rules.ValidationErrors, err error) completion {
		return completion{field: name, seq: seq, errs: verrs.For(name), err: err}
	})
}

func (c *Controller) handleSubmit(cmd submitCmd) {
	// The loop never mutates a published state map, so the snapshot can be
	// shared with the validation goroutine.
	snapshot := c.state
	set := c.rules
	ctx, cancel := c.validationContext()
	start := time.Now()

	validation := async.Go(ctx, func(ctx context.Context) (rules.ValidationErrors, error) {
		return c.validate(ctx, set, rules.Source(snapshot.Clone()))
	})
	track(c, validation, cancel, func(rules.ValidationErrors, error) completion {
		return completion{submit: true}
	})

	// Callbacks run outside the tracked work so they may call Wait or Close.
	cmd.reply <- async.Go(context.Background(), func(ctx context.Context) (SubmitResult, error) {
		verrs, err := validation.Await(ctx)
		if err != nil {
			c.log.Warn("submit validation did not complete", logger.Error(err))
			return SubmitResult{State: snapshot.Clone()}, err
		}

		if verrs.IsEmpty() {
			c.log.Debug("form submitted", logger.Duration(time.Since(start)))
			c.onSuccess(snapshot.Clone())
			return SubmitResult{OK: true, State: snapshot.Clone()}, nil
		}

		byField := verrs.ByField()
		c.log.Debug("form submit rejected",
			logger.ErrorCount(len(verrs)),
			logger.Duration(time.Since(start)),
		)
		if c.onFailure != nil {
			c.onFailure(byField)
		}
		return SubmitResult{State: snapshot.Clone(), Errors: byField}, nil
	})
}

// track registers f as in flight and reports its completion to the loop.
func track[U any](c *Controller, f *async.Future[U], cancel context.CancelFunc, done func(U, error) completion) {
	c.pending++
	c.workers.Add(1)
	f.Then(func(result U, err error) {
		defer c.workers.Done()
		cancel()
		select {
		case c.cmds <- done(result, err):
		case <-c.ctx.Done():
		}
	})
}

func (c *Controller) handleCompletion(cmp completion) {
	defer c.settle()

	if cmp.submit {
		return
	}

	if c.policy == PolicyLatestDispatched {
		if cmp.seq != c.seq[cmp.field] {
			c.log.Debug("superseded validation discarded", logger.Field(cmp.field))
			return
		}
		delete(c.inflight, cmp.field)
	}

	if cmp.err != nil {
		c.log.Warn("field validation did not complete",
			logger.Field(cmp.field),
			logger.Error(cmp.err),
		)
		return
	}

	c.errs = c.errs.with(cmp.field, cmp.errs)
	c.publish()
	c.log.Debug("field validated",
		logger.Field(cmp.field),
		logger.ErrorCount(len(cmp.errs)),
		logger.Version(c.version),
	)
}

func (c *Controller) settle() {
	c.pending--
	if c.pending > 0 {
		return
	}
	for _, ch := range c.idle {
		close(ch)
	}
	c.idle = nil
}

func (c *Controller) validationContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(c.ctx, c.timeout)
	}
	return context.WithCancel(c.ctx)
}

// validate separates rule failures from engine errors.
func (c *Controller) validate(ctx context.Context, set rules.RuleSet, src rules.Source) (rules.ValidationErrors, error) {
	err := c.engine.Validate(ctx, set, src)
	if err == nil {
		return rules.ValidationErrors{}, nil
	}
	if verrs := rules.ExtractValidationErrors(err); verrs != nil {
		return verrs, nil
	}
	return nil, err
}

func (c *Controller) publish() {
	c.version++
	m := newModelMap(c, c.version, c.state, c.errs)
	c.current.Store(&m)
	c.watchers.publish(m)
}
