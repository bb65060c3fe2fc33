package form

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/rules"
)

// Policy decides what happens when a field is validated again while an
// earlier validation of the same field is still running.
type Policy int

const (
	// PolicyLastCompleted lets every validation finish; whichever completes
	// last writes the field's errors.
	PolicyLastCompleted Policy = iota
	// PolicyLatestDispatched cancels the earlier validation and ignores any
	// result that is not from the most recent event on the field.
	PolicyLatestDispatched
)

func (p Policy) String() string {
	switch p {
	case PolicyLastCompleted:
		return "last-completed"
	case PolicyLatestDispatched:
		return "latest-dispatched"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "last-completed":
		return PolicyLastCompleted, nil
	case "latest-dispatched":
		return PolicyLatestDispatched, nil
	}
	return PolicyLastCompleted, fmt.Errorf("%w: unknown policy %q", ErrInvalidOption, s)
}

// Admission decides how events naming fields outside the initial state are
// handled.
type Admission int

const (
	// AdmitClosed rejects unknown fields with ErrUnknownField.
	AdmitClosed Admission = iota
	// AdmitOpen adds unknown fields to the state on their first event.
	AdmitOpen
)

func (a Admission) String() string {
	switch a {
	case AdmitClosed:
		return "reject"
	case AdmitOpen:
		return "admit"
	}
	return fmt.Sprintf("Admission(%d)", int(a))
}

func ParseAdmission(s string) (Admission, error) {
	switch s {
	case "", "reject":
		return AdmitClosed, nil
	case "admit":
		return AdmitOpen, nil
	}
	return AdmitClosed, fmt.Errorf("%w: unknown admission %q", ErrInvalidOption, s)
}

// Config holds the controller settings read from the environment.
type Config struct {
	ValidationTimeout time.Duration `env:"FORM_VALIDATION_TIMEOUT" envDefault:"5s"`
	SupersedePolicy   string        `env:"FORM_SUPERSEDE_POLICY" envDefault:"last-completed"`
	UnknownFields     string        `env:"FORM_UNKNOWN_FIELDS" envDefault:"reject"`
	EventBuffer       int           `env:"FORM_EVENT_BUFFER" envDefault:"64"`
}

// LoadConfig reads Config from the environment.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const defaultEventBuffer = 64

// Option configures a Controller.
type Option func(*Controller) error

// WithFailure sets the callback invoked with per-field errors when submit
// validation fails. Without it such failures have no observable effect.
func WithFailure(fn func(map[string]rules.ValidationErrors)) Option {
	return func(c *Controller) error {
		c.onFailure = fn
		return nil
	}
}

// WithEngine replaces the default rules engine.
func WithEngine(e rules.Engine) Option {
	return func(c *Controller) error {
		if e == nil {
			return fmt.Errorf("%w: nil engine", ErrInvalidOption)
		}
		c.engine = e
		return nil
	}
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

func WithPolicy(p Policy) Option {
	return func(c *Controller) error {
		if p != PolicyLastCompleted && p != PolicyLatestDispatched {
			return fmt.Errorf("%w: unknown policy %d", ErrInvalidOption, int(p))
		}
		c.policy = p
		return nil
	}
}

func WithAdmission(a Admission) Option {
	return func(c *Controller) error {
		if a != AdmitClosed && a != AdmitOpen {
			return fmt.Errorf("%w: unknown admission %d", ErrInvalidOption, int(a))
		}
		c.admission = a
		return nil
	}
}

// WithValidationTimeout bounds every engine call. Zero disables the bound.
func WithValidationTimeout(d time.Duration) Option {
	return func(c *Controller) error {
		if d < 0 {
			return fmt.Errorf("%w: negative validation timeout", ErrInvalidOption)
		}
		c.timeout = d
		return nil
	}
}

// WithEventBuffer sets the capacity of the controller's command queue.
func WithEventBuffer(n int) Option {
	return func(c *Controller) error {
		if n < 0 {
			return fmt.Errorf("%w: negative event buffer", ErrInvalidOption)
		}
		c.buffer = n
		return nil
	}
}

// WithConfig applies every setting of cfg.
func WithConfig(cfg Config) Option {
	return func(c *Controller) error {
		policy, err := ParsePolicy(cfg.SupersedePolicy)
		if err != nil {
			return err
		}
		admission, err := ParseAdmission(cfg.UnknownFields)
		if err != nil {
			return err
		}
		for _, opt := range []Option{
			WithPolicy(policy),
			WithAdmission(admission),
			WithValidationTimeout(cfg.ValidationTimeout),
			WithEventBuffer(cfg.EventBuffer),
		} {
			if err := opt(c); err != nil {
				return err
			}
		}
		return nil
	}
}
