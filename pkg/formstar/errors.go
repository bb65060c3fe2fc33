package formstar

import "errors"

var (
	// ErrRegistryClosed is returned when a session is requested from a closed registry.
	ErrRegistryClosed = errors.New("formstar: registry is closed")
	// ErrNoSession is returned when a request carries no session.
	ErrNoSession = errors.New("formstar: no session")
	// ErrInvalidSignals is returned when the request signals cannot be decoded.
	ErrInvalidSignals = errors.New("formstar: invalid signals")
	// ErrNilFactory is returned by NewRegistry for a nil factory.
	ErrNilFactory = errors.New("formstar: controller factory is required")
)
