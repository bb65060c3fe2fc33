package formstar

import "time"

// Config holds the host adapter settings read from the environment.
type Config struct {
	CookieName      string        `env:"FORMSTAR_COOKIE_NAME" envDefault:"formstar_session"`
	SecureCookie    bool          `env:"FORMSTAR_SECURE_COOKIE" envDefault:"false"`
	IdleTTL         time.Duration `env:"FORMSTAR_IDLE_TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"FORMSTAR_CLEANUP_INTERVAL" envDefault:"1m"`
	SubmitTimeout   time.Duration `env:"FORMSTAR_SUBMIT_TIMEOUT" envDefault:"10s"`
}

const (
	defaultCookieName    = "formstar_session"
	defaultIdleTTL       = 30 * time.Minute
	defaultSubmitTimeout = 10 * time.Second
)
