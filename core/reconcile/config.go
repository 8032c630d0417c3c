package reconcile

import "time"

// Config holds reconciliation settings.
type Config struct {
	// Timeout bounds every adapter read during a merge.
	Timeout time.Duration `mapstructure:"timeout" default:"3s"`
	// WriteTimeout bounds every adapter write (registration, convergence, reset).
	WriteTimeout time.Duration `mapstructure:"write_timeout" default:"5s"`
	// Converge enables pushing the largest collection to weaker stores after a merge.
	Converge bool `mapstructure:"converge" default:"true"`
}
