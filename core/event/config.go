package event

import (
	"fmt"

	"github.com/dmitrymomot/eventkit/core/config"
)

// Config holds environment-driven dispatcher settings.
type Config struct {
	// ParallelWorkers bounds the parallel dispatcher's fan-out. Zero means one
	// goroutine per listener.
	ParallelWorkers int `env:"EVENT_PARALLEL_WORKERS" envDefault:"0"`

	// Name is attached to log records as the component name.
	Name string `env:"EVENT_DISPATCHER_NAME"`
}

// LoadConfig reads Config from the environment (and a .env file, if present).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return cfg, nil
}

// Options converts the configuration into dispatcher options.
func (c Config) Options() []Option {
	return []Option{WithName(c.Name)}
}
