package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParse is returned when environment variables cannot be parsed into a config struct.
var ErrParse = errors.New("failed to parse config from environment")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (value of the config struct)
	loadMu     sync.Mutex
)

// Load populates cfg from environment variables using `env` struct tags.
// The result is cached per type: subsequent calls with the same type copy the cached
// value without reading the environment again.
func Load[T any](cfg *T) error {
	typ := reflect.TypeFor[T]()

	if v, ok := cache.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	// Another goroutine may have filled the cache while we waited.
	if v, ok := cache.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	cache.Store(typ, loaded)
	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on failure. Intended for application startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
