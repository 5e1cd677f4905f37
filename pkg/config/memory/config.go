package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/code-payments/vault-relay/pkg/config"
)

var errDeveloperInduced = errors.New("in memory config: developer induced error")

// Config is an in memory config.Config used for testing and for manual
// overrides of env based configs.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a new in memory config. A nil value indicates no value
// is set.
func NewConfig(value interface{}) *Config {
	return &Config{
		value: value,
	}
}

// Get implements Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements Config.Shutdown
func (c *Config) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
}

// SetValue sets the value that should be returned on subsequent Get calls
func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// ClearValue results in config.ErrNoValue being returned on subsequent Get
// calls
func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// InduceErrors simulates an error getting the config value
func (c *Config) InduceErrors() {
	c.setErr(errDeveloperInduced)
}

// StopInducingErrors stops simulating errors getting the config value
func (c *Config) StopInducingErrors() {
	c.setErr(nil)
}

func (c *Config) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}
