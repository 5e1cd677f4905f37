package wrapper

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/vault-relay/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// Converter converts a raw config value into its typed form
type Converter[T any] func(raw interface{}) (T, error)

// ValueConfig is a utility wrapper that types a config.Config, falling back
// to a default when no value is set.
type ValueConfig[T any] struct {
	override     config.Config
	defaultValue T
	convert      Converter[T]

	stateMu   sync.RWMutex
	lastValue T
}

// NewValueConfig returns a new typed config utility wrapper
func NewValueConfig[T any](override config.Config, defaultValue T, convert Converter[T]) *ValueConfig[T] {
	return &ValueConfig[T]{
		override:     override,
		defaultValue: defaultValue,
		convert:      convert,
		lastValue:    defaultValue,
	}
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *ValueConfig[T]) GetSafe(ctx context.Context) (T, error) {
	override, err := c.override.Get(ctx)

	c.stateMu.RLock()
	lastValue := c.lastValue
	c.stateMu.RUnlock()

	if err == config.ErrNoValue {
		c.setLastValue(c.defaultValue)
		return c.defaultValue, nil
	} else if err != nil {
		return lastValue, err
	}

	newValue, err := c.convert(override)
	if err != nil {
		return lastValue, err
	}

	c.setLastValue(newValue)
	return newValue, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *ValueConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *ValueConfig[T]) Shutdown() {
	c.override.Shutdown()
}

func (c *ValueConfig[T]) setLastValue(value T) {
	c.stateMu.Lock()
	c.lastValue = value
	c.stateMu.Unlock()
}

// NewBoolConfig returns a new bool config utility wrapper
func NewBoolConfig(override config.Config, defaultValue bool) config.Bool {
	return NewValueConfig(override, defaultValue, ConvertBool)
}

// NewInt64Config returns a new int64 config utility wrapper
func NewInt64Config(override config.Config, defaultValue int64) config.Int64 {
	return NewValueConfig(override, defaultValue, ConvertInt64)
}

// NewUint64Config returns a new uint64 config utility wrapper
func NewUint64Config(override config.Config, defaultValue uint64) config.Uint64 {
	return NewValueConfig(override, defaultValue, ConvertUint64)
}

// NewStringConfig returns a new string config utility wrapper
func NewStringConfig(override config.Config, defaultValue string) config.String {
	return NewValueConfig(override, defaultValue, ConvertString)
}

func ConvertBool(raw interface{}) (bool, error) {
	switch raw := raw.(type) {
	case []byte:
		return strconv.ParseBool(string(raw))
	case bool:
		return raw, nil
	}
	return false, ErrUnsuportedConversion
}

func ConvertInt64(raw interface{}) (int64, error) {
	switch raw := raw.(type) {
	case []byte:
		return strconv.ParseInt(string(raw), 10, 64)
	case int64:
		return raw, nil
	case int:
		return int64(raw), nil
	}
	return 0, ErrUnsuportedConversion
}

func ConvertUint64(raw interface{}) (uint64, error) {
	switch raw := raw.(type) {
	case []byte:
		return strconv.ParseUint(string(raw), 10, 64)
	case uint64:
		return raw, nil
	case int:
		if raw < 0 {
			return 0, ErrUnsuportedConversion
		}
		return uint64(raw), nil
	}
	return 0, ErrUnsuportedConversion
}

func ConvertString(raw interface{}) (string, error) {
	switch raw := raw.(type) {
	case []byte:
		return string(raw), nil
	case string:
		return raw, nil
	}
	return "", ErrUnsuportedConversion
}
