package env

import (
	"context"
	"os"
	"strings"

	"github.com/code-payments/vault-relay/pkg/config"
	"github.com/code-payments/vault-relay/pkg/config/wrapper"
)

type conf struct {
	key string
}

// NewConfig returns a config backed by the environment variable key, upper
// cased. The variable is looked up on every Get, and an empty value counts as
// unset.
func NewConfig(key string) config.Config {
	return &conf{
		key: strings.ToUpper(key),
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	val, ok := os.LookupEnv(c.key)
	if !ok || len(val) == 0 {
		return nil, config.ErrNoValue
	}
	return []byte(val), nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

func newValueConfig[T any](key string, defaultValue T, convert wrapper.Converter[T]) config.Value[T] {
	return wrapper.NewValueConfig(NewConfig(key), defaultValue, convert)
}

func NewBoolConfig(key string, defaultValue bool) config.Bool {
	return newValueConfig(key, defaultValue, wrapper.ConvertBool)
}

func NewInt64Config(key string, defaultValue int64) config.Int64 {
	return newValueConfig(key, defaultValue, wrapper.ConvertInt64)
}

func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return newValueConfig(key, defaultValue, wrapper.ConvertUint64)
}

func NewStringConfig(key string, defaultValue string) config.String {
	return newValueConfig(key, defaultValue, wrapper.ConvertString)
}
