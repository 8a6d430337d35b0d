package smelt

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the keyed bag of primitive values handed to modules at
// registration. Modules read only the keys they declare; required keys that
// are absent surface as errors from the typed getters.
type Config struct {
	v *viper.Viper
}

func NewConfig() *Config {
	return &Config{v: viper.New()}
}

// LoadConfig reads a YAML config file into a fresh bag.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &Config{v: v}, nil
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

func (c *Config) Has(key string) bool {
	return c.v.IsSet(key)
}

func (c *Config) missing(key string) error {
	return fmt.Errorf("config missing required key %q", key)
}

func (c *Config) Int(key string) (int, error) {
	if !c.v.IsSet(key) {
		return 0, c.missing(key)
	}
	return c.v.GetInt(key), nil
}

func (c *Config) Float(key string) (float64, error) {
	if !c.v.IsSet(key) {
		return 0, c.missing(key)
	}
	return c.v.GetFloat64(key), nil
}

func (c *Config) String(key string) (string, error) {
	if !c.v.IsSet(key) {
		return "", c.missing(key)
	}
	return c.v.GetString(key), nil
}

func (c *Config) IntOr(key string, def int) int {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetInt(key)
}

func (c *Config) Int64Or(key string, def int64) int64 {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetInt64(key)
}

func (c *Config) FloatOr(key string, def float64) float64 {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetFloat64(key)
}

func (c *Config) StringOr(key string, def string) string {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetString(key)
}
