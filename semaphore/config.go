// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// ConfigKey is the Viper subkey under which semaphore configuration should be stored.
	// FromViper *does not* assume this key.
	ConfigKey = "semaphore"

	// DefaultValue is the initial value used when none is configured.
	DefaultValue = 1
)

var errNegativeTimeout = errors.New("semaphore timeout cannot be negative")

// Config is the externally configurable form of a Weighted semaphore.
type Config struct {
	// Value is the initial value of the semaphore.  If unset, DefaultValue is used.
	Value int `json:"value"`

	// CancelMessage, if supplied, is added to ErrCanceled to form the error delivered by Cancel.
	CancelMessage string `json:"cancelMessage"`

	// Timeout is the default timeout for AcquireTimeout.  If unset, such calls wait indefinitely.
	Timeout time.Duration `json:"timeout"`
}

func (c *Config) value() int {
	if c != nil && c.Value != 0 {
		return c.Value
	}

	return DefaultValue
}

func (c *Config) cancelError() error {
	if c != nil && len(c.CancelMessage) > 0 {
		return fmt.Errorf("%w: %s", ErrCanceled, c.CancelMessage)
	}

	return ErrCanceled
}

func (c *Config) timeout() time.Duration {
	if c != nil {
		return c.Timeout
	}

	return 0
}

// Validate checks this configuration for values no semaphore can honor.  A nil Config is valid.
func (c *Config) Validate() error {
	if c.timeout() < 0 {
		return errNegativeTimeout
	}

	return nil
}

// Sub returns the standard child Viper, using ConfigKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(ConfigKey)
	}

	return nil
}

// FromViper produces a Config from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if v != nil {
		if err := v.Unmarshal(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ConfigFromMap produces a Config from loosely typed values, such as those decoded from JSON
// or supplied by a flag set.  Keys are matched without regard to case.  Unknown keys are ignored.
func ConfigFromMap(m map[string]interface{}) (*Config, error) {
	c := new(Config)
	for key, raw := range m {
		var err error
		switch strings.ToLower(key) {
		case "value":
			c.Value, err = cast.ToIntE(raw)

		case "cancelmessage":
			c.CancelMessage, err = cast.ToStringE(raw)

		case "timeout":
			c.Timeout, err = cast.ToDurationE(raw)
		}

		if err != nil {
			return nil, fmt.Errorf("semaphore config key %s: %w", key, err)
		}
	}

	return c, nil
}

// NewFromConfig constructs a Weighted semaphore from a (possibly nil) Config.  Options are applied
// after the configuration, so they take precedence.
func NewFromConfig(c *Config, o ...Option) (*Weighted, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := []Option{
		WithCancelError(c.cancelError()),
		WithTimeout(c.timeout()),
	}

	return NewWeighted(c.value(), append(options, o...)...), nil
}
