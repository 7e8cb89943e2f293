// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"github.com/go-kit/kit/metrics/provider"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// In is the set of dependencies used to build a semaphore within an uber/fx application.
type In struct {
	fx.In

	// Viper is the application configuration.  The semaphore is configured from its ConfigKey subtree.
	Viper *viper.Viper `optional:"true"`

	// Logger is the optional zap logger for the semaphore.
	Logger *zap.Logger `optional:"true"`

	// Provider is the optional go-kit metrics provider.  When present, the semaphore reports
	// the metrics described by Metrics.
	Provider provider.Provider `optional:"true"`
}

// Provide builds a Weighted semaphore from injected dependencies.
func Provide(in In) (*Weighted, error) {
	c, err := FromViper(Sub(in.Viper))
	if err != nil {
		return nil, err
	}

	options := []Option{WithLogger(in.Logger)}
	if in.Provider != nil {
		options = append(options, WithMeasures(NewMeasures(in.Provider)))
	}

	return NewFromConfig(c, options...)
}

// Module provides a *Weighted semaphore to an uber/fx application.  Queued requests are canceled
// when the application stops, so that no goroutine stays blocked on a semaphore that is going away.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(Provide),
		fx.Invoke(func(lc fx.Lifecycle, s *Weighted) {
			lc.Append(fx.StopHook(s.Cancel))
		}),
	)
}
