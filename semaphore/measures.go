// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/locks/xmetrics"
)

// Names for our metrics
const (
	ResourcesGauge  = "semaphore_resources"
	ValueGauge      = "semaphore_value"
	PendingGauge    = "semaphore_pending"
	CanceledCounter = "semaphore_canceled"
	TimeoutCounter  = "semaphore_timeouts"
)

// Metrics returns the Metrics relevant to this package.  To initialize the metrics, use NewMeasures.
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: ResourcesGauge,
			Type: xmetrics.GaugeType,
			Help: "The weight currently held by grants.  Raw releases and SetValue do not change it",
		},
		{
			Name: ValueGauge,
			Type: xmetrics.GaugeType,
			Help: "The semaphore's current value, which may be negative",
		},
		{
			Name: PendingGauge,
			Type: xmetrics.GaugeType,
			Help: "The number of queued requests waiting to be granted",
		},
		{
			Name: CanceledCounter,
			Type: xmetrics.CounterType,
			Help: "The total count of queued requests failed by a cancel",
		},
		{
			Name: TimeoutCounter,
			Type: xmetrics.CounterType,
			Help: "The total count of requests abandoned because of a timeout or context cancellation",
		},
	}
}

// Measures is the set of metrics a semaphore updates.
type Measures struct {
	Resources xmetrics.Setter
	Value     xmetrics.Setter
	Pending   xmetrics.Setter
	Canceled  xmetrics.Adder
	Timeouts  xmetrics.Adder
}

// NewMeasures realizes the metrics declared by Metrics from a go-kit provider.
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Resources: p.NewGauge(ResourcesGauge),
		Value:     p.NewGauge(ValueGauge),
		Pending:   p.NewGauge(PendingGauge),
		Canceled:  p.NewCounter(CanceledCounter),
		Timeouts:  p.NewCounter(TimeoutCounter),
	}
}

func (m Measures) orDiscard() Measures {
	if m.Resources == nil {
		m.Resources = discard.NewGauge()
	}

	if m.Value == nil {
		m.Value = discard.NewGauge()
	}

	if m.Pending == nil {
		m.Pending = discard.NewGauge()
	}

	if m.Canceled == nil {
		m.Canceled = discard.NewCounter()
	}

	if m.Timeouts == nil {
		m.Timeouts = discard.NewCounter()
	}

	return m
}
