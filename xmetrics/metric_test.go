package xmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNewCollectorMissingName(t *testing.T) {
	assert := assert.New(t)
	c, err := NewCollector(Metric{Type: CounterType})
	assert.Nil(c)
	assert.Error(err)
}

func testNewCollectorUnsupportedType(t *testing.T) {
	assert := assert.New(t)
	c, err := NewCollector(Metric{Name: "test", Type: "unsupported"})
	assert.Nil(c)
	assert.Error(err)
}

func testNewCollectorType(t *testing.T, metricType string, expected interface{}) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		c, err  = NewCollector(Metric{Name: "test", Type: metricType})
	)

	require.NoError(err)
	require.NotNil(c)
	assert.IsType(expected, c)
}

func TestNewCollector(t *testing.T) {
	t.Run("MissingName", testNewCollectorMissingName)
	t.Run("UnsupportedType", testNewCollectorUnsupportedType)

	t.Run("Counter", func(t *testing.T) {
		testNewCollectorType(t, CounterType, (*prometheus.CounterVec)(nil))
	})

	t.Run("Gauge", func(t *testing.T) {
		testNewCollectorType(t, GaugeType, (*prometheus.GaugeVec)(nil))
	})

	t.Run("Histogram", func(t *testing.T) {
		testNewCollectorType(t, HistogramType, (*prometheus.HistogramVec)(nil))
	})
}
