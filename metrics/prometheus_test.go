// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	epochs := LazyLoadCounter("test_epochs_total")
	results := CounterVec("test_calls_total", []string{"result"})
	active := Gauge("test_active_validators")
	vec := GaugeVec("test_power", []string{"pool"})
	hist := Histogram("test_duration_ms", Bucket10s)

	epochs().Add(1)
	epochs().Add(2)
	Counter("test_epochs_total").Add(1)
	results.AddWithLabel(1, map[string]string{"result": "ok"})
	results.AddWithLabel(2, map[string]string{"result": "revert"})
	active.Set(4)
	active.Add(-1)
	vec.SetWithLabel(100, map[string]string{"pool": "a"})
	vec.AddWithLabel(5, map[string]string{"pool": "a"})
	hist.Observe(3)
	hist.Observe(7)

	families := gather(t)
	assert.Equal(t, float64(4), families["epochd_test_epochs_total"].Metric[0].GetCounter().GetValue())
	assert.Len(t, families["epochd_test_calls_total"].Metric, 2)
	assert.Equal(t, float64(3), families["epochd_test_active_validators"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(105), families["epochd_test_power"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(10), families["epochd_test_duration_ms"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, uint64(2), families["epochd_test_duration_ms"].Metric[0].GetHistogram().GetSampleCount())

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "epochd_test_epochs_total 4")
}

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()
	assert.NotPanics(t, func() {
		noop.GetOrCreateCountMeter("x").Add(1)
		noop.GetOrCreateCountVecMeter("x", nil).AddWithLabel(1, nil)
		noop.GetOrCreateGaugeMeter("x").Set(1)
		noop.GetOrCreateGaugeVecMeter("x", nil).SetWithLabel(1, nil)
		noop.GetOrCreateHistogramMeter("x", nil).Observe(1)
	})
	assert.NotNil(t, noop.GetOrCreateHandler())
}
