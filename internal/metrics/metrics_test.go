package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCalculation("ok")
	m.ObserveCalculation("ok")
	m.ObserveCalculation("invalid_param1")
	m.ObserveCalculation("")
	m.ObserveDiscount(10)
	m.IncSales()
	m.ObserveHTTP("POST", "/api/materials/calculate", 200, 15*time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "partnerdesk_material_calculations_total", "outcome", "ok")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = fetchCounterValue(mfs, "partnerdesk_material_calculations_total", "outcome", "invalid_param1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "partnerdesk_material_calculations_total", "outcome", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "partnerdesk_discount_resolutions_total", "percent", "10")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	sales := findMetricFamily(mfs, "partnerdesk_sales_recorded_total")
	require.NotNil(t, sales)
	assert.Equal(t, 1.0, sales.GetMetric()[0].GetCounter().GetValue())

	sum, err := fetchHistogramSum(mfs, "partnerdesk_http_request_duration_seconds", "route", "/api/materials/calculate")
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCalculation("ok")
	m.ObserveDiscount(5)
	m.IncSales()
	m.ObserveHTTP("GET", "/", 200, time.Second)

	unregistered := New(nil)
	unregistered.ObserveCalculation("ok")
	unregistered.IncSales()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
