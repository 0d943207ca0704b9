package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	if m.registry == nil {
		t.Error("Registry is nil")
	}

	if m.ToolInvocationsTotal == nil {
		t.Error("ToolInvocationsTotal is nil")
	}
	if m.ToolDuration == nil {
		t.Error("ToolDuration is nil")
	}
	if m.RPCCallsTotal == nil {
		t.Error("RPCCallsTotal is nil")
	}
	if m.ConnectedClients == nil {
		t.Error("ConnectedClients is nil")
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()

	// Record some sample metrics so they appear in output
	m.RecordToolInvocation("center_view", "ok", 10*time.Millisecond)
	m.RecordRPCCall("slicer_util_getNodesByClass", "ok")
	m.ConnectedClients.Inc()

	handler := m.Handler()
	if handler == nil {
		t.Fatal("Handler returned nil")
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()

	expectedMetrics := []string{
		"slicer_tool_invocations_total",
		"slicer_tool_duration_seconds",
		"slicer_bridge_rpc_calls_total",
		"gateway_connected_clients",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(body, metric) {
			t.Errorf("Metrics output missing: %s", metric)
		}
	}
}

func TestRecordToolInvocation(t *testing.T) {
	m := NewMetrics()

	m.RecordToolInvocation("center_view", "ok", 10*time.Millisecond)
	m.RecordToolInvocation("center_view", "ok", 20*time.Millisecond)
	m.RecordToolInvocation("get_visible_segments", "error", 5*time.Millisecond)

	metricFamilies, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metricFamilies {
		if *mf.Name == "slicer_tool_invocations_total" {
			found = true
			for _, metric := range mf.Metric {
				labels := make(map[string]string)
				for _, label := range metric.Label {
					labels[*label.Name] = *label.Value
				}
				if labels["tool"] == "center_view" && labels["status"] == "ok" {
					if *metric.Counter.Value != 2 {
						t.Errorf("Expected 2 ok invocations, got %f", *metric.Counter.Value)
					}
				}
				if labels["tool"] == "get_visible_segments" && labels["status"] == "error" {
					if *metric.Counter.Value != 1 {
						t.Errorf("Expected 1 error invocation, got %f", *metric.Counter.Value)
					}
				}
			}
		}
	}
	if !found {
		t.Error("slicer_tool_invocations_total metric not found")
	}
}

func TestRecordRPCCall(t *testing.T) {
	m := NewMetrics()

	m.RecordRPCCall("slicer_util_getNodesByClass", "ok")
	m.RecordRPCCall("slicer_util_getNodesByClass", "error")

	metricFamilies, _ := m.registry.Gather()
	found := false
	for _, mf := range metricFamilies {
		if *mf.Name == "slicer_bridge_rpc_calls_total" {
			found = true
			if len(mf.Metric) != 2 {
				t.Errorf("Expected 2 label combinations, got %d", len(mf.Metric))
			}
		}
	}
	if !found {
		t.Error("slicer_bridge_rpc_calls_total metric not found")
	}
}

func TestNilReceiverSafety(t *testing.T) {
	var m *Metrics

	// Must not panic when metrics are not wired
	m.RecordToolInvocation("center_view", "ok", time.Millisecond)
	m.RecordRPCCall("slicer_util_getNode", "ok")
}

func TestConnectedClientsGauge(t *testing.T) {
	m := NewMetrics()

	m.ConnectedClients.Inc()
	m.ConnectedClients.Inc()
	m.ConnectedClients.Dec()

	metricFamilies, _ := m.registry.Gather()
	for _, mf := range metricFamilies {
		if *mf.Name == "gateway_connected_clients" {
			if len(mf.Metric) > 0 && *mf.Metric[0].Gauge.Value != 1 {
				t.Errorf("Expected value 1, got %f", *mf.Metric[0].Gauge.Value)
			}
		}
	}
}

func TestMetricsIsolation(t *testing.T) {
	m1 := NewMetrics()
	m2 := NewMetrics()

	m1.RecordRPCCall("slicer_app_layoutManager", "ok")
	m1.RecordRPCCall("slicer_app_layoutManager", "ok")
	m2.RecordRPCCall("slicer_app_layoutManager", "ok")

	check := func(m *Metrics, want float64) {
		metricFamilies, _ := m.registry.Gather()
		for _, mf := range metricFamilies {
			if *mf.Name == "slicer_bridge_rpc_calls_total" {
				if len(mf.Metric) > 0 && *mf.Metric[0].Counter.Value != want {
					t.Errorf("Expected value %f, got %f", want, *mf.Metric[0].Counter.Value)
				}
			}
		}
	}

	check(m1, 2)
	check(m2, 1)
}
