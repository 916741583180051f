package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue はレジストリから指定メトリクス（ラベル一致）のカウンタ値を取得する。
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					matched = false
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	if NewCollector(prometheus.NewRegistry()) == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordLogin_SplitsByResult はログイン結果ごとに別系列で記録されることを検証する。
func TestRecordLogin_SplitsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogin(false)

	if v := counterValue(t, reg, "ordertracker_login_attempts_total", map[string]string{"result": "success"}); v != 1 {
		t.Errorf("success = %v, want 1", v)
	}
	if v := counterValue(t, reg, "ordertracker_login_attempts_total", map[string]string{"result": "failure"}); v != 2 {
		t.Errorf("failure = %v, want 2", v)
	}
}

func TestRecordOrderCreated_LabelsServiceType(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrderCreated("lobbyTool")

	if v := counterValue(t, reg, "ordertracker_orders_created_total", map[string]string{"service_type": "lobbyTool"}); v != 1 {
		t.Errorf("orders_created = %v, want 1", v)
	}
}

func TestCounters_Increment(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSessionExpired()
	c.RecordSessionsSwept(3)
	c.RecordOrderDeleted()
	c.RecordDecodeFailure()
	c.RecordHTTPStatus(404)

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"ordertracker_sessions_expired_total", nil, 1},
		{"ordertracker_sessions_swept_total", nil, 3},
		{"ordertracker_orders_deleted_total", nil, 1},
		{"ordertracker_storage_decode_failures_total", nil, 1},
		{"ordertracker_http_status_total", map[string]string{"status_code": "404"}, 1},
	}

	for _, tt := range tests {
		if v := counterValue(t, reg, tt.name, tt.labels); v != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, v, tt.want)
		}
	}
}
