package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(gatewayRequestsTotal.WithLabelValues("POST", "/api/login", "401"))
	ObserveRequest("POST", "/api/login", 401, 20*time.Millisecond)
	after := testutil.ToFloat64(gatewayRequestsTotal.WithLabelValues("POST", "/api/login", "401"))

	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
}

func TestDashboardActiveGauge(t *testing.T) {
	start := testutil.ToFloat64(dashboardActive)
	DashboardActivated()
	DashboardActivated()
	DashboardDeactivated()
	if got := testutil.ToFloat64(dashboardActive) - start; got != 1 {
		t.Errorf("active delta = %v, want 1", got)
	}
	DashboardDeactivated()
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordTrigger("ok")

	rr := httptest.NewRecorder()
	NewServer(":0").Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "missioncontrol_dashboard_triggers_total") {
		t.Error("metrics output missing triggers counter")
	}
}
