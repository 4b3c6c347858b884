package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorExposesLoginCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginStarted("google")
	c.RecordLoginSucceeded("google")
	c.RecordLoginFailed("kakao", "invalid_state")
	c.RecordExchangeLatency(250 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`authgate_login_started_total{provider="google"} 1`,
		`authgate_login_succeeded_total{provider="google"} 1`,
		`authgate_login_failed_total{provider="kakao",reason="invalid_state"} 1`,
		"authgate_provider_exchange_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q, got:\n%s", want, body)
		}
	}
}
