package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveTrustWrite("recalculate", true, 50)
	m.ObserveTrustBatch(1, 0, time.Second, nil)
	m.IncEventPublish("trust_score.updated", true)
	m.IncRankingsCache(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: want=%d got=%d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.ObserveAPI("GET", "/api/trust-score/score/:userId", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/trust-score/score/:userId", "200", 30*time.Millisecond)
	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/trust-score/score/:userId", "200")); got != 2 {
		t.Fatalf("api requests: want=2 got=%v", got)
	}

	m.ObserveTrustWrite("batch", true, 70)
	m.ObserveTrustWrite("batch", false, 0)
	if got := testutil.ToFloat64(m.trustRecalcs.WithLabelValues("batch", "failure")); got != 1 {
		t.Fatalf("trust failures: want=1 got=%v", got)
	}

	m.ObserveTrustBatch(3, 1, time.Second, nil)
	m.ObserveTrustBatch(0, 0, time.Second, errors.New("boom"))
	if got := testutil.ToFloat64(m.trustBatchRuns.WithLabelValues("partial")); got != 1 {
		t.Fatalf("partial batch runs: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.trustBatchRuns.WithLabelValues("error")); got != 1 {
		t.Fatalf("error batch runs: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.trustBatchUsers.WithLabelValues("success")); got != 3 {
		t.Fatalf("batch users: want=3 got=%v", got)
	}

	m.IncRankingsCache(false)
	if got := testutil.ToFloat64(m.rankingsCacheOps.WithLabelValues("miss")); got != 1 {
		t.Fatalf("cache misses: want=1 got=%v", got)
	}
}

func TestMetricsHandlerExposition(t *testing.T) {
	m := New()
	m.IncEventPublish("trust_score.updated", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vc_event_publish_total") {
		t.Fatalf("exposition missing event counter:\n%s", rec.Body.String())
	}
}
