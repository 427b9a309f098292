package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
)

// apiRequestsByRoute sums api_requests_total per route label.
func apiRequestsByRoute(t *testing.T, m *observability.Metrics) map[string]float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := map[string]float64{}
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "api_requests_total") {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "route" {
					out[lp.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()

	r := gin.New()
	r.Use(Metrics(m, "/metrics", "/healthcheck"))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/api/trust-score/score/:userId", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{
		"/api/trust-score/score/a",
		"/api/trust-score/score/b",
		"/healthcheck",
		"/metrics",
		"/wp-login.php",
		"/.env",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := apiRequestsByRoute(t, m)
	if got["/api/trust-score/score/:userId"] != 2 {
		t.Fatalf("routed requests: want=2 got=%v (%v)", got["/api/trust-score/score/:userId"], got)
	}
	if got[routeUnmatched] != 2 {
		t.Fatalf("unmatched requests: want=2 got=%v (%v)", got[routeUnmatched], got)
	}
	if _, ok := got["/healthcheck"]; ok {
		t.Fatalf("skipped route was observed: %v", got)
	}
	if _, ok := got["/metrics"]; ok {
		t.Fatalf("skipped route was observed: %v", got)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected route labels: %v", got)
	}
}

func TestMetricsMiddlewareNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
}
