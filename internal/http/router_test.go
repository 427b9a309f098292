package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	httpH "github.com/vendorconnect/vendorconnect-backend/internal/http/handlers"
	httpMW "github.com/vendorconnect/vendorconnect-backend/internal/http/middleware"
	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
	"github.com/vendorconnect/vendorconnect-backend/internal/services"
)

func TestRouterWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	verifier, err := services.NewTokenVerifier(log, "router-secret")
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}
	r := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           observability.New(),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, verifier),
		TrustScoreHandler: httpH.NewTrustScoreHandlerWithDeps(httpH.TrustScoreHandlerDeps{Log: log}),
		HealthHandler:     httpH.NewHealthHandler(nil),
	})

	vendorTok, err := verifier.Sign(uuid.New(), types.RoleVendor, time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	cases := []struct {
		method, path, token string
		want                int
	}{
		{http.MethodGet, "/healthcheck", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/trust-score/rankings", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/trust-score/score/not-a-uuid", vendorTok, http.StatusBadRequest},
		{http.MethodPost, "/api/trust-score/recalculate-all", vendorTok, http.StatusForbidden},
		{http.MethodPost, "/api/trust-score/initialize/" + uuid.NewString(), vendorTok, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: want=%d got=%d body=%s", tc.method, tc.path, tc.want, rec.Code, rec.Body.String())
		}
	}
}
