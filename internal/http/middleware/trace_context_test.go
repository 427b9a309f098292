package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vendorconnect/vendorconnect-backend/internal/platform/ctxutil"
)

func traceRouter(seen *ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			*seen = *td
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestAttachTraceContextKeepsWellFormedIDs(t *testing.T) {
	var seen ctxutil.TraceData
	r := traceRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-42.a_b")
	req.Header.Set(headerTraceID, "trace-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen.RequestID != "req-42.a_b" || seen.TraceID != "trace-7" {
		t.Fatalf("inbound ids not kept: %+v", seen)
	}
	if rec.Header().Get(headerRequestID) != "req-42.a_b" || rec.Header().Get(headerTraceID) != "trace-7" {
		t.Fatalf("ids not echoed: %v", rec.Header())
	}
}

func TestAttachTraceContextReplacesMalformedIDs(t *testing.T) {
	cases := map[string]string{
		"too long":    strings.Repeat("a", maxCorrelationIDLen+1),
		"header junk": "abc\r\nSet-Cookie: x=1",
		"spaces":      "two words",
		"blank":       "   ",
	}
	for name, bad := range cases {
		var seen ctxutil.TraceData
		r := traceRouter(&seen)

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header[headerRequestID] = []string{bad}
		req.Header[headerTraceID] = []string{bad}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if _, err := uuid.Parse(seen.RequestID); err != nil {
			t.Fatalf("%s: request id not regenerated: %q", name, seen.RequestID)
		}
		if _, err := uuid.Parse(seen.TraceID); err != nil {
			t.Fatalf("%s: trace id not regenerated: %q", name, seen.TraceID)
		}
		if rec.Header().Get(headerRequestID) != seen.RequestID {
			t.Fatalf("%s: echoed request id %q != %q", name, rec.Header().Get(headerRequestID), seen.RequestID)
		}
	}
}

func TestAttachTraceContextPrefersActiveSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var seen ctxutil.TraceData
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "request")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		seen = *ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerTraceID, "client-chosen")
	req.Header.Set(headerRequestID, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("spans: want=1 got=%d", len(ended))
	}
	if want := ended[0].SpanContext().TraceID().String(); seen.TraceID != want {
		t.Fatalf("trace id: want span id %s got %s", want, seen.TraceID)
	}
	found := false
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == "http.request_id" && kv.Value.AsString() == "req-1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("request id not attached to span: %v", ended[0].Attributes())
	}
}
