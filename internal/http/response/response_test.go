package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vendorconnect/vendorconnect-backend/internal/platform/apierr"
	"github.com/vendorconnect/vendorconnect-backend/internal/services"
)

func TestRespondErrMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", fmt.Errorf("%w: no score", services.ErrNotFound), http.StatusNotFound, apierr.CodeNotFound, "not found: no score"},
		{"validation", fmt.Errorf("%w: bad role", services.ErrValidation), http.StatusBadRequest, apierr.CodeValidation, "validation failed: bad role"},
		{"token", services.ErrInvalidToken, http.StatusUnauthorized, apierr.CodeUnauthorized, services.ErrInvalidToken.Error()},
		{"apierr", apierr.Forbidden(errors.New("admins only")), http.StatusForbidden, apierr.CodeForbidden, "admins only"},
		{"storage", fmt.Errorf("%w: connection reset", services.ErrStorage), http.StatusInternalServerError, apierr.CodeServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondErr(c, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, rec.Code)
			}
			var env Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Success || env.Error == nil {
				t.Fatalf("expected failed envelope, got %s", rec.Body.String())
			}
			if env.Error.Code != tc.wantCode || env.Error.Message != tc.wantMsg {
				t.Fatalf("error: want=%s/%q got=%s/%q", tc.wantCode, tc.wantMsg, env.Error.Code, env.Error.Message)
			}
		})
	}
}

func TestRespondOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondOK(c, gin.H{"score": 50})

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("success flag missing: %s", rec.Body.String())
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("ok envelope should omit error: %s", rec.Body.String())
	}
}
