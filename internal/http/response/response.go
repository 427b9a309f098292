package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendorconnect/vendorconnect-backend/internal/platform/apierr"
	"github.com/vendorconnect/vendorconnect-backend/internal/services"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope wraps every JSON response body.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func AbortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, errorEnvelope(code, err, nil))
}

// RespondErr maps err onto a status and code. Service sentinels and
// *apierr.Error are recognized; anything else is a 500 with a generic message.
func RespondErr(c *gin.Context, err error) {
	ae := ToAPIError(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(ae.Status, errorEnvelope(ae.Code, errors.New("internal server error"), nil))
		return
	}
	c.JSON(ae.Status, errorEnvelope(ae.Code, ae.Err, ae.Details))
}

func ToAPIError(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		return apierr.NotFound(err)
	case errors.Is(err, services.ErrValidation):
		return apierr.Validation(err, nil)
	case errors.Is(err, services.ErrInvalidToken):
		return apierr.Unauthorized(err)
	default:
		return apierr.Internal(err)
	}
}

func errorEnvelope(code string, err error, details any) Envelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Envelope{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: msg,
			Details: details,
		},
	}
}
