// Package httpkit holds the gin middleware and response helpers shared by
// every handler.
package httpkit

import (
	"errors"
	"net/http"

	"portfolio_leads_backend/platform/apperr"
	"portfolio_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal        = "internal error"
	codeInvalidRequest = "invalid_request"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// BadRequest is a 400 for bodies that could not be decoded at all.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: codeInvalidRequest})
}

// ValidationError is a 400 listing the failed rule per field.
func ValidationError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   message,
		Code:    string(apperr.KindValidation),
		Details: validator.FieldErrors(err),
	})
}

// HandleError writes err and reports whether there was one. *apperr.Error
// picks its own status and code; anything else is a 500 with no detail and
// is attached to the gin context for the request logger.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
		return true
	}

	if domainErr.Err != nil {
		_ = c.Error(domainErr.Err)
	}
	c.JSON(domainErr.HTTPStatus(), ErrorResponse{
		Error:   domainErr.Message,
		Code:    string(domainErr.Kind),
		Details: domainErr.Details,
	})
	return true
}
