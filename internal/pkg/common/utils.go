package common

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateUUID generates a UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID returns the request id set by the requestid middleware, generating one when absent
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.Writer.Header().Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// RespondError writes err as a JSON error body with the status its CustomError maps to
func RespondError(c *gin.Context, err error) {
	ce := AsCustomError(err)
	if ce.Status >= 500 {
		LogError("Request failed",
			zap.Error(err),
			zap.String("code", ce.Code),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(ce.Status, ErrorResponse{
		Error: ce.Message,
		Code:  ce.Code,
	})
}

// BindJSON decodes the request body into v. An absent, null or malformed
// body is ErrInvalidRequest; an oversized one is ErrRequestTooLarge.
func BindJSON(c *gin.Context, v interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrRequestTooLarge.Wrap(err)
		}
		return ErrInvalidRequest.Wrap(err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ErrInvalidRequest
	}

	if err := ParseJSONBytes(raw, v); err != nil {
		return ErrInvalidRequest.Wrap(err)
	}
	return nil
}
