package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

const codeRateLimited = "rate_limit_exceeded"

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromAppError maps a domain error code onto a response status. The message is
// passed through untouched so backend messages reach the client as-is.
func fromAppError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeUnauthorized, apperrors.CodeMissingToken:
		status = http.StatusUnauthorized
	case apperrors.CodeInsufficientCredits:
		status = http.StatusPaymentRequired
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromAppError(err)
}

// errorBody renders the {data, error} envelope. Unauthenticated requests carry
// a bare string, insufficient credits only a message, everything else a code
// and a message.
func errorBody(httpErr *HTTPError) gin.H {
	message := httpErr.Message
	if message == "" {
		message = "Unknown error"
	}
	var payload any
	switch httpErr.Code {
	case apperrors.CodeUnauthorized:
		payload = message
	case apperrors.CodeInsufficientCredits:
		payload = gin.H{"message": message}
	default:
		payload = gin.H{"code": httpErr.Code, "message": message}
	}
	return gin.H{"data": nil, "error": payload}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
