package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrap returns a copy of e carrying err as its cause.
func Wrap(e *Error, err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrTokenExpired       = New(http.StatusUnauthorized, "Token expired", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Business logic error types
var (
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrInvalidOrder      = New(http.StatusBadRequest, "Invalid order", nil)
	ErrEmailTaken        = New(http.StatusConflict, "Email already registered", nil)
)

// ErrorMiddleware converts errors attached to the gin context into JSON
// responses; the last error wins.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			appErr, ok := err.(*Error)
			if !ok {
				appErr = Wrap(ErrInternalServer, err)
			}
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			c.Abort()
		}
	}
}
