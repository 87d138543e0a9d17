package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func errorRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/boom", handler)
	return r
}

func TestErrorMiddlewareMapsAppErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"insufficient stock", ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
		{"email taken", ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"wrapped keeps code and message", Wrap(ErrInvalidOrder, errors.New("product does not exist")), http.StatusBadRequest, "Invalid order"},
		{"plain error becomes 500", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := errorRouter(func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestErrorMiddlewarePassesCleanRequests(t *testing.T) {
	r := errorRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("row locked")
	err := Wrap(ErrInsufficientStock, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Insufficient stock: row locked", err.Error())
}
