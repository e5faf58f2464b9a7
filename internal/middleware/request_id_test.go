package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapi/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(middleware.RequestIDKey)})
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest("GET", "/ping", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	id := resp.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_InboundHonored(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-supplied-id")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "client-supplied-id", resp.Header().Get(middleware.RequestIDHeader))
}
