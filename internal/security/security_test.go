package security

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, int64(4096), config.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, config.RequestTimeout)
	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
	assert.False(t, config.EnableHSTS)
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	r := gin.New()
	r.Use(sm.SecurityHeaders)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	headers := w.Header()
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", headers.Get("Cache-Control"))
	assert.Contains(t, headers.Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, headers.Get("Strict-Transport-Security"))
}

func TestValidateContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	r := gin.New()
	r.Use(sm.ValidateContentType)
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name           string
		method         string
		contentType    string
		expectedStatus int
	}{
		{name: "valid JSON", method: "POST", contentType: "application/json", expectedStatus: http.StatusOK},
		{name: "JSON with charset", method: "POST", contentType: "application/json; charset=utf-8", expectedStatus: http.StatusOK},
		{name: "form data rejected", method: "POST", contentType: "application/x-www-form-urlencoded", expectedStatus: http.StatusUnsupportedMediaType},
		{name: "missing content type rejected", method: "POST", contentType: "", expectedStatus: http.StatusUnsupportedMediaType},
		{name: "GET without content type", method: "GET", contentType: "", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, "/test", bytes.NewBufferString(`{"test": "data"}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLimitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config := DefaultSecurityConfig()
	config.MaxBodyBytes = 16
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.LimitBody)
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/test", bytes.NewBufferString(`{"a":1}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/test", bytes.NewBufferString(strings.Repeat("9", 64)))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultSecurityConfig()
	config.RequestTimeout = 10 * time.Millisecond
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.RequestTimeout)
	r.GET("/test", func(c *gin.Context) {
		_, hasDeadline := c.Request.Context().Deadline()
		assert.True(t, hasDeadline)

		<-c.Request.Context().Done()
		c.JSON(http.StatusOK, gin.H{"error": c.Request.Context().Err().Error()})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)

	start := time.Now()
	r.ServeHTTP(w, req)

	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, w.Body.String(), "deadline exceeded")
}

func TestCORSConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultSecurityConfig()
	config.AllowedOrigins = []string{"https://game.example"}
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.CORSConfig())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://game.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://game.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
