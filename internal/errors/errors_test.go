package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessages(t *testing.T) {
	tests := []struct {
		name           string
		err            *AppError
		expectedMsg    string
		expectedStatus int
		category       ErrorCategory
	}{
		{
			name:           "validation",
			err:            NewValidationError("bad input", "total_matches"),
			expectedMsg:    "[VALIDATION_ERROR] bad input",
			expectedStatus: http.StatusBadRequest,
			category:       CategoryValidation,
		},
		{
			name:           "arithmetic",
			err:            NewArithmeticError("overflow", nil),
			expectedMsg:    "[ARITHMETIC_ERROR] overflow",
			expectedStatus: http.StatusUnprocessableEntity,
			category:       CategoryArithmetic,
		},
		{
			name:           "rate limit",
			err:            NewRateLimitError("30"),
			expectedMsg:    "[RATE_LIMIT_EXCEEDED] Rate limit exceeded",
			expectedStatus: http.StatusTooManyRequests,
			category:       CategoryRateLimit,
		},
		{
			name:           "timeout",
			err:            NewTimeoutError("slow", context.DeadlineExceeded),
			expectedMsg:    "[TIMEOUT_ERROR] slow",
			expectedStatus: http.StatusGatewayTimeout,
			category:       CategoryTimeout,
		},
		{
			name:           "configuration",
			err:            NewConfigurationError("bad thresholds", nil),
			expectedMsg:    "[CONFIGURATION_ERROR] Configuration error",
			expectedStatus: http.StatusInternalServerError,
			category:       CategoryConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			assert.Equal(t, tt.expectedStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.category, tt.err.Category)
		})
	}
}

func TestFromScoringError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		status   int
	}{
		{name: "overflow", err: fmt.Errorf("wrap: %w", verifier.ErrArithmeticOverflow), category: CategoryArithmetic, status: http.StatusUnprocessableEntity},
		{name: "ratio", err: verifier.ErrRatioExceedsTotal, category: CategoryArithmetic, status: http.StatusUnprocessableEntity},
		{name: "thresholds", err: verifier.ErrInvalidThresholds, category: CategoryConfiguration, status: http.StatusInternalServerError},
		{name: "policy", err: verifier.ErrInvalidPolicy, category: CategoryConfiguration, status: http.StatusInternalServerError},
		{name: "deadline", err: context.DeadlineExceeded, category: CategoryTimeout, status: http.StatusGatewayTimeout},
		{name: "unknown", err: fmt.Errorf("boom"), category: CategoryInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromScoringError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.category, appErr.Category)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.Nil(t, FromScoringError(nil))
}

func TestToAppErrorPassthrough(t *testing.T) {
	original := NewValidationError("already wrapped")
	assert.Same(t, original, ToAppError(fmt.Errorf("context: %w", original)))

	builder := rawBuilderError()
	converted := ToAppError(builder)
	assert.Equal(t, CategoryInternal, converted.Category)
	assert.Equal(t, errbuilder.CodeInternal, converted.ErrCode())
}

func rawBuilderError() *errbuilder.ErrBuilder {
	return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("raw builder")
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/overflow", func(c *gin.Context) {
		_ = c.Error(verifier.ErrArithmeticOverflow)
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/overflow", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(CategoryArithmetic), body["category"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("scoring exploded")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(CategoryInternal), body["category"])
	assert.Equal(t, "Internal server error", body["message"])
}
