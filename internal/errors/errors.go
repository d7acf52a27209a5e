package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory classifies an error for status mapping and logging
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryArithmetic    ErrorCategory = "arithmetic"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryRateLimit     ErrorCategory = "rate_limit"
	CategoryInternal      ErrorCategory = "internal"
	CategoryConfiguration ErrorCategory = "configuration"
)

type categoryInfo struct {
	status int
	label  string
}

var categories = map[ErrorCategory]categoryInfo{
	CategoryValidation:    {http.StatusBadRequest, "VALIDATION_ERROR"},
	CategoryArithmetic:    {http.StatusUnprocessableEntity, "ARITHMETIC_ERROR"},
	CategoryTimeout:       {http.StatusGatewayTimeout, "TIMEOUT_ERROR"},
	CategoryRateLimit:     {http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
	CategoryInternal:      {http.StatusInternalServerError, "INTERNAL_ERROR"},
	CategoryConfiguration: {http.StatusInternalServerError, "CONFIGURATION_ERROR"},
}

// AppError wraps an errbuilder error with transport context
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	RequestID  string        `json:"request_id,omitempty"`
	StackTrace string        `json:"stack_trace,omitempty"`
}

func (e *AppError) Error() string {
	label := "UNKNOWN_ERROR"
	if info, ok := categories[e.Category]; ok {
		label = info.label
	}
	return fmt.Sprintf("[%s] %s", label, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// MarshalJSON renders the error envelope returned to API callers
func (e *AppError) MarshalJSON() ([]byte, error) {
	details := map[string]string{}
	for key, detail := range e.ErrBuilder.Details.Errors {
		details[fmt.Sprint(key)] = fmt.Sprint(detail)
	}
	return json.Marshal(struct {
		Code       string            `json:"code"`
		Message    string            `json:"message"`
		Category   ErrorCategory     `json:"category"`
		HTTPStatus int               `json:"http_status"`
		RequestID  string            `json:"request_id,omitempty"`
		Details    map[string]string `json:"details,omitempty"`
		StackTrace string            `json:"stack_trace,omitempty"`
	}{
		Code:       fmt.Sprint(e.ErrBuilder.ErrCode()),
		Message:    e.ErrBuilder.Msg,
		Category:   e.Category,
		HTTPStatus: e.HTTPStatus,
		RequestID:  e.RequestID,
		Details:    details,
		StackTrace: e.StackTrace,
	})
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
	}
}

// newCategorized attaches the category and its HTTP status to builder
func newCategorized(category ErrorCategory, builder *errbuilder.ErrBuilder, cause error) *AppError {
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return NewAppError(builder, category, categories[category].status)
}

func singleDetail(key, value string) errbuilder.ErrorMap {
	m := errbuilder.ErrorMap{}
	m.Set(key, errors.New(value))
	return m
}

// NewValidationError reports malformed input. The first detail, if any, is
// attached under "validation_details".
func NewValidationError(message string, details ...interface{}) *AppError {
	b := errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg(message)
	if len(details) > 0 {
		b = b.WithDetails(errbuilder.NewErrDetails(singleDetail("validation_details", fmt.Sprint(details[0]))))
	}
	return newCategorized(CategoryValidation, b, nil)
}

// NewValidationErrorWithMap reports one message per bad argument
func NewValidationErrorWithMap(fields map[string]string) *AppError {
	m := errbuilder.ErrorMap{}
	for field, message := range fields {
		m.Set(field, errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg(message))
	}
	b := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("Invalid scoring arguments").
		WithDetails(errbuilder.NewErrDetails(m))
	return newCategorized(CategoryValidation, b, nil)
}

// NewArithmeticError reports a scoring call the engine refused to complete
func NewArithmeticError(message string, cause error) *AppError {
	b := errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg(message)
	return newCategorized(CategoryArithmetic, b, cause)
}

func NewTimeoutError(message string, cause error) *AppError {
	b := errbuilder.New().WithCode(errbuilder.CodeDeadlineExceeded).WithMsg(message)
	return newCategorized(CategoryTimeout, b, cause)
}

func NewRateLimitError(retryAfter string) *AppError {
	b := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("Rate limit exceeded").
		WithDetails(errbuilder.NewErrDetails(singleDetail("retry_after", retryAfter)))
	return newCategorized(CategoryRateLimit, b, nil)
}

// NewInternalError hides message from callers behind a generic text; the
// message stays in the details and the logs. Debug mode captures a stack.
func NewInternalError(message string, cause error) *AppError {
	b := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("Internal server error").
		WithDetails(errbuilder.NewErrDetails(singleDetail("internal_details", message)))

	appErr := newCategorized(CategoryInternal, b, cause)
	if gin.Mode() == gin.DebugMode {
		appErr.StackTrace = captureStackTrace()
	}
	return appErr
}

// NewConfigurationError reports a host that cannot serve with its settings
func NewConfigurationError(message string, cause error) *AppError {
	b := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("Configuration error").
		WithDetails(errbuilder.NewErrDetails(singleDetail("config_details", message)))
	return newCategorized(CategoryConfiguration, b, cause)
}

// FromScoringError maps a verifier fault onto an AppError
func FromScoringError(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, verifier.ErrArithmeticOverflow):
		return NewArithmeticError("Multiplication overflowed 256 bits", err)
	case errors.Is(err, verifier.ErrRatioExceedsTotal):
		return NewArithmeticError("Numerator exceeds total", err)
	case errors.Is(err, verifier.ErrInvalidThresholds), errors.Is(err, verifier.ErrInvalidPolicy):
		return NewConfigurationError(err.Error(), err)
	default:
		return ToAppError(err)
	}
}

func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// ErrorHandler is a Gin middleware that renders the last handler error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			appErr := FromScoringError(c.Errors.Last().Err)
			appErr.RequestID = c.GetString(RequestIDKey)

			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
		}
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)
		appErr.StackTrace = captureStackTrace()
		appErr.RequestID = c.GetString(RequestIDKey)

		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
	})
}

// ToAppError converts any error to an AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	if errors.Is(err, context.Canceled) {
		return NewTimeoutError("Request cancelled", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("Request deadline exceeded", err)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	errorCode := err.ErrBuilder.ErrCode()
	errorMsg := err.ErrBuilder.Msg
	errorDetails := err.ErrBuilder.Details

	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", errorCode,
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(RequestIDKey),
	)

	switch err.Category {
	case CategoryValidation, CategoryRateLimit, CategoryArithmetic:
		if len(errorDetails.Errors) > 0 {
			logEntry.Warn(errorMsg, "details", errorDetails.Errors)
		} else if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Warn(errorMsg, "cause", cause)
		} else {
			logEntry.Warn(errorMsg)
		}
	case CategoryTimeout:
		logEntry.Info(errorMsg, "cause", err.ErrBuilder.Unwrap())
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(errorMsg, "cause", cause)
		} else {
			logEntry.Error(errorMsg)
		}
	}

	if err.StackTrace != "" && gin.Mode() == gin.DebugMode {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}

// Respond logs err and writes it as the response, aborting the chain
func Respond(c *gin.Context, err *AppError) {
	err.RequestID = c.GetString(RequestIDKey)
	LogError(c, err)
	c.AbortWithStatusJSON(err.HTTPStatus, err)
}

// SafeClose safely closes a resource and logs any errors
func SafeClose(closer interface{ Close() error }, resourceName string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		slog.Warn("Failed to close resource",
			"resource", resourceName,
			"error", err)
	}
}
