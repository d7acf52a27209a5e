// Package server exposes the scoring engine over HTTP.
//
// @title        Detective Verifier API
// @version      1.0.0
// @description  Deterministic humanity and deception scoring over unsigned 256-bit integers.
// @BasePath     /
package server

import (
	"fmt"
	"net/http"

	"github.com/ZanzyTHEbar/detective-verifier/docs"
	"github.com/ZanzyTHEbar/detective-verifier/internal/cache"
	"github.com/ZanzyTHEbar/detective-verifier/internal/config"
	apperrors "github.com/ZanzyTHEbar/detective-verifier/internal/errors"
	"github.com/ZanzyTHEbar/detective-verifier/internal/monitoring"
	"github.com/ZanzyTHEbar/detective-verifier/internal/ratelimit"
	"github.com/ZanzyTHEbar/detective-verifier/internal/security"
	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Version is reported by /health and the OpenAPI document.
const Version = "1.0.0"

const (
	humanityPath  = "/v1/humanity/verify"
	deceptionPath = "/v1/deception/rating"
)

// Server wires the verifier into a gin engine.
type Server struct {
	engine   *gin.Engine
	verifier *verifier.Verifier
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	limiter  *ratelimit.RateLimiter
	cache    *cache.Cache
	redis    *ratelimit.RedisClient
}

// New builds the server. redis may be nil or disabled; rate limiting then
// runs on in-memory buckets.
func New(cfg *config.Config, logger *monitoring.Logger, redis *ratelimit.RedisClient) (*Server, error) {
	v, err := verifier.New(cfg.Verifier)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("verifier: %v", err), err)
	}

	metrics := monitoring.NewMetrics()
	s := &Server{
		verifier: v,
		metrics:  metrics,
		logger:   logger,
		redis:    redis,
		limiter: ratelimit.NewRateLimiter(redis, ratelimit.Config{
			IPLimitPerMin:   cfg.RateLimitPerMin,
			BurstMultiplier: cfg.RateLimitBurstMultiplier,
		}, metrics),
		cache: cache.NewCache(cfg.CacheTTL),
	}

	sec := security.NewSecurityMiddleware(security.SecurityConfig{
		MaxBodyBytes:   security.DefaultSecurityConfig().MaxBodyBytes,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	docs.SwaggerInfo.Version = Version

	r := gin.New()
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(metrics, logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(sec.SecurityHeaders)
	r.Use(sec.CORSConfig())
	r.Use(sec.ValidateContentType)
	r.Use(sec.LimitBody)
	r.Use(sec.RequestTimeout)
	r.Use(s.limiter.IPRateLimitMiddleware())
	r.Use(s.cache.Middleware(metrics, humanityPath, deceptionPath))

	r.GET("/health", s.health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	v1.POST("/humanity/verify", s.verifyHumanity)
	v1.POST("/deception/rating", s.deceptionRating)
	v1.GET("/thresholds", s.thresholds)

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the live metrics collector.
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Close stops background workers owned by the server.
func (s *Server) Close() {
	s.limiter.Close()
	s.cache.Close()
}
