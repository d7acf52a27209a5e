package server

import (
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/ZanzyTHEbar/detective-verifier/internal/errors"
	"github.com/ZanzyTHEbar/detective-verifier/internal/verifier"
	"github.com/gin-gonic/gin"
)

// HumanityRequest is the body of POST /v1/humanity/verify.
type HumanityRequest struct {
	CorrectGuesses    UintArg `json:"correct_guesses" swaggertype:"string" example:"61"`
	TotalMatches      UintArg `json:"total_matches" swaggertype:"string" example:"100"`
	AvgResponseTimeMs UintArg `json:"avg_response_time_ms" swaggertype:"string" example:"1500"`
}

// HumanityChecks reports each condition behind the verdict.
type HumanityChecks struct {
	AccuracyAboveThreshold bool `json:"accuracy_above_threshold"`
	LatencyAboveFloor      bool `json:"latency_above_floor"`
	LatencyBelowCeiling    bool `json:"latency_below_ceiling"`
}

// HumanityResponse is returned by POST /v1/humanity/verify.
type HumanityResponse struct {
	Human      bool           `json:"human"`
	Accuracy   string         `json:"accuracy" example:"61"`
	NoEvidence bool           `json:"no_evidence"`
	Checks     HumanityChecks `json:"checks"`
}

// DeceptionRequest is the body of POST /v1/deception/rating.
type DeceptionRequest struct {
	TimesFooledHuman  UintArg `json:"times_fooled_human" swaggertype:"string" example:"30"`
	TotalInteractions UintArg `json:"total_interactions" swaggertype:"string" example:"200"`
}

// DeceptionResponse is returned by POST /v1/deception/rating.
type DeceptionResponse struct {
	Rating string `json:"rating" example:"15"`
}

// ThresholdsResponse describes the active scoring configuration.
type ThresholdsResponse struct {
	Thresholds verifier.Thresholds `json:"thresholds"`
	Overflow   string              `json:"overflow_mode" example:"checked"`
	Ratio      string              `json:"ratio_mode" example:"preserve"`
}

// verifyHumanity godoc
// @Summary      Verify humanity score
// @Description  Reports whether accuracy and average response time are consistent with a human player.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        request  body      HumanityRequest  true  "Gameplay telemetry"
// @Success      200      {object}  HumanityResponse
// @Failure      400      {object}  map[string]interface{}
// @Failure      422      {object}  map[string]interface{}
// @Failure      429      {object}  map[string]interface{}
// @Router       /v1/humanity/verify [post]
func (s *Server) verifyHumanity(c *gin.Context) {
	var req HumanityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	args, problems := parseArgs(map[string]UintArg{
		"correct_guesses":      req.CorrectGuesses,
		"total_matches":        req.TotalMatches,
		"avg_response_time_ms": req.AvgResponseTimeMs,
	})
	if problems != nil {
		apperrors.Respond(c, apperrors.NewValidationErrorWithMap(problems))
		return
	}

	start := time.Now()
	assessment, err := s.verifier.AssessHumanity(args["correct_guesses"], args["total_matches"], args["avg_response_time_ms"])
	if err != nil {
		s.scoringFault(c, "verify_humanity_score", err, start)
		return
	}

	s.metrics.RecordHumanityCheck(assessment.Human)
	s.logger.ScoringLogger("verify_humanity_score", strconv.FormatBool(assessment.Human), time.Since(start), false)

	c.JSON(http.StatusOK, HumanityResponse{
		Human:      assessment.Human,
		Accuracy:   assessment.Accuracy.Dec(),
		NoEvidence: assessment.NoEvidence,
		Checks: HumanityChecks{
			AccuracyAboveThreshold: assessment.AccuracyOK,
			LatencyAboveFloor:      assessment.AboveLatencyFloor,
			LatencyBelowCeiling:    assessment.BelowLatencyCeiling,
		},
	})
}

// deceptionRating godoc
// @Summary      Calculate deception rating
// @Description  Percentage of interactions in which an agent passed as human, truncated toward zero.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        request  body      DeceptionRequest  true  "Interaction counts"
// @Success      200      {object}  DeceptionResponse
// @Failure      400      {object}  map[string]interface{}
// @Failure      422      {object}  map[string]interface{}
// @Failure      429      {object}  map[string]interface{}
// @Router       /v1/deception/rating [post]
func (s *Server) deceptionRating(c *gin.Context) {
	var req DeceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	args, problems := parseArgs(map[string]UintArg{
		"times_fooled_human": req.TimesFooledHuman,
		"total_interactions": req.TotalInteractions,
	})
	if problems != nil {
		apperrors.Respond(c, apperrors.NewValidationErrorWithMap(problems))
		return
	}

	start := time.Now()
	rating, err := s.verifier.CalculateDeceptionRating(args["times_fooled_human"], args["total_interactions"])
	if err != nil {
		s.scoringFault(c, "calculate_deception_rating", err, start)
		return
	}

	s.metrics.IncrementDeceptionRating()
	s.logger.ScoringLogger("calculate_deception_rating", rating.Dec(), time.Since(start), false)

	c.JSON(http.StatusOK, DeceptionResponse{Rating: rating.Dec()})
}

// thresholds godoc
// @Summary      Active thresholds
// @Description  Returns the thresholds and arithmetic policies the engine was built with.
// @Tags         scoring
// @Produce      json
// @Success      200  {object}  ThresholdsResponse
// @Router       /v1/thresholds [get]
func (s *Server) thresholds(c *gin.Context) {
	cfg := s.verifier.Config()
	c.JSON(http.StatusOK, ThresholdsResponse{
		Thresholds: cfg.Thresholds,
		Overflow:   cfg.Overflow.String(),
		Ratio:      cfg.Ratio.String(),
	})
}

// health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (s *Server) health(c *gin.Context) {
	status := "ok"
	redisStatus := "disabled"
	if s.redis.IsEnabled() {
		redisStatus = "ok"
		if err := s.redis.HealthCheck(c.Request.Context()); err != nil {
			redisStatus = "unreachable"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"timestamp":  time.Now().Format(time.RFC3339),
		"version":    Version,
		"redis":      redisStatus,
		"redis_pool": s.redis.GetPoolStats(),
		"metrics":    s.metrics.GetStats(),
		"rate_limit": s.limiter.GetStats(),
		"cache":      s.cache.Stats(),
	})
}

func (s *Server) scoringFault(c *gin.Context, operation string, err error, start time.Time) {
	s.metrics.IncrementScoringFault()
	s.logger.ScoringLogger(operation, "fault", time.Since(start), false)
	apperrors.Respond(c, apperrors.FromScoringError(err))
}
