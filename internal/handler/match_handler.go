package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/response"
	"github.com/xxxsen/nextstep/internal/service"
)

type Matcher interface {
	Match(ctx context.Context, userID, resumeID, jobID string) (*model.MatchResult, error)
}

type Improver interface {
	Improve(ctx context.Context, userID, resumeID, jobID string, pct int) (*service.ImproveResult, error)
}

type MatchHandler struct {
	matcher  Matcher
	improver Improver
}

func NewMatchHandler(matcher Matcher, improver Improver) *MatchHandler {
	return &MatchHandler{matcher: matcher, improver: improver}
}

func (h *MatchHandler) Match(c *gin.Context) {
	resumeID, jobID := c.Query("resume_id"), c.Query("job_id")
	if resumeID == "" || jobID == "" {
		badRequest(c, "resume_id and job_id are required")
		return
	}
	result, err := h.matcher.Match(c.Request.Context(), getUserID(c), resumeID, jobID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type improveRequest struct {
	JobID               string `json:"job_id"`
	AIContentPercentage *int   `json:"ai_content_percentage"`
}

func (h *MatchHandler) Improve(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if req.JobID == "" {
		badRequest(c, "job_id is required")
		return
	}
	pct := service.DefaultAIContentPercentage
	if req.AIContentPercentage != nil {
		pct = *req.AIContentPercentage
	}
	result, err := h.improver.Improve(c.Request.Context(), getUserID(c), c.Param("id"), req.JobID, pct)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
