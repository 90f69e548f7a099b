package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/response"
	"github.com/xxxsen/nextstep/internal/service"
)

type RecommendationReader interface {
	List(ctx context.Context, userID, jobID, resumeID string) ([]model.Recommendation, error)
	History(ctx context.Context, userID string) (*service.History, error)
}

type RecommendationHandler struct {
	recs RecommendationReader
}

func NewRecommendationHandler(recs RecommendationReader) *RecommendationHandler {
	return &RecommendationHandler{recs: recs}
}

func (h *RecommendationHandler) List(c *gin.Context) {
	items, err := h.recs.List(c.Request.Context(), getUserID(c), c.Query("job_id"), c.Query("resume_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"recommendations": items})
}

func (h *RecommendationHandler) History(c *gin.Context) {
	history, err := h.recs.History(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, history)
}
