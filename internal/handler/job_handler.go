package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/response"
	"github.com/xxxsen/nextstep/internal/service"
)

type JobManager interface {
	Create(ctx context.Context, userID string, in service.JobInput) (*model.Job, bool, error)
	Get(ctx context.Context, userID, jobID string) (*model.Job, error)
	List(ctx context.Context, userID string, limit, offset uint) ([]model.Job, error)
}

type JobHandler struct {
	jobs JobManager
}

func NewJobHandler(jobs JobManager) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) Create(c *gin.Context) {
	var req service.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	job, queued, err := h.jobs.Create(c.Request.Context(), getUserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"job": job, "recommendation_queued": queued})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, job)
}

func (h *JobHandler) List(c *gin.Context) {
	limit, offset := page(c)
	items, err := h.jobs.List(c.Request.Context(), getUserID(c), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	if items == nil {
		items = []model.Job{}
	}
	response.Success(c, gin.H{"jobs": items})
}
