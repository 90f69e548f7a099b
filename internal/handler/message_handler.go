package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/pkg/response"
	"github.com/xxxsen/nextstep/internal/service"
)

type Messenger interface {
	Recruiter(ctx context.Context, userID string, req service.RecruiterRequest) (*service.MessageResult, error)
	Referral(ctx context.Context, userID string, req service.ReferralRequest) (*service.MessageResult, error)
}

type MessageHandler struct {
	messages Messenger
}

func NewMessageHandler(messages Messenger) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Recruiter(c *gin.Context) {
	var req service.RecruiterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResumeID == "" || req.JobID == "" {
		badRequest(c, "resume_id and job_id are required")
		return
	}
	result, err := h.messages.Recruiter(c.Request.Context(), getUserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *MessageHandler) Referral(c *gin.Context) {
	var req service.ReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResumeID == "" || req.JobID == "" {
		badRequest(c, "resume_id and job_id are required")
		return
	}
	result, err := h.messages.Referral(c.Request.Context(), getUserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
