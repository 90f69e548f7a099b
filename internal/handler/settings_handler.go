package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/pkg/response"
	"github.com/xxxsen/nextstep/internal/service"
)

type SettingsManager interface {
	Get(ctx context.Context, userID string) (*service.SettingsView, error)
	Update(ctx context.Context, userID string, in service.SettingsUpdate) (*service.SettingsView, error)
}

type SettingsHandler struct {
	settings SettingsManager
}

func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	view, err := h.settings.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	view, err := h.settings.Update(c.Request.Context(), getUserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, view)
}
