package handler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/errcode"
	"github.com/xxxsen/nextstep/internal/pkg/response"
)

type ResumeManager interface {
	MaxBytes() int64
	Open(ctx context.Context, userID, resumeID string) (*model.Resume, io.ReadCloser, error)
	Upload(ctx context.Context, userID, filename string, data []byte) (*model.Resume, error)
	Get(ctx context.Context, userID, resumeID string) (*model.Resume, error)
	List(ctx context.Context, userID string, limit, offset uint) ([]model.Resume, error)
}

type ResumeHandler struct {
	resumes ResumeManager
}

func NewResumeHandler(resumes ResumeManager) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, errcode.ErrInvalidFile, "file is required")
		return
	}
	limit := h.resumes.MaxBytes()
	if file.Size > limit {
		response.Fail(c, http.StatusBadRequest, errcode.ErrFileTooLarge, "file exceeds "+formatUploadLimit(limit))
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()
	data, err := io.ReadAll(io.LimitReader(opened, limit+1))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, errcode.ErrInvalidFile, "failed to read file")
		return
	}
	resume, err := h.resumes.Upload(c.Request.Context(), getUserID(c), file.Filename, data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resume)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumes.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resume)
}

func (h *ResumeHandler) List(c *gin.Context) {
	limit, offset := page(c)
	items, err := h.resumes.List(c.Request.Context(), getUserID(c), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	if items == nil {
		items = []model.Resume{}
	}
	response.Success(c, gin.H{"resumes": items})
}

// File streams the original upload back to its owner.
func (h *ResumeHandler) File(c *gin.Context) {
	resume, rc, err := h.resumes.Open(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer rc.Close()
	contentType := mime.TypeByExtension(filepath.Ext(resume.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": resume.Filename}))
	c.DataFromReader(http.StatusOK, resume.FileSize, contentType, rc, nil)
}
