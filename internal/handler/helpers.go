package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/embedding"
	"github.com/xxxsen/nextstep/internal/middleware"
	"github.com/xxxsen/nextstep/internal/parser"
	"github.com/xxxsen/nextstep/internal/pkg/errcode"
	appErr "github.com/xxxsen/nextstep/internal/pkg/errors"
	"github.com/xxxsen/nextstep/internal/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func badRequest(c *gin.Context, msg string) {
	response.Fail(c, http.StatusBadRequest, errcode.ErrInvalid, msg)
}

// page reads limit/offset query parameters, clamping the limit.
func page(c *gin.Context) (uint, uint) {
	limit, err := strconv.ParseUint(c.Query("limit"), 10, 32)
	if err != nil || limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := strconv.ParseUint(c.Query("offset"), 10, 32)
	if err != nil {
		offset = 0
	}
	return uint(limit), uint(offset)
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, msg := classify(err)
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Int("status", status),
		zap.Error(err),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed")
	} else {
		logger.Warn("request rejected")
	}
	response.Fail(c, status, code, msg)
}

// classify maps a service error onto http status, business code and a
// client-safe message. Format and configuration errors carry their own text.
func classify(err error) (int, int, string) {
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return http.StatusBadRequest, errcode.ErrUnsupportedFormat, err.Error()
	case errors.Is(err, parser.ErrEmptyDocument):
		return http.StatusBadRequest, errcode.ErrEmptyDocument, err.Error()
	case errors.Is(err, parser.ErrExtractionFailure):
		return http.StatusBadRequest, errcode.ErrExtractionFailed, err.Error()
	case errors.Is(err, parser.ErrFormat):
		return http.StatusBadRequest, errcode.ErrInvalidFile, err.Error()
	case errors.Is(err, appErr.ErrTooLarge):
		return http.StatusBadRequest, errcode.ErrFileTooLarge, err.Error()
	case errors.Is(err, embedding.ErrModelUnavailable):
		return http.StatusServiceUnavailable, errcode.ErrModelUnavailable, "embedding model unavailable"
	case errors.Is(err, ai.ErrConfiguration):
		return http.StatusBadRequest, errcode.ErrAIConfiguration, err.Error()
	}
	if kind, ok := ai.KindOf(err); ok {
		switch kind {
		case ai.KindAuth:
			return http.StatusUnauthorized, errcode.ErrAIAuth, "ai provider rejected the api key"
		case ai.KindRateLimit:
			return http.StatusTooManyRequests, errcode.ErrAIRateLimited, "ai provider rate limit reached"
		default:
			return http.StatusInternalServerError, errcode.ErrAIProvider, "ai provider error"
		}
	}
	switch {
	case errors.Is(err, ai.ErrMessageGenerationFailed):
		return http.StatusInternalServerError, errcode.ErrMessageGeneration, "message generation failed"
	case errors.Is(err, appErr.ErrUnauthorized):
		return http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized"
	case errors.Is(err, appErr.ErrForbidden):
		return http.StatusForbidden, errcode.ErrForbidden, "forbidden"
	case errors.Is(err, appErr.ErrNotFound):
		return http.StatusNotFound, errcode.ErrNotFound, "not found"
	case errors.Is(err, appErr.ErrInvalid):
		return http.StatusBadRequest, errcode.ErrInvalid, err.Error()
	case errors.Is(err, appErr.ErrConflict):
		return http.StatusConflict, errcode.ErrConflict, "conflict"
	default:
		return http.StatusInternalServerError, errcode.ErrInternal, "internal error"
	}
}
