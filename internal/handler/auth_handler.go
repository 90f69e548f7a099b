package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/pkg/response"
)

type Authenticator interface {
	Register(ctx context.Context, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	h.issue(c, h.auth.Register)
}

func (h *AuthHandler) Login(c *gin.Context) {
	h.issue(c, h.auth.Login)
}

func (h *AuthHandler) issue(c *gin.Context, fn func(ctx context.Context, email, password string) (*model.User, string, error)) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	user, token, err := fn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": user})
}
