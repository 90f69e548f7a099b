package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/pkg/errcode"
	"github.com/xxxsen/nextstep/internal/pkg/jwt"
	"github.com/xxxsen/nextstep/internal/pkg/response"
)

const (
	ContextUserIDKey    = "user_id"
	ContextUserEmailKey = "user_email"
)

// JWTAuth rejects requests without a valid bearer token and exposes the
// caller's identity under ContextUserIDKey.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid authorization")
			return
		}
		claims, err := jwt.ParseToken(strings.TrimSpace(parts[1]), secret)
		if err != nil || claims.UserID == "" {
			unauthorized(c, "invalid token")
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		if claims.Email != "" {
			c.Set(ContextUserEmailKey, claims.Email)
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	response.Fail(c, http.StatusUnauthorized, errcode.ErrUnauthorized, msg)
	c.Abort()
}
