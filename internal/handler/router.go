package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/nextstep/internal/middleware"
)

type RouterDeps struct {
	Auth            *AuthHandler
	Resumes         *ResumeHandler
	Jobs            *JobHandler
	Match           *MatchHandler
	Messages        *MessageHandler
	Recommendations *RecommendationHandler
	Settings        *SettingsHandler
	JWTSecret       []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/resumes", deps.Resumes.Upload)
	authGroup.GET("/resumes", deps.Resumes.List)
	authGroup.GET("/resumes/:id", deps.Resumes.Get)
	authGroup.GET("/resumes/:id/file", deps.Resumes.File)
	authGroup.POST("/resumes/:id/improve", deps.Match.Improve)

	authGroup.POST("/jobs", deps.Jobs.Create)
	authGroup.GET("/jobs", deps.Jobs.List)
	authGroup.GET("/jobs/:id", deps.Jobs.Get)

	authGroup.GET("/match", deps.Match.Match)

	authGroup.POST("/messages/recruiter", deps.Messages.Recruiter)
	authGroup.POST("/messages/referral", deps.Messages.Referral)

	authGroup.GET("/recommendations", deps.Recommendations.List)
	authGroup.GET("/history", deps.Recommendations.History)

	authGroup.GET("/settings", deps.Settings.Get)
	authGroup.PUT("/settings", deps.Settings.Update)
}
