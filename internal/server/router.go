package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pathwise/pathwise-backend/internal/handlers"
	"github.com/pathwise/pathwise-backend/internal/middleware"
)

type RouterConfig struct {
	SessionMiddleware *middleware.SessionMiddleware
	ChatHandler       *handlers.ChatHandler
	PathwayHandler    *handlers.PathwayHandler
	PracticeHandler   *handlers.PracticeHandler
	TutorHandler      *handlers.TutorHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.SessionMiddleware.AttachSession())
	{
		api.POST("/chats", cfg.ChatHandler.Create)
		api.GET("/chats", cfg.ChatHandler.List)
		api.GET("/chats/:id", cfg.ChatHandler.GetSnapshot)
		api.PUT("/chats/:id", cfg.ChatHandler.SaveSnapshot)
		api.POST("/chats/:id/turns", cfg.ChatHandler.AppendTurn)
		api.PATCH("/chats/:id", cfg.ChatHandler.Rename)
		api.DELETE("/chats/:id", cfg.ChatHandler.Delete)

		api.POST("/chats/:id/pathway", cfg.PathwayHandler.SaveAsPathway)

		api.POST("/practice", cfg.PracticeHandler.Generate)

		api.GET("/tutor/ask", cfg.TutorHandler.Ask)
		api.POST("/tutor/chat", cfg.TutorHandler.GeneralChat)
		api.GET("/content", cfg.TutorHandler.LookupContent)
	}

	return router
}
