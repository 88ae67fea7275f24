package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pathwise/pathwise-backend/internal/db"
	"github.com/pathwise/pathwise-backend/internal/handlers"
	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/middleware"
	"github.com/pathwise/pathwise-backend/internal/repos"
	"github.com/pathwise/pathwise-backend/internal/server"
	"github.com/pathwise/pathwise-backend/internal/services"
	"github.com/pathwise/pathwise-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	sessionSecret := utils.GetEnv("SESSION_JWT_SECRET", "defaultsecret", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	chatRepo := repos.NewChatRepo(thePG, log)
	pathwayRepo := repos.NewPathwayRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		// Practice generation fails open without a credential.
		log.Warn("Could not init AIClient, practice generation disabled", "error", err)
		aiClient = nil
	}
	identityService := services.NewIdentityService(thePG, log, userRepo)
	chatService := services.NewChatService(thePG, log, identityService, chatRepo)
	pathwayService := services.NewPathwayService(thePG, log, identityService, chatRepo, pathwayRepo)
	practiceService := services.NewPracticeService(log, aiClient)
	tutorService := services.NewTutorService(log)

	// Handlers
	log.Info("Setting up handlers from main...")
	chatHandler := handlers.NewChatHandler(chatService)
	pathwayHandler := handlers.NewPathwayHandler(pathwayService)
	practiceHandler := handlers.NewPracticeHandler(practiceService)
	tutorHandler := handlers.NewTutorHandler(tutorService)

	// Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(log, sessionSecret)

	// Router
	log.Info("Setting up router from main...")
	routerCfg := server.RouterConfig{
		SessionMiddleware: sessionMiddleware,
		ChatHandler:       chatHandler,
		PathwayHandler:    pathwayHandler,
		PracticeHandler:   practiceHandler,
		TutorHandler:      tutorHandler,
	}
	if allowOrigins != "" {
		routerCfg.AllowOrigins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(routerCfg)

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
