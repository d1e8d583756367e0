// File: app/app.go
package app

import (
	"context"
	"go-collab-api/config"
	"go-collab-api/db"
	"go-collab-api/handler"
	"go-collab-api/logger"
	"go-collab-api/repository"
	"go-collab-api/router"
	"go-collab-api/service"
	"go-collab-api/websocket"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// Repositories, services, and handlers are created here and handed their
	// dependencies explicitly; nothing reaches for process-wide state.

	userRepo := repository.NewUserRepository(database)
	projectRepo := repository.NewProjectRepository(database)

	revocation := service.NewRevocationCache(redisClient)
	authService := service.NewAuthService(userRepo, revocation)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo)

	hub := websocket.NewHub()
	go hub.Run()

	userHandler := handler.NewUserHandler(authService, userService)
	projectHandler := handler.NewProjectHandler(projectService)
	wsHandler := handler.NewWebSocketHandler(hub, authService, revocation, userRepo, projectService)
	authMiddleware := handler.NewAuthMiddleware(authService, revocation, userRepo)

	r := router.NewRouter(userHandler, projectHandler, wsHandler, authMiddleware)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
