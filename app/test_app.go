// file: app/test_app.go

package app

import (
	"database/sql"
	"go-collab-api/handler"
	"go-collab-api/repository"
	"go-collab-api/router"
	"go-collab-api/service"
	"go-collab-api/websocket"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// TestApp wires the full stack against externally provided connections so
// integration tests can drive the real router.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
	Hub    *websocket.Hub
}

func NewTestApp(db *sql.DB, redisClient *redis.Client) *TestApp {
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

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

	return &TestApp{
		DB:     db,
		Router: router.NewRouter(userHandler, projectHandler, wsHandler, authMiddleware),
		Hub:    hub,
	}
}
