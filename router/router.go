package router

import (
	"go-collab-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-collab-api/docs"
)

func NewRouter(userHandler *handler.UserHandler, projectHandler *handler.ProjectHandler, wsHandler *handler.WebSocketHandler, authMiddleware *handler.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Public user routes.
	mux.Handle("POST /users/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /users/login", handler.ErrorHandlingMiddleware(userHandler.Login))

	// Protected user routes.
	mux.Handle("GET /users/profile", authMiddleware.Handler(handler.ErrorHandlingMiddleware(userHandler.Profile)))
	mux.Handle("GET /users/logout", authMiddleware.Handler(handler.ErrorHandlingMiddleware(userHandler.Logout)))
	mux.Handle("GET /users/all", authMiddleware.Handler(handler.ErrorHandlingMiddleware(userHandler.GetAllUsers)))

	// Protected project routes.
	mux.Handle("POST /projects/create", authMiddleware.Handler(handler.ErrorHandlingMiddleware(projectHandler.Create)))
	mux.Handle("GET /projects/all", authMiddleware.Handler(handler.ErrorHandlingMiddleware(projectHandler.ListAll)))
	mux.Handle("GET /projects/get-project/{id}", authMiddleware.Handler(handler.ErrorHandlingMiddleware(projectHandler.Get)))
	mux.Handle("PUT /projects/add-user", authMiddleware.Handler(handler.ErrorHandlingMiddleware(projectHandler.AddUsers)))
	mux.Handle("PUT /projects/update-file-tree", authMiddleware.Handler(handler.ErrorHandlingMiddleware(projectHandler.UpdateFileTree)))
	mux.Handle("PUT /projects/save-project", authMiddleware.Handler(handler.ErrorHandlingMiddleware(projectHandler.SaveProject)))

	// Realtime room. The handler does its own gateway checks since the token
	// may arrive as a query parameter.
	mux.HandleFunc("GET /ws", wsHandler.Serve)

	return mux
}
