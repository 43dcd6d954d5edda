package router

import (
	"database/sql"
	"net/http"

	taskHandler "routinemelt/internal/task"
	"routinemelt/internal/task/repository"
	"routinemelt/internal/task/service"
	"routinemelt/middleware"
	"routinemelt/socket"
)

func Setup(db *sql.DB, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	// WebSocket event feed
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(string)
		socket.ServeWs(hub, w, r, userID)
	})
	mux.Handle("/ws", middleware.AuthMiddleware(wsHandler))

	// REST API
	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo, hub)
	handler := taskHandler.NewTaskHandler(taskService)
	auth := middleware.AuthMiddleware

	mux.Handle("/api/tasks", auth(http.HandlerFunc(handler.Tasks)))
	mux.Handle("/api/tasks/day", auth(http.HandlerFunc(handler.GetDay)))
	mux.Handle("/api/tasks/summary", auth(http.HandlerFunc(handler.Summary)))
	mux.Handle("/api/tasks/export", auth(http.HandlerFunc(handler.Export)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.CORSMiddleware(mux)
}
