package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/auth"
	"github.com/yukikurage/kanban-api/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth    *AuthHandler
	Board   *BoardHandler
	Project *ProjectHandler
	Task    *TaskHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed on r.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens *auth.TokenManager) {
	requireAuth := middleware.RequireAuth(tokens)
	boardID := middleware.RequireUUIDParam("id", "board")
	projectID := middleware.RequireUUIDParam("id", "project")
	taskID := middleware.RequireUUIDParam("id", "task")

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/token", h.Auth.Token)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		boards := api.Group("/boards")
		boards.Use(requireAuth)
		{
			boards.POST("", h.Board.CreateBoard)
			boards.GET("", h.Board.ListBoards)
			boards.POST("/join", h.Board.JoinBoard)
			boards.GET("/:id", boardID, h.Board.GetBoard)
			boards.PATCH("/:id", boardID, h.Board.UpdateBoard)
			boards.DELETE("/:id", boardID, h.Board.DeleteBoard)
			boards.GET("/:id/permissions", boardID, h.Board.GetPermissions)
			boards.POST("/:id/members", boardID, h.Board.AddMember)
			boards.DELETE("/:id/members/:user_id", boardID, middleware.RequireUUIDParam("user_id", "user"), h.Board.RemoveMember)
			boards.POST("/:id/regenerate-code", boardID, h.Board.RegenerateInviteCode)
			boards.POST("/:id/reconcile", boardID, h.Board.Reconcile)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", h.Project.ListProjects)
			projects.POST("", h.Project.CreateProject)
			projects.GET("/:id", projectID, h.Project.GetProject)
			projects.PATCH("/:id", projectID, h.Project.UpdateProject)
			projects.DELETE("/:id", projectID, h.Project.DeleteProject)
			projects.GET("/:id/permissions", projectID, h.Project.GetPermissions)
			projects.POST("/:id/members", projectID, h.Project.AddMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", h.Task.ListTasks)
			tasks.POST("", h.Task.CreateTask)
			tasks.POST("/generate", h.Task.GenerateTasks)
			tasks.GET("/:id", taskID, h.Task.GetTask)
			tasks.PATCH("/:id", taskID, h.Task.UpdateTask)
			tasks.DELETE("/:id", taskID, h.Task.DeleteTask)
			tasks.GET("/:id/permissions", taskID, h.Task.GetPermissions)
		}
	}
}
