package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/services"
	"github.com/yukikurage/kanban-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the current user.
// Filters: projectId, status, assignee=me, due_today, search, sort=due_date.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		UserID:        userID,
		ProjectID:     c.Query("projectId"),
		AssignedToMe:  c.Query("assignee") == "me",
		DueToday:      c.Query("due_today") == "true",
		Search:        c.Query("search"),
		SortByDueDate: c.Query("sort") == "due_date",
		Page:          params.Page,
		PageSize:      params.Limit,
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, utils.NewPaginationResponse(params, total)))
}

// GetTask returns a task with the current user's permissions
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	access, err := h.taskService.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskDetailDTO{
		TaskDTO:     dto.ToTaskDTO(*access.Task),
		Permissions: dto.ToTaskPermissionsDTO(access.Permissions),
	})
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"max=255"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		DueDate     *time.Time        `json:"due_date"`
		BoardID     string            `json:"board_id"`
		ProjectID   string            `json:"project_id"`
		AssigneeID  *string           `json:"assignee_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		BoardID:     req.BoardID,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		CreatorID:   userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates the fields present in the body. An explicit null
// description, due_date or assignee_id clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	body, ok := bindPatch(c)
	if !ok {
		return
	}

	var input services.UpdateTaskInput
	var err error
	if input.Title, err = body.stringField("title"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.Description, err = body.clearableField("description"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	status, err := body.stringField("status")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if status != nil {
		s := models.TaskStatus(*status)
		input.Status = &s
	}
	if input.DueDate, err = body.timeField("due_date"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	input.ClearDueDate = body.isNull("due_date")
	if input.AssigneeID, err = body.stringField("assignee_id"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	input.ClearAssignee = body.isNull("assignee_id")

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GetPermissions returns the current user's permissions on a task
func (h *TaskHandler) GetPermissions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	perms, err := h.taskService.Permissions(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskPermissionsDTO(perms))
}

// GenerateTasks drafts task suggestions from text using AI. Drafts are not saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text      string `json:"text" binding:"required"`
		ProjectID string `json:"project_id" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generated, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:      req.Text,
		ProjectID: req.ProjectID,
		UserID:    userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	drafts := make([]dto.GeneratedTaskDTO, len(generated))
	for i, g := range generated {
		drafts[i] = dto.GeneratedTaskDTO{
			Title:       g.Title,
			Description: g.Description,
			DueDate:     g.DueDate,
		}
	}

	c.JSON(http.StatusOK, dto.GeneratedTasksResponse{Tasks: drafts})
}
