package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         models.TaskStatus `json:"status"`
	DueDate        *time.Time        `json:"due_date"`
	BoardID        string            `json:"board_id"`
	ProjectID      string            `json:"project_id"`
	AssigneeID     *string           `json:"assignee_id"`
	CreatorID      string            `json:"creator_id"`
	LastModifierID string            `json:"last_modifier_id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Creator        *UserDTO          `json:"creator,omitempty"`
	LastModifier   *UserDTO          `json:"last_modifier,omitempty"`
	Assignee       *UserDTO          `json:"assignee,omitempty"`
}

// TaskDetailDTO represents a task with the caller's permissions
type TaskDetailDTO struct {
	TaskDTO
	Permissions TaskPermissionsDTO `json:"permissions"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// GeneratedTaskDTO is an AI task draft; drafts are not stored
type GeneratedTaskDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// GeneratedTasksResponse wraps AI task drafts
type GeneratedTasksResponse struct {
	Tasks []GeneratedTaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		DueDate:        task.DueDate,
		BoardID:        task.BoardID,
		ProjectID:      task.ProjectID,
		AssigneeID:     task.AssigneeID,
		CreatorID:      task.CreatorID,
		LastModifierID: task.LastModifierID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		Creator:        toUserDTOPtr(&task.Creator),
		LastModifier:   toUserDTOPtr(&task.LastModifier),
		Assignee:       toUserDTOPtr(task.Assignee),
	}
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, pagination utils.PaginationResponse) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: pagination,
	}
}
