package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/permissions"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	resolver    *permissions.Resolver
	generator   TaskGenerator
	now         func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when AI
// drafting is not configured.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, resolver *permissions.Resolver, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		resolver:    resolver,
		generator:   generator,
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID        string
	ProjectID     string
	AssignedToMe  bool
	DueToday      bool
	Status        *models.TaskStatus
	Search        string
	SortByDueDate bool
	Page          int
	PageSize      int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
	BoardID     string
	ProjectID   string
	AssigneeID  *string
	CreatorID   string
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *string
	ClearAssignee bool
}

// GenerateTasksInput represents input for AI task drafting
type GenerateTasksInput struct {
	Text      string
	ProjectID string
	UserID    string
}

// ListTasks returns tasks visible to the user based on the provided filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:        input.Status,
		Search:        strings.TrimSpace(input.Search),
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	if input.ProjectID != "" {
		access, err := s.resolver.Project(ctx, input.UserID, input.ProjectID)
		if err != nil {
			return nil, 0, notFoundAs(err, permissions.ErrProjectNotFound)
		}
		if err := authorize(access.Permissions, permissions.View, permissions.ErrProjectNotFound); err != nil {
			return nil, 0, err
		}
		filter.ProjectIDs = []string{input.ProjectID}
	} else {
		projectIDs, err := s.projectRepo.ListVisibleIDs(ctx, input.UserID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve visible projects: %w", err)
		}
		filter.ProjectIDs = projectIDs
		filter.IncludeUserID = input.UserID
	}

	if input.AssignedToMe {
		filter.AssigneeID = &input.UserID
	}
	if input.DueToday {
		now := s.now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DueDateFrom = &startOfDay
		filter.DueDateTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task the user can view together with the user's permissions
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*permissions.TaskAccess, error) {
	access, err := s.resolver.Task(ctx, userID, taskID)
	if err != nil {
		return nil, notFoundAs(err, permissions.ErrTaskNotFound)
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return access, nil
}

// CreateTask creates a task in a project the creator can view
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.ProjectID == "" {
		return nil, ErrProjectIDRequired
	}
	if input.BoardID == "" {
		return nil, ErrBoardIDRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	access, err := s.resolver.Project(ctx, input.CreatorID, input.ProjectID)
	if err != nil {
		return nil, notFoundAs(err, permissions.ErrProjectNotFound)
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrProjectNotFound); err != nil {
		return nil, err
	}
	if access.Project.BoardID != input.BoardID {
		return nil, ErrBoardMismatch
	}

	assigneeID, err := s.validateAssignee(ctx, input.AssigneeID, access)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          title,
		Description:    input.Description,
		Status:         input.Status,
		DueDate:        input.DueDate,
		BoardID:        input.BoardID,
		ProjectID:      input.ProjectID,
		AssigneeID:     assigneeID,
		CreatorID:      input.CreatorID,
		LastModifierID: input.CreatorID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(ctx, task.ID)
}

// UpdateTask applies changes to a task and records the actor as its last
// modifier. The creator is never rewritten.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	access, err := s.authorizedTask(ctx, actorID, taskID, permissions.Edit)
	if err != nil {
		return nil, err
	}
	task := access.Task
	changed := false

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		changed = changed || title != task.Title
		task.Title = title
	}
	if input.Description != nil {
		changed = changed || *input.Description != task.Description
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		changed = changed || *input.Status != task.Status
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		changed = changed || task.DueDate != nil
		task.DueDate = nil
	} else if input.DueDate != nil {
		changed = changed || task.DueDate == nil || !task.DueDate.Equal(*input.DueDate)
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		changed = changed || task.AssigneeID != nil
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		projectAccess := &permissions.ProjectAccess{Project: access.Project, Board: access.Board}
		assigneeID, err := s.validateAssignee(ctx, input.AssigneeID, projectAccess)
		if err != nil {
			return nil, err
		}
		changed = changed || !sameID(task.AssigneeID, assigneeID)
		task.AssigneeID = assigneeID
	}

	// Nothing changed: the task keeps its last modifier.
	if !changed {
		return task, nil
	}

	task.LastModifierID = actorID
	// Stale preloaded relations must not feed back into the foreign keys.
	task.Creator, task.LastModifier, task.Assignee = models.User{}, models.User{}, nil

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(ctx, task.ID)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID string) error {
	if _, err := s.authorizedTask(ctx, actorID, taskID, permissions.Delete); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Permissions reports what the user may do with the task. A task whose
// project or board is gone is reported as not found.
func (s *TaskService) Permissions(ctx context.Context, userID, taskID string) (permissions.Permissions, error) {
	access, err := s.resolver.Task(ctx, userID, taskID)
	if err != nil {
		return permissions.Permissions{}, notFoundAs(err, permissions.ErrTaskNotFound)
	}
	return access.Permissions, nil
}

// GenerateTasks uses AI to draft tasks for a project the user can view
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrTextRequired
	}
	if input.ProjectID == "" {
		return nil, ErrProjectIDRequired
	}

	access, err := s.resolver.Project(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return nil, notFoundAs(err, permissions.ErrProjectNotFound)
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrProjectNotFound); err != nil {
		return nil, err
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, access.Project.Title, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) authorizedTask(ctx context.Context, userID, taskID string, action permissions.Action) (*permissions.TaskAccess, error) {
	access, err := s.resolver.Task(ctx, userID, taskID)
	if err != nil {
		return nil, notFoundAs(err, permissions.ErrTaskNotFound)
	}
	if err := authorize(access.Permissions, action, permissions.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return access, nil
}

// validateAssignee checks that the assignee exists and can view the project.
func (s *TaskService) validateAssignee(ctx context.Context, assigneeID *string, access *permissions.ProjectAccess) (*string, error) {
	if assigneeID == nil || *assigneeID == "" {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, *assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if !permissions.ForProject(user.ID, access.Project, access.Board).CanView {
		return nil, ErrInvalidAssignee
	}
	return &user.ID, nil
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *TaskService) reload(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Creator", "LastModifier", "Assignee")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}
