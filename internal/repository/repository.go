package repository

import (
	"context"
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a new board
	Create(ctx context.Context, board *models.Board) error

	// FindByID finds a board by ID with its members preloaded
	FindByID(ctx context.Context, id string) (*models.Board, error)

	// FindByInviteCode finds a board by invite code
	FindByInviteCode(ctx context.Context, code string) (*models.Board, error)

	// ListForUser lists boards the user owns or is a member of
	ListForUser(ctx context.Context, userID string) ([]models.Board, error)

	// Update updates a board's own columns
	Update(ctx context.Context, board *models.Board) error

	// Delete deletes a board with its member and project-list rows
	Delete(ctx context.Context, id string) error

	// AddMember adds a member to a board
	AddMember(ctx context.Context, member *models.BoardMember) error

	// RemoveMember removes a member from a board
	RemoveMember(ctx context.Context, boardID, userID string) error

	// ProjectIDs returns the board's project list
	ProjectIDs(ctx context.Context, boardID string) ([]string, error)

	// ReconcileProjects makes the board's project list match the projects
	// pointing at the board. It is idempotent.
	ReconcileProjects(ctx context.Context, boardID string) (*ReconcileResult, error)

	// ListIDs returns the IDs of all boards
	ListIDs(ctx context.Context) ([]string, error)
}

// ReconcileResult lists the project-list entries a reconciliation changed.
type ReconcileResult struct {
	BoardID string   `json:"board_id"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Changed reports whether the reconciliation modified anything.
func (r *ReconcileResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// ProjectFilter holds filtering options for listing projects of a board
type ProjectFilter struct {
	BoardID  string
	Search   string
	Page     int
	PageSize int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateInBoard creates a project and appends it to its board's project
	// list in one transaction
	CreateInBoard(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with its members preloaded
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// List retrieves projects of a board with pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// ListVisibleIDs returns IDs of every project the user can view
	ListVisibleIDs(ctx context.Context, userID string) ([]string, error)

	// Update updates a project's own columns
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and its member rows
	Delete(ctx context.Context, id string) error

	// AddMember adds a member to a project
	AddMember(ctx context.Context, member *models.ProjectMember) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs []string
	// IncludeUserID also includes tasks created by or assigned to this user
	IncludeUserID string
	Status        *models.TaskStatus
	AssigneeID    *string
	Search        string
	DueDateFrom   *time.Time
	DueDateTo     *time.Time
	SortByDueDate bool
	Page          int
	PageSize      int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task's own columns
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id string) error
}
