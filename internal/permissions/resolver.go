package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBoardNotFound   = fmt.Errorf("board %w", ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
)

// BoardAccess is a loaded board with the caller's permissions on it.
type BoardAccess struct {
	Board       *models.Board
	Permissions Permissions
}

// ProjectAccess is a loaded project, its board, and the caller's permissions.
type ProjectAccess struct {
	Project     *models.Project
	Board       *models.Board
	Permissions Permissions
}

// TaskAccess is a loaded task, its parents, and the caller's permissions.
type TaskAccess struct {
	Task        *models.Task
	Project     *models.Project
	Board       *models.Board
	Permissions Permissions
}

// Resolver loads entities and their parents and evaluates permissions. It only
// reads, so concurrent calls need no coordination.
type Resolver struct {
	boards   repository.BoardRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
}

func NewResolver(boards repository.BoardRepository, projects repository.ProjectRepository, tasks repository.TaskRepository) *Resolver {
	return &Resolver{
		boards:   boards,
		projects: projects,
		tasks:    tasks,
	}
}

func (r *Resolver) Board(ctx context.Context, userID, boardID string) (*BoardAccess, error) {
	board, err := r.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	return &BoardAccess{
		Board:       board,
		Permissions: ForBoard(userID, board),
	}, nil
}

func (r *Resolver) Project(ctx context.Context, userID, projectID string) (*ProjectAccess, error) {
	project, err := r.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	board, err := r.loadBoard(ctx, project.BoardID)
	if err != nil {
		return nil, err
	}

	return &ProjectAccess{
		Project:     project,
		Board:       board,
		Permissions: ForProject(userID, project, board),
	}, nil
}

func (r *Resolver) Task(ctx context.Context, userID, taskID string) (*TaskAccess, error) {
	task, err := r.tasks.FindByID(ctx, taskID, "Creator", "LastModifier", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := r.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	board, err := r.loadBoard(ctx, task.BoardID)
	if err != nil {
		return nil, err
	}

	return &TaskAccess{
		Task:        task,
		Project:     project,
		Board:       board,
		Permissions: ForTask(userID, task, project, board),
	}, nil
}

func (r *Resolver) loadBoard(ctx context.Context, id string) (*models.Board, error) {
	board, err := r.boards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

func (r *Resolver) loadProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := r.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
