package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/permissions"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	resolver    *permissions.Resolver
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, resolver *permissions.Resolver) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		resolver:    resolver,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title       string
	Description string
	BoardID     string
	OwnerID     string
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Title       *string
	Description *string
}

// ListProjectsInput represents filters for listing the projects of a board
type ListProjectsInput struct {
	UserID   string
	BoardID  string
	Search   string
	Page     int
	PageSize int
}

// CreateProject creates a project on a board the caller can view and links it
// into the board's project list.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.BoardID == "" {
		return nil, ErrBoardIDRequired
	}

	access, err := s.resolver.Board(ctx, input.OwnerID, input.BoardID)
	if err != nil {
		return nil, err
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrBoardNotFound); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       title,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		BoardID:     access.Board.ID,
	}
	if err := s.projectRepo.CreateInBoard(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the projects of a board the caller can view
func (s *ProjectService) ListProjects(ctx context.Context, input ListProjectsInput) ([]models.Project, int64, error) {
	if input.BoardID == "" {
		return nil, 0, ErrBoardIDRequired
	}

	access, err := s.resolver.Board(ctx, input.UserID, input.BoardID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrBoardNotFound); err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		BoardID:  input.BoardID,
		Search:   strings.TrimSpace(input.Search),
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// GetProject returns a project the caller can view with the caller's permissions
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (*permissions.ProjectAccess, error) {
	access, err := s.resolver.Project(ctx, userID, projectID)
	if err != nil {
		return nil, notFoundAs(err, permissions.ErrProjectNotFound)
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrProjectNotFound); err != nil {
		return nil, err
	}
	return access, nil
}

// UpdateProject updates a project's title and description
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.authorizedProject(ctx, userID, projectID, permissions.Edit)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes a project. The board's project list is repaired by
// reconciliation.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	if _, err := s.authorizedProject(ctx, userID, projectID, permissions.Delete); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember adds an existing user to the project
func (s *ProjectService) AddMember(ctx context.Context, actorID, projectID string, input AddMemberInput) (*models.ProjectMember, error) {
	project, err := s.authorizedProject(ctx, actorID, projectID, permissions.Edit)
	if err != nil {
		return nil, err
	}

	user, err := lookupUser(ctx, s.userRepo, input)
	if err != nil {
		return nil, err
	}
	if user.ID == project.OwnerID || project.IsMember(user.ID) {
		return nil, ErrAlreadyProjectMember
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}

	member.User = *user
	return member, nil
}

// Permissions reports what the user may do with the project. A project whose
// board is gone is reported as not found.
func (s *ProjectService) Permissions(ctx context.Context, userID, projectID string) (permissions.Permissions, error) {
	access, err := s.resolver.Project(ctx, userID, projectID)
	if err != nil {
		return permissions.Permissions{}, notFoundAs(err, permissions.ErrProjectNotFound)
	}
	return access.Permissions, nil
}

func (s *ProjectService) authorizedProject(ctx context.Context, userID, projectID string, action permissions.Action) (*models.Project, error) {
	access, err := s.resolver.Project(ctx, userID, projectID)
	if err != nil {
		return nil, notFoundAs(err, permissions.ErrProjectNotFound)
	}
	if err := authorize(access.Permissions, action, permissions.ErrProjectNotFound); err != nil {
		return nil, err
	}
	return access.Project, nil
}
