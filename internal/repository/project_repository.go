package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCreateProject is returned when inserting the project row fails.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrLinkProject is returned when appending the project to its board's list fails.
	ErrLinkProject = errors.New("project repository: link project to board failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateInBoard inserts the project and its board project-list entry atomically.
// Either both rows exist afterwards or neither does.
func (r *GormProjectRepository) CreateInBoard(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		link := &models.BoardProject{
			BoardID:   project.BoardID,
			ProjectID: project.ID,
			AddedAt:   time.Now(),
		}
		if err := tx.Create(link).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrLinkProject, err)
		}

		return nil
	})
}

// FindByID finds a project by ID with its members preloaded
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects of a board, newest first
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("projects.board_id = ?", filter.BoardID).
		Scopes(database.TitleContains("projects", filter.Search))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	var projects []models.Project
	if err := listQuery.Preload("Owner").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListVisibleIDs returns IDs of projects the user owns or belongs to, and of
// projects on boards the user owns or belongs to.
func (r *GormProjectRepository) ListVisibleIDs(ctx context.Context, userID string) ([]string, error) {
	db := r.db.WithContext(ctx)
	projectMemberships := db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	ownedBoards := db.Model(&models.Board{}).Select("id").Where("owner_id = ?", userID)
	boardMemberships := db.Model(&models.BoardMember{}).Select("board_id").Where("user_id = ?", userID)

	var ids []string
	if err := db.Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Or("id IN (?)", projectMemberships).
		Or("board_id IN (?)", ownedBoards).
		Or("board_id IN (?)", boardMemberships).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update updates a project's own columns
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// Delete deletes a project and its member rows. The board's project list and
// the project's tasks are not touched.
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}
