package repository

import (
	"context"
	"sort"
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(board).Error
}

// FindByID finds a board by ID with its members preloaded
func (r *GormBoardRepository) FindByID(ctx context.Context, id string) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByInviteCode finds a board by invite code
func (r *GormBoardRepository) FindByInviteCode(ctx context.Context, code string) (*models.Board, error) {
	var board models.Board
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListForUser lists boards the user owns or is a member of, newest first
func (r *GormBoardRepository) ListForUser(ctx context.Context, userID string) ([]models.Board, error) {
	db := r.db.WithContext(ctx)
	memberBoards := db.Model(&models.BoardMember{}).Select("board_id").Where("user_id = ?", userID)

	var boards []models.Board
	if err := db.
		Where("owner_id = ?", userID).
		Or("id IN (?)", memberBoards).
		Order("created_at DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update updates a board's own columns
func (r *GormBoardRepository) Update(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(board).Error
}

// Delete deletes the board together with its member and project-list rows.
// Projects and tasks that point at the board are left in place.
func (r *GormBoardRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&models.BoardProject{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Board{}).Error
	})
}

// AddMember adds a member to a board
func (r *GormBoardRepository) AddMember(ctx context.Context, member *models.BoardMember) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// RemoveMember removes a member from a board
func (r *GormBoardRepository) RemoveMember(ctx context.Context, boardID, userID string) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&models.BoardMember{}).Error
}

// ProjectIDs returns the board's project list in insertion order
func (r *GormBoardRepository) ProjectIDs(ctx context.Context, boardID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.BoardProject{}).
		Where("board_id = ?", boardID).
		Order("added_at ASC").
		Pluck("project_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ReconcileProjects adds list entries for projects whose board_id points at the
// board and removes entries for projects that are gone or point elsewhere.
func (r *GormBoardRepository) ReconcileProjects(ctx context.Context, boardID string) (*ReconcileResult, error) {
	result := &ReconcileResult{BoardID: boardID, Added: []string{}, Removed: []string{}}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linked []string
		if err := tx.Model(&models.BoardProject{}).
			Where("board_id = ?", boardID).
			Pluck("project_id", &linked).Error; err != nil {
			return err
		}

		var actual []string
		if err := tx.Model(&models.Project{}).
			Where("board_id = ?", boardID).
			Pluck("id", &actual).Error; err != nil {
			return err
		}

		result.Added = difference(actual, linked)
		result.Removed = difference(linked, actual)

		if len(result.Added) > 0 {
			now := time.Now()
			links := make([]models.BoardProject, len(result.Added))
			for i, projectID := range result.Added {
				links[i] = models.BoardProject{BoardID: boardID, ProjectID: projectID, AddedAt: now}
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		if len(result.Removed) > 0 {
			if err := tx.Where("board_id = ? AND project_id IN ?", boardID, result.Removed).
				Delete(&models.BoardProject{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListIDs returns the IDs of all boards
func (r *GormBoardRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Board{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// difference returns the sorted values of a that are not in b
func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, v := range b {
		exclude[v] = struct{}{}
	}

	out := []string{}
	for _, v := range a {
		if _, ok := exclude[v]; ok {
			continue
		}
		exclude[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
