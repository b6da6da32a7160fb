package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/permissions"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
)

// BoardService handles board business logic
type BoardService struct {
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
	resolver  *permissions.Resolver
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo repository.BoardRepository, userRepo repository.UserRepository, resolver *permissions.Resolver) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		resolver:  resolver,
	}
}

// CreateBoardInput represents input for creating a board
type CreateBoardInput struct {
	Title       string
	Description string
	OwnerID     string
}

// UpdateBoardInput represents input for updating a board
type UpdateBoardInput struct {
	Title       *string
	Description *string
}

// BoardDetails is a board as seen by one user.
type BoardDetails struct {
	Board       *models.Board
	ProjectIDs  []string
	Permissions permissions.Permissions
}

// CreateBoard creates a board owned by the caller with a fresh invite code
func (s *BoardService) CreateBoard(ctx context.Context, input CreateBoardInput) (*models.Board, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	board := &models.Board{
		Title:       title,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		InviteCode:  inviteCode,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// ListBoards returns the boards the user owns or is a member of
func (s *BoardService) ListBoards(ctx context.Context, userID string) ([]models.Board, error) {
	boards, err := s.boardRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns a board with its project list
func (s *BoardService) GetBoard(ctx context.Context, userID, boardID string) (*BoardDetails, error) {
	access, err := s.resolver.Board(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if err := authorize(access.Permissions, permissions.View, permissions.ErrBoardNotFound); err != nil {
		return nil, err
	}

	projectIDs, err := s.boardRepo.ProjectIDs(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board projects: %w", err)
	}

	return &BoardDetails{
		Board:       access.Board,
		ProjectIDs:  projectIDs,
		Permissions: access.Permissions,
	}, nil
}

// UpdateBoard updates a board's title and description
func (s *BoardService) UpdateBoard(ctx context.Context, userID, boardID string, input UpdateBoardInput) (*models.Board, error) {
	board, err := s.authorizedBoard(ctx, userID, boardID, permissions.Edit)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		board.Title = title
	}
	if input.Description != nil {
		board.Description = *input.Description
	}

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

// DeleteBoard deletes a board. Only the owner may delete it.
func (s *BoardService) DeleteBoard(ctx context.Context, userID, boardID string) error {
	if _, err := s.authorizedBoard(ctx, userID, boardID, permissions.Delete); err != nil {
		return err
	}

	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}

// AddMember adds an existing user to the board
func (s *BoardService) AddMember(ctx context.Context, actorID, boardID string, input AddMemberInput) (*models.BoardMember, error) {
	board, err := s.authorizedBoard(ctx, actorID, boardID, permissions.Edit)
	if err != nil {
		return nil, err
	}

	user, err := lookupUser(ctx, s.userRepo, input)
	if err != nil {
		return nil, err
	}
	if user.ID == board.OwnerID || board.IsMember(user.ID) {
		return nil, ErrAlreadyBoardMember
	}

	member := &models.BoardMember{
		BoardID:  board.ID,
		UserID:   user.ID,
		JoinedAt: time.Now(),
	}
	if err := s.boardRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add board member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember removes a member from the board. The owner cannot be removed.
func (s *BoardService) RemoveMember(ctx context.Context, actorID, boardID, userID string) error {
	board, err := s.authorizedBoard(ctx, actorID, boardID, permissions.Edit)
	if err != nil {
		return err
	}

	if userID == board.OwnerID {
		return ErrCannotRemoveOwner
	}
	if !board.IsMember(userID) {
		return ErrBoardMemberNotFound
	}

	if err := s.boardRepo.RemoveMember(ctx, boardID, userID); err != nil {
		return fmt.Errorf("failed to remove board member: %w", err)
	}
	return nil
}

// JoinByInviteCode adds the user to the board holding the invite code
func (s *BoardService) JoinByInviteCode(ctx context.Context, userID, code string) (*models.Board, error) {
	code = utils.NormalizeInviteCode(code)
	if code == "" {
		return nil, ErrInviteRequired
	}

	found, err := s.boardRepo.FindByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find board by invite code: %w", err)
	}

	access, err := s.resolver.Board(ctx, userID, found.ID)
	if err != nil {
		return nil, err
	}
	if access.Permissions.CanView {
		return nil, ErrAlreadyBoardMember
	}

	member := &models.BoardMember{
		BoardID:  found.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.boardRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to join board: %w", err)
	}

	return access.Board, nil
}

// RegenerateInviteCode replaces the board's invite code
func (s *BoardService) RegenerateInviteCode(ctx context.Context, actorID, boardID string) (*models.Board, error) {
	board, err := s.authorizedBoard(ctx, actorID, boardID, permissions.Edit)
	if err != nil {
		return nil, err
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}
	board.InviteCode = inviteCode

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}
	return board, nil
}

// Reconcile repairs the board's project list. Only the owner may trigger it.
func (s *BoardService) Reconcile(ctx context.Context, actorID, boardID string) (*repository.ReconcileResult, error) {
	if _, err := s.authorizedBoard(ctx, actorID, boardID, permissions.Edit); err != nil {
		return nil, err
	}

	result, err := s.boardRepo.ReconcileProjects(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile board: %w", err)
	}
	return result, nil
}

// Permissions reports what the user may do with the board
func (s *BoardService) Permissions(ctx context.Context, userID, boardID string) (permissions.Permissions, error) {
	access, err := s.resolver.Board(ctx, userID, boardID)
	if err != nil {
		return permissions.Permissions{}, err
	}
	return access.Permissions, nil
}

func (s *BoardService) authorizedBoard(ctx context.Context, userID, boardID string, action permissions.Action) (*models.Board, error) {
	access, err := s.resolver.Board(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if err := authorize(access.Permissions, action, permissions.ErrBoardNotFound); err != nil {
		return nil, err
	}
	return access.Board, nil
}
