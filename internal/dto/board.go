package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
)

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	InviteCode  string    `json:"invite_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoardMemberDTO represents a member of a board
type BoardMemberDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

// BoardDetailDTO represents a board with its members and project list
type BoardDetailDTO struct {
	BoardDTO
	MemberIDs   []string            `json:"member_ids"`
	ProjectIDs  []string            `json:"project_ids"`
	Permissions BoardPermissionsDTO `json:"permissions"`
}

// BoardListResponse represents the boards visible to the caller
type BoardListResponse struct {
	Boards []BoardDTO `json:"boards"`
}

// ReconcileResponse reports the project-list entries a reconciliation changed
type ReconcileResponse struct {
	BoardID string   `json:"board_id"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ToBoardDTO converts a Board model to BoardDTO. Only the owner sees the
// invite code.
func ToBoardDTO(board models.Board, viewerID string) BoardDTO {
	dto := BoardDTO{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		OwnerID:     board.OwnerID,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
	if viewerID == board.OwnerID {
		dto.InviteCode = board.InviteCode
	}
	return dto
}

// ToBoardListResponse converts boards to BoardListResponse
func ToBoardListResponse(boards []models.Board, viewerID string) BoardListResponse {
	items := make([]BoardDTO, len(boards))
	for i, board := range boards {
		items[i] = ToBoardDTO(board, viewerID)
	}
	return BoardListResponse{Boards: items}
}

// ToBoardDetailDTO converts a board with its project list to BoardDetailDTO
func ToBoardDetailDTO(board models.Board, projectIDs []string, perms BoardPermissionsDTO, viewerID string) BoardDetailDTO {
	memberIDs := make([]string, len(board.Members))
	for i, m := range board.Members {
		memberIDs[i] = m.UserID
	}
	if projectIDs == nil {
		projectIDs = []string{}
	}

	return BoardDetailDTO{
		BoardDTO:    ToBoardDTO(board, viewerID),
		MemberIDs:   memberIDs,
		ProjectIDs:  projectIDs,
		Permissions: perms,
	}
}

// ToBoardMemberDTO converts a member to DTO
func ToBoardMemberDTO(member models.BoardMember) BoardMemberDTO {
	return BoardMemberDTO{
		User:     ToUserDTO(member.User),
		JoinedAt: member.JoinedAt,
	}
}

