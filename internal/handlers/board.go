package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/services"
)

type BoardHandler struct {
	boardService *services.BoardService
}

func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// CreateBoard creates a new board owned by the current user
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateBoardRequest struct {
		Title       string `json:"title" binding:"max=255"`
		Description string `json:"description"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), services.CreateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board, userID))
}

// ListBoards returns the boards the current user owns or is a member of
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardListResponse(boards, userID))
}

// GetBoard returns a board with its members and project list
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	details, err := h.boardService.GetBoard(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDetailDTO(*details.Board, details.ProjectIDs, dto.ToBoardPermissionsDTO(details.Permissions), userID))
}

// UpdateBoard updates a board's title or description
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	body, ok := bindPatch(c)
	if !ok {
		return
	}
	title, err := body.stringField("title")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	description, err := body.clearableField("description")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), userID, c.Param("id"), services.UpdateBoardInput{
		Title:       title,
		Description: description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board, userID))
}

// DeleteBoard deletes a board
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

// GetPermissions returns the current user's permissions on a board
func (h *BoardHandler) GetPermissions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	perms, err := h.boardService.Permissions(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardPermissionsDTO(perms))
}

// AddMember adds a user to a board by ID or email
func (h *BoardHandler) AddMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.boardService.AddMember(c.Request.Context(), userID, c.Param("id"), services.AddMemberInput{
		UserID: req.UserID,
		Email:  req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardMemberDTO(*member))
}

// RemoveMember removes a user from a board
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.boardService.RemoveMember(c.Request.Context(), userID, c.Param("id"), c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// JoinBoard adds the current user to the board holding the invite code
func (h *BoardHandler) JoinBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.JoinByInviteCode(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board, userID))
}

// RegenerateInviteCode replaces a board's invite code
func (h *BoardHandler) RegenerateInviteCode(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	board, err := h.boardService.RegenerateInviteCode(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invite_code": board.InviteCode,
	})
}

// Reconcile repairs a board's project list
func (h *BoardHandler) Reconcile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.boardService.Reconcile(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReconcileResponse{
		BoardID: result.BoardID,
		Added:   result.Added,
		Removed: result.Removed,
	})
}
