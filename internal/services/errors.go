package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/permissions"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var (
	ErrTitleRequired     = newValidationError("title", "title is required")
	ErrBoardIDRequired   = newValidationError("board_id", "board_id is required")
	ErrProjectIDRequired = newValidationError("project_id", "project_id is required")
	ErrBoardMismatch     = newValidationError("board_id", "board_id does not match the project's board")
	ErrInvalidStatus     = newValidationError("status", "status must be one of TODO, IN_PROGRESS, DONE")
	ErrInvalidAssignee   = newValidationError("assignee_id", "assignee must be a user who can view the project")
	ErrMemberRequired    = newValidationError("user_id", "user_id or email is required")
	ErrEmailRequired     = newValidationError("email", "email is required")
	ErrNameRequired      = newValidationError("name", "name is required")
	ErrPasswordTooShort  = newValidationError("password", fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	ErrTextRequired      = newValidationError("text", "text is required")
	ErrInviteRequired    = newValidationError("invite_code", "invite_code is required")
)

var (
	// ErrPermissionDenied is returned when the actor can view an entity but may
	// not perform the requested change.
	ErrPermissionDenied = errors.New("permission denied")

	ErrUserNotFound         = fmt.Errorf("user %w", permissions.ErrNotFound)
	ErrBoardMemberNotFound  = fmt.Errorf("board member %w", permissions.ErrNotFound)
	ErrInvalidInviteCode    = fmt.Errorf("invite code %w", permissions.ErrNotFound)
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAlreadyBoardMember   = errors.New("user is already a member of this board")
	ErrAlreadyProjectMember = errors.New("user is already a member of this project")
	ErrCannotRemoveOwner    = errors.New("the board owner cannot be removed")

	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// authorize hides entities the actor cannot view and rejects disallowed actions.
func authorize(perms permissions.Permissions, action permissions.Action, notFound error) error {
	if !perms.CanView {
		return notFound
	}
	if !perms.Allows(action) {
		return ErrPermissionDenied
	}
	return nil
}

// notFoundAs reports a missing entity or missing parent as notFound.
func notFoundAs(err, notFound error) error {
	if errors.Is(err, permissions.ErrNotFound) {
		return notFound
	}
	return err
}
