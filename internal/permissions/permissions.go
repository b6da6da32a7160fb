// Package permissions decides what a user may do with a board, project or task.
//
// The rule functions are pure and operate on entities that already carry their
// member lists. Resolver loads an entity together with its parents and applies
// the rules; a missing parent denies access with a not-found error.
package permissions

import "github.com/yukikurage/kanban-api/internal/models"

// Action is an operation gated by Permissions.
type Action int

const (
	View Action = iota
	Edit
	Delete
)

func (a Action) String() string {
	switch a {
	case View:
		return "view"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Permissions is the outcome of a permission check.
type Permissions struct {
	CanView   bool
	CanEdit   bool
	CanDelete bool
}

// Allows reports whether the action is permitted.
func (p Permissions) Allows(a Action) bool {
	switch a {
	case View:
		return p.CanView
	case Edit:
		return p.CanEdit
	case Delete:
		return p.CanDelete
	}
	return false
}

// ForBoard: only the owner edits or deletes; owner and members view.
func ForBoard(userID string, board *models.Board) Permissions {
	if userID == "" || board == nil {
		return Permissions{}
	}

	owner := userID == board.OwnerID
	return Permissions{
		CanView:   owner || board.IsMember(userID),
		CanEdit:   owner,
		CanDelete: owner,
	}
}

// ForProject: the project owner and the parent board owner modify; project
// members and board members additionally view.
func ForProject(userID string, project *models.Project, board *models.Board) Permissions {
	if userID == "" || project == nil || board == nil {
		return Permissions{}
	}

	modify := userID == project.OwnerID || userID == board.OwnerID
	return Permissions{
		CanView:   modify || project.IsMember(userID) || board.IsMember(userID),
		CanEdit:   modify,
		CanDelete: modify,
	}
}

// ForTask: board owner, project owner and task creator delete; the assignee
// additionally edits; anyone who can view the project views the task.
func ForTask(userID string, task *models.Task, project *models.Project, board *models.Board) Permissions {
	if userID == "" || task == nil || project == nil || board == nil {
		return Permissions{}
	}

	del := userID == board.OwnerID || userID == project.OwnerID || userID == task.CreatorID
	edit := del || task.IsAssignee(userID)
	return Permissions{
		CanView:   edit || ForProject(userID, project, board).CanView,
		CanEdit:   edit,
		CanDelete: del,
	}
}
