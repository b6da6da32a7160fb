package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses. Any valid status may
// follow any other.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID             string     `gorm:"type:varchar(36);primarykey" json:"id"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	DueDate        *time.Time `json:"due_date"`
	BoardID        string     `gorm:"type:varchar(36);not null;index" json:"board_id"`
	ProjectID      string     `gorm:"type:varchar(36);not null;index" json:"project_id"`
	AssigneeID     *string    `gorm:"type:varchar(36);index" json:"assignee_id"`
	CreatorID      string     `gorm:"type:varchar(36);not null;index" json:"creator_id"`
	LastModifierID string     `gorm:"type:varchar(36);not null" json:"last_modifier_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Creator      User  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	LastModifier User  `gorm:"foreignKey:LastModifierID" json:"last_modifier,omitempty"`
	Assignee     *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// IsAssignee reports whether userID is the task's assignee.
func (t *Task) IsAssignee(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
