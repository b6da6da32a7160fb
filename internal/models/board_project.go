package models

import "time"

// BoardProject is one entry of a board's project list. Project.BoardID is the
// back-reference and the two must agree.
type BoardProject struct {
	BoardID   string    `gorm:"type:varchar(36);primarykey" json:"board_id"`
	ProjectID string    `gorm:"type:varchar(36);primarykey;index" json:"project_id"`
	AddedAt   time.Time `json:"added_at"`
}
