package models

import "time"

type BoardMember struct {
	BoardID  string    `gorm:"type:varchar(36);primarykey" json:"board_id"`
	UserID   string    `gorm:"type:varchar(36);primarykey;index" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
