package models

import (
	"time"

	"gorm.io/gorm"
)

type Board struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     string    `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	InviteCode  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner    User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members  []BoardMember  `gorm:"foreignKey:BoardID" json:"members,omitempty"`
	Projects []BoardProject `gorm:"foreignKey:BoardID" json:"projects,omitempty"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// IsMember reports whether userID is listed in the board's members.
// Members must be preloaded.
func (b *Board) IsMember(userID string) bool {
	for _, m := range b.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
