package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	InviteCode  string    `json:"invite_code" gorm:"type:varchar(32);uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GroupMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID  uuid.UUID `json:"group_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	Role     string    `json:"role" gorm:"type:varchar(50);not null;default:member"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null;autoCreateTime"`
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// GroupMessage optionally back-references another group message via ReplyTo.
// The reference carries no ownership; deleting the target leaves it dangling.
type GroupMessage struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID  `json:"group_id" gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid"`
	Role      string     `json:"role" gorm:"type:varchar(50);not null;default:user"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	FileURL   *string    `json:"file_url,omitempty" gorm:"type:varchar(512)"`
	FileType  *string    `json:"file_type,omitempty" gorm:"type:varchar(100)"`
	ReplyTo   *uuid.UUID `json:"reply_to,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;index"`
}

func (m *GroupMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
