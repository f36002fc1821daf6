package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message belongs to a conversation and is ordered by created_at ascending.
// There is no explicit link between a user message and its assistant reply;
// adjacency in the ordered sequence is the linkage.
type Message struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Role           string    `json:"role" gorm:"type:varchar(50);not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	FileURL        *string   `json:"file_url,omitempty" gorm:"type:varchar(512)"`
	FileType       *string   `json:"file_type,omitempty" gorm:"type:varchar(100)"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;index"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
