package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionFree = "free"
	SubscriptionPro  = "pro"

	// DailyPromptLimit is the daily prompt ceiling for free accounts.
	DailyPromptLimit = 12
)

type Profile struct {
	ID                    uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email                 string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName           *string    `json:"display_name,omitempty" gorm:"type:varchar(255)"`
	SubscriptionType      string     `json:"subscription_type" gorm:"type:varchar(50);not null;default:free"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date,omitempty"`
	DailyPromptCount      int        `json:"daily_prompt_count" gorm:"not null;default:0"`
	LastPromptReset       time.Time  `json:"last_prompt_reset" gorm:"not null"`
	CreatedAt             time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt             time.Time  `json:"updated_at" gorm:"not null"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.LastPromptReset.IsZero() {
		p.LastPromptReset = time.Now()
	}
	return nil
}

// CanSendPrompt reports whether the send-message path may call the model.
// Pro accounts are unlimited; free accounts are capped per day.
func (p *Profile) CanSendPrompt() bool {
	if p.SubscriptionType == SubscriptionPro {
		return true
	}
	return p.DailyPromptCount < DailyPromptLimit
}
