package dao

import (
	"context"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileDAO struct {
	DB *gorm.DB
}

func NewProfileDAO(db *gorm.DB) *ProfileDAO {
	return &ProfileDAO{DB: db}
}

func (dao *ProfileDAO) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := dao.DB.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (dao *ProfileDAO) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := dao.DB.WithContext(ctx).First(&profile, "email = ?", email).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateByEmail creates a fresh free-tier profile on first login.
func (dao *ProfileDAO) GetOrCreateByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile, err := dao.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	created := models.Profile{
		Email:            email,
		SubscriptionType: models.SubscriptionFree,
		LastPromptReset:  time.Now(),
	}
	if err := dao.DB.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (dao *ProfileDAO) IncrementPromptCount(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("daily_prompt_count", gorm.Expr("daily_prompt_count + 1")).Error
}

func (dao *ProfileDAO) ResetPromptCount(ctx context.Context, id uuid.UUID, at time.Time) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"daily_prompt_count": 0,
			"last_prompt_reset":  at,
		}).Error
}

// DowngradeToFree clears an expired pro subscription.
func (dao *ProfileDAO) DowngradeToFree(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subscription_type":       models.SubscriptionFree,
			"subscription_start_date": nil,
			"subscription_end_date":   nil,
		}).Error
}

func (dao *ProfileDAO) Save(ctx context.Context, profile *models.Profile) error {
	return dao.DB.WithContext(ctx).Save(profile).Error
}
