package dao

import (
	"context"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationDAO struct {
	DB *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{DB: db}
}

func (dao *ConversationDAO) Create(ctx context.Context, userID uuid.UUID, title string) (*models.Conversation, error) {
	conv := models.Conversation{UserID: userID, Title: title}
	if err := dao.DB.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (dao *ConversationDAO) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).First(&conv, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetShared returns the conversation only when it is flagged shared.
func (dao *ConversationDAO) GetShared(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).First(&conv, "id = ? AND is_shared = ?", id, true).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (dao *ConversationDAO) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (dao *ConversationDAO) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := dao.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Conversation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	// messages cascade on postgres; sqlite test DBs need the explicit sweep
	return dao.DB.WithContext(ctx).
		Where("conversation_id = ?", id).
		Delete(&models.Message{}).Error
}

func (dao *ConversationDAO) UpdateShare(ctx context.Context, id uuid.UUID, isShared bool, shareLink *string) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_shared": isShared, "share_link": shareLink}).Error
}

func (dao *ConversationDAO) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("title", title).Error
}

// Touch bumps updated_at so the sidebar ordering follows activity.
func (dao *ConversationDAO) Touch(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
