package dao

import (
	"context"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupDAO struct {
	DB *gorm.DB
}

func NewGroupDAO(db *gorm.DB) *GroupDAO {
	return &GroupDAO{DB: db}
}

func (dao *GroupDAO) Create(ctx context.Context, group *models.Group) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		owner := models.GroupMember{
			GroupID: group.ID,
			UserID:  group.CreatedBy,
			Role:    "admin",
		}
		return tx.Create(&owner).Error
	})
}

func (dao *GroupDAO) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := dao.DB.WithContext(ctx).First(&group, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (dao *GroupDAO) GetByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var group models.Group
	err := dao.DB.WithContext(ctx).First(&group, "invite_code = ?", code).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (dao *GroupDAO) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	err := dao.DB.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.updated_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (dao *GroupDAO) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (dao *GroupDAO) GetMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	var member models.GroupMember
	err := dao.DB.WithContext(ctx).
		First(&member, "group_id = ? AND user_id = ?", groupID, userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (dao *GroupDAO) AddMember(ctx context.Context, member *models.GroupMember) error {
	return dao.DB.WithContext(ctx).Create(member).Error
}

func (dao *GroupDAO) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := dao.DB.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (dao *GroupDAO) CreateMessage(ctx context.Context, msg *models.GroupMessage) error {
	return dao.DB.WithContext(ctx).Create(msg).Error
}

func (dao *GroupDAO) GetMessage(ctx context.Context, id uuid.UUID) (*models.GroupMessage, error) {
	var msg models.GroupMessage
	err := dao.DB.WithContext(ctx).First(&msg, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (dao *GroupDAO) ListMessages(ctx context.Context, groupID uuid.UUID) ([]models.GroupMessage, error) {
	var msgs []models.GroupMessage
	err := dao.DB.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (dao *GroupDAO) UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) error {
	res := dao.DB.WithContext(ctx).
		Model(&models.GroupMessage{}).
		Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (dao *GroupDAO) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	res := dao.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.GroupMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
