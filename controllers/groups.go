package controllers

import (
	"context"
	"math/rand"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/realtime"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/types"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const joinNotification = "telah bergabung melalui link! 🚀"

type GroupsController struct {
	groupDAO *dao.GroupDAO
	hub      *realtime.Hub
}

func NewGroupsController(groupDAO *dao.GroupDAO, hub *realtime.Hub) *GroupsController {
	return &GroupsController{groupDAO: groupDAO, hub: hub}
}

const inviteAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func generateInviteCode() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = inviteAlphabet[rand.Intn(len(inviteAlphabet))]
	}
	return string(b)
}

func (c *GroupsController) requireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	member, err := c.groupDAO.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrForbidden
	}
	return nil
}

func (c *GroupsController) CreateGroup(ctx context.Context, userID uuid.UUID, req types.CreateGroupRequest) (*models.Group, error) {
	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
		InviteCode:  generateInviteCode(),
	}
	if err := c.groupDAO.Create(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *GroupsController) ListGroups(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	return c.groupDAO.ListForUser(ctx, userID)
}

func (c *GroupsController) GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*types.GroupDetailResponse, error) {
	if err := c.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	group, err := c.groupDAO.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}
	members, err := c.groupDAO.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &types.GroupDetailResponse{Group: *group, Members: members}, nil
}

func (c *GroupsController) RenameGroup(ctx context.Context, userID, groupID uuid.UUID, name string) error {
	if err := c.requireMember(ctx, groupID, userID); err != nil {
		return err
	}
	return c.groupDAO.UpdateName(ctx, groupID, name)
}

// Join resolves an invite code to a group and adds the caller as a member.
// The call is idempotent: an existing member gets the group back with
// Joined=false and no new row. The join notification insert is best effort.
func (c *GroupsController) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*types.JoinGroupResponse, error) {
	group, err := c.groupDAO.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrInvalidInvite
	}

	existing, err := c.groupDAO.GetMember(ctx, group.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &types.JoinGroupResponse{Group: *group, Joined: false}, nil
	}

	member := models.GroupMember{GroupID: group.ID, UserID: userID, Role: "member"}
	if err := c.groupDAO.AddMember(ctx, &member); err != nil {
		return nil, err
	}

	notif := models.GroupMessage{
		GroupID:   group.ID,
		UserID:    &userID,
		Role:      models.RoleUser,
		Content:   joinNotification,
		CreatedAt: time.Now(),
	}
	if err := c.groupDAO.CreateMessage(ctx, &notif); err != nil {
		logging.ErrorLogger.Error("join notification insert failed",
			zap.String("group_id", group.ID.String()), zap.Error(err))
	} else {
		c.hub.Publish(ctx, realtime.Event{Type: realtime.EventInsert, GroupID: group.ID, Message: notif})
	}

	return &types.JoinGroupResponse{Group: *group, Joined: true}, nil
}

func (c *GroupsController) ListMessages(ctx context.Context, userID, groupID uuid.UUID) ([]models.GroupMessage, error) {
	if err := c.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return c.groupDAO.ListMessages(ctx, groupID)
}

func (c *GroupsController) SendMessage(ctx context.Context, userID, groupID uuid.UUID, req types.SendGroupMessageRequest) (*models.GroupMessage, error) {
	if err := c.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	msg := models.GroupMessage{
		GroupID:   groupID,
		UserID:    &userID,
		Role:      models.RoleUser,
		Content:   req.Content,
		ReplyTo:   req.ReplyTo,
		FileURL:   req.FileURL,
		FileType:  req.FileType,
		CreatedAt: time.Now(),
	}
	if req.ID != nil {
		msg.ID = *req.ID
	}
	if err := c.groupDAO.CreateMessage(ctx, &msg); err != nil {
		return nil, err
	}
	c.hub.Publish(ctx, realtime.Event{Type: realtime.EventInsert, GroupID: groupID, Message: msg})
	return &msg, nil
}

func (c *GroupsController) ownMessage(ctx context.Context, userID, groupID, messageID uuid.UUID) (*models.GroupMessage, error) {
	msg, err := c.groupDAO.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.GroupID != groupID {
		return nil, ErrNotFound
	}
	if msg.UserID == nil || *msg.UserID != userID {
		return nil, ErrForbidden
	}
	return msg, nil
}

func (c *GroupsController) EditMessage(ctx context.Context, userID, groupID, messageID uuid.UUID, content string) (*models.GroupMessage, error) {
	msg, err := c.ownMessage(ctx, userID, groupID, messageID)
	if err != nil {
		return nil, err
	}
	if err := c.groupDAO.UpdateMessageContent(ctx, messageID, content); err != nil {
		return nil, err
	}
	msg.Content = content
	c.hub.Publish(ctx, realtime.Event{Type: realtime.EventUpdate, GroupID: groupID, Message: *msg})
	return msg, nil
}

func (c *GroupsController) DeleteMessage(ctx context.Context, userID, groupID, messageID uuid.UUID) error {
	msg, err := c.ownMessage(ctx, userID, groupID, messageID)
	if err != nil {
		return err
	}
	if err := c.groupDAO.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	c.hub.Publish(ctx, realtime.Event{Type: realtime.EventDelete, GroupID: groupID, Message: *msg})
	return nil
}

// InviteLink is the shareable join URL for a group.
func (c *GroupsController) InviteLink(origin string, group *models.Group) string {
	return origin + "/join/" + group.InviteCode
}
