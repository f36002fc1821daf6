package types

import (
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"github.com/google/uuid"
)

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type RenameGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

// SendGroupMessageRequest carries an optional client-generated id so the
// realtime INSERT event confirms the sender's optimistic placeholder
// instead of duplicating it.
type SendGroupMessageRequest struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Content  string     `json:"content" validate:"required"`
	ReplyTo  *uuid.UUID `json:"reply_to,omitempty"`
	FileURL  *string    `json:"file_url,omitempty"`
	FileType *string    `json:"file_type,omitempty"`
}

type EditGroupMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type JoinGroupResponse struct {
	Group  models.Group `json:"group"`
	Joined bool         `json:"joined"` // false when already a member
}

type GroupDetailResponse struct {
	Group   models.Group         `json:"group"`
	Members []models.GroupMember `json:"members"`
}
