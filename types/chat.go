package types

import (
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Content        string     `json:"content"`
	FileURL        *string    `json:"file_url,omitempty"`
	FileType       *string    `json:"file_type,omitempty"`
}

type SendMessageResponse struct {
	Conversation     models.Conversation `json:"conversation"`
	UserMessage      models.Message      `json:"user_message"`
	AssistantMessage models.Message      `json:"assistant_message"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type ShareRequest struct {
	Enabled bool `json:"enabled"`
}

type SharedConversationResponse struct {
	Conversation models.Conversation `json:"conversation"`
	Messages     []models.Message    `json:"messages"`
}

// GatewayMessage mirrors the wire shape of the chat function endpoint.
type GatewayMessage struct {
	Role     string  `json:"role"`
	Content  string  `json:"content"`
	FileURL  *string `json:"file_url,omitempty"`
	FileType *string `json:"file_type,omitempty"`
}

type GatewayRequest struct {
	Messages []GatewayMessage `json:"messages"`
}

type GatewayResponse struct {
	Content string `json:"content"`
}
