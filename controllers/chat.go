package controllers

import (
	"context"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/services/llm"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/types"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway turns an ordered message list into one generated reply.
type Gateway interface {
	Generate(ctx context.Context, messages []llm.Message) (string, error)
}

// Fallback contents shown in place of a reply when the gateway misbehaves.
// The transcript stays append-only; gateway faults never reach the caller.
const (
	fallbackSend       = "Maaf, saya tidak dapat memproses permintaan Anda."
	fallbackRegenerate = "Maaf, terjadi kesalahan saat memproses ulang."
)

type ChatController struct {
	convDAO    *dao.ConversationDAO
	msgDAO     *dao.MessageDAO
	profileDAO *dao.ProfileDAO
	gateway    Gateway
	origin     string
}

func NewChatController(convDAO *dao.ConversationDAO, msgDAO *dao.MessageDAO, profileDAO *dao.ProfileDAO, gateway Gateway, origin string) *ChatController {
	return &ChatController{
		convDAO:    convDAO,
		msgDAO:     msgDAO,
		profileDAO: profileDAO,
		gateway:    gateway,
		origin:     origin,
	}
}

func toGatewayMessages(msgs []models.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.Message{
			Role:     m.Role,
			Content:  m.Content,
			FileURL:  m.FileURL,
			FileType: m.FileType,
		})
	}
	return out
}

func (c *ChatController) ownedConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	conv, err := c.convDAO.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrNotFound
	}
	if conv.UserID != userID {
		return nil, ErrForbidden
	}
	return conv, nil
}

// conversationTitle derives a sidebar title from the first message.
func conversationTitle(content string, hasFile bool) string {
	if content == "" {
		if hasFile {
			return "Mengirim file..."
		}
		return "Percakapan Baru"
	}
	runes := []rune(content)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return content
}

// SendMessage appends a new user turn, calls the gateway with the full
// history, and appends the reply. The quota gate runs before anything is
// written; the counter increment is optimistic and best-effort.
func (c *ChatController) SendMessage(ctx context.Context, userID uuid.UUID, req types.SendMessageRequest) (*types.SendMessageResponse, error) {
	defer logging.LogDuration(ctx, "chat_send_message")()

	hasFile := req.FileURL != nil && *req.FileURL != ""
	if req.Content == "" && !hasFile {
		return nil, ErrEmptyContent
	}

	profile, err := c.profileDAO.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	if !profile.CanSendPrompt() {
		return nil, ErrQuotaExceeded
	}

	var conv *models.Conversation
	if req.ConversationID == nil {
		conv, err = c.convDAO.Create(ctx, userID, conversationTitle(req.Content, hasFile))
		if err != nil {
			return nil, err
		}
	} else {
		conv, err = c.ownedConversation(ctx, userID, *req.ConversationID)
		if err != nil {
			return nil, err
		}
	}

	history, err := c.msgDAO.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	userMsg := models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleUser,
		Content:        req.Content,
		FileURL:        req.FileURL,
		FileType:       req.FileType,
		CreatedAt:      time.Now(),
	}
	if err := c.msgDAO.Create(ctx, &userMsg); err != nil {
		return nil, err
	}

	// soft usage nudge, not a security control; not transactional with the send
	if profile.SubscriptionType != models.SubscriptionPro {
		if err := c.profileDAO.IncrementPromptCount(ctx, userID); err != nil {
			logging.ErrorLogger.Error("prompt counter increment failed",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	content, err := c.gateway.Generate(ctx, toGatewayMessages(append(history, userMsg)))
	if err != nil || content == "" {
		if err != nil {
			logging.ErrorLogger.Error("gateway failure on send", zap.Error(err))
		}
		content = fallbackSend
	}

	assistantMsg := models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleAssistant,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := c.msgDAO.Create(ctx, &assistantMsg); err != nil {
		return nil, err
	}

	if err := c.convDAO.Touch(ctx, conv.ID); err != nil {
		logging.ErrorLogger.Error("conversation touch failed", zap.Error(err))
	}

	return &types.SendMessageResponse{
		Conversation:     *conv,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// EditMessage rewrites a past user turn and regenerates its reply in place.
//
// The prompt context is the sequence up to and including the edited message;
// everything after it is deliberately excluded. When the next message is an
// assistant reply it is overwritten under its existing id so its position
// never shifts, and any rows further downstream are left untouched in
// storage. Otherwise a fresh assistant message is inserted right after the
// edited one. Single best-effort gateway call, no retries.
func (c *ChatController) EditMessage(ctx context.Context, userID, conversationID, messageID uuid.UUID, newContent string) ([]models.Message, error) {
	defer logging.LogDuration(ctx, "chat_edit_message")()

	if newContent == "" {
		return nil, ErrEmptyContent
	}
	if _, err := c.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	seq, err := c.msgDAO.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	i := -1
	for idx := range seq {
		if seq[idx].ID == messageID {
			i = idx
			break
		}
	}
	if i == -1 {
		return nil, ErrNotFound
	}
	if seq[i].Role != models.RoleUser {
		return nil, ErrNotEditable
	}

	// critical write: nothing else happens if the edit itself does not stick
	if err := c.msgDAO.UpdateContent(ctx, messageID, newContent); err != nil {
		return nil, err
	}
	seq[i].Content = newContent

	promptContext := seq[:i+1]
	hasExistingReply := i+1 < len(seq) && seq[i+1].Role == models.RoleAssistant

	content, err := c.gateway.Generate(ctx, toGatewayMessages(promptContext))
	if err != nil || content == "" {
		if err != nil {
			logging.ErrorLogger.Error("gateway failure on regenerate", zap.Error(err))
		}
		content = fallbackRegenerate
	}

	if hasExistingReply {
		if err := c.msgDAO.UpdateContent(ctx, seq[i+1].ID, content); err != nil {
			return nil, err
		}
		seq[i+1].Content = content
		return seq, nil
	}

	reply := models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := c.msgDAO.Create(ctx, &reply); err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(seq)+1)
	out = append(out, seq[:i+1]...)
	out = append(out, reply)
	out = append(out, seq[i+1:]...)
	return out, nil
}

func (c *ChatController) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return c.convDAO.ListByUser(ctx, userID)
}

func (c *ChatController) GetMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.Message, error) {
	if _, err := c.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return c.msgDAO.ListByConversation(ctx, conversationID)
}

func (c *ChatController) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := c.ownedConversation(ctx, userID, conversationID); err != nil {
		return err
	}
	return c.convDAO.Delete(ctx, userID, conversationID)
}

// ToggleShare flips public visibility. Enabling mints the share URL;
// disabling clears it.
func (c *ChatController) ToggleShare(ctx context.Context, userID, conversationID uuid.UUID, enabled bool) (*models.Conversation, error) {
	conv, err := c.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	var link *string
	if enabled {
		l := c.origin + "/shared/" + conversationID.String()
		link = &l
	}
	if err := c.convDAO.UpdateShare(ctx, conversationID, enabled, link); err != nil {
		return nil, err
	}
	conv.IsShared = enabled
	conv.ShareLink = link
	return conv, nil
}

// GetShared serves the read-only public view; unshared conversations are
// indistinguishable from missing ones.
func (c *ChatController) GetShared(ctx context.Context, conversationID uuid.UUID) (*types.SharedConversationResponse, error) {
	conv, err := c.convDAO.GetShared(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrNotFound
	}
	msgs, err := c.msgDAO.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &types.SharedConversationResponse{Conversation: *conv, Messages: msgs}, nil
}
