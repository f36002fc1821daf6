package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/realtime"
	"github.com/IkhsanDimas/nega-chatbot/services/llm"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- Helpers ---

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logging.InitLogger() // ensures loggers aren't nil
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// fakeGateway records every call and plays back a canned reply or fault.
type fakeGateway struct {
	reply string
	err   error
	calls [][]llm.Message
}

func (g *fakeGateway) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	g.calls = append(g.calls, messages)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type chatEnv struct {
	db      *gorm.DB
	gateway *fakeGateway
	chat    *ChatController
	convDAO *dao.ConversationDAO
	msgDAO  *dao.MessageDAO
	profile models.Profile
}

func setupChatEnv(t *testing.T) *chatEnv {
	t.Helper()
	db := setupTestDB(t)
	gateway := &fakeGateway{reply: "ok"}
	convDAO := dao.NewConversationDAO(db)
	msgDAO := dao.NewMessageDAO(db)
	profileDAO := dao.NewProfileDAO(db)

	profile := models.Profile{
		Email:            "user@example.com",
		SubscriptionType: models.SubscriptionFree,
		LastPromptReset:  time.Now(),
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return &chatEnv{
		db:      db,
		gateway: gateway,
		chat:    NewChatController(convDAO, msgDAO, profileDAO, gateway, "https://nega.example.com"),
		convDAO: convDAO,
		msgDAO:  msgDAO,
		profile: profile,
	}
}

// seedConversation inserts a conversation with the given role/content pairs,
// spacing timestamps so the stored order is unambiguous.
func (e *chatEnv) seedConversation(t *testing.T, turns ...[2]string) (*models.Conversation, []models.Message) {
	t.Helper()
	conv, err := e.convDAO.Create(context.Background(), e.profile.ID, "test")
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	base := time.Now().Add(-time.Hour)
	msgs := make([]models.Message, 0, len(turns))
	for i, turn := range turns {
		msg := models.Message{
			ConversationID: conv.ID,
			Role:           turn[0],
			Content:        turn[1],
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if err := e.msgDAO.Create(context.Background(), &msg); err != nil {
			t.Fatalf("failed to seed message: %v", err)
		}
		msgs = append(msgs, msg)
	}
	return conv, msgs
}

func setupGroupsEnv(t *testing.T) (*GroupsController, *dao.GroupDAO, *realtime.Hub, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	groupDAO := dao.NewGroupDAO(db)
	hub := realtime.NewHub(nil)
	return NewGroupsController(groupDAO, hub), groupDAO, hub, db
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}
