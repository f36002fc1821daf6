package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/types"
)

// --- Edit / regenerate ---

func TestEditTruncatesContextAtEditedMessage(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "q1"},
		[2]string{"assistant", "a1"},
		[2]string{"user", "q2"},
		[2]string{"assistant", "a2"},
		[2]string{"user", "q3"},
		[2]string{"assistant", "a3"},
	)

	_, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[2].ID, "q2 edited")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if len(e.gateway.calls) != 1 {
		t.Fatalf("expected 1 gateway call, got %d", len(e.gateway.calls))
	}
	sent := e.gateway.calls[0]
	if len(sent) != 3 {
		t.Fatalf("expected context of 3 messages, got %d", len(sent))
	}
	wantContents := []string{"q1", "a1", "q2 edited"}
	for i, want := range wantContents {
		if sent[i].Content != want {
			t.Errorf("context[%d] = %q, want %q", i, sent[i].Content, want)
		}
	}
}

func TestEditOverwritesExistingReplyInPlace(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "Hi"},
		[2]string{"assistant", "Hello!"},
	)
	e.gateway.reply = "Hi there yourself!"

	seq, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[0].ID, "Hi there")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if len(seq) != 2 {
		t.Fatalf("sequence length changed: got %d, want 2", len(seq))
	}
	if seq[0].Content != "Hi there" {
		t.Errorf("edited content = %q, want %q", seq[0].Content, "Hi there")
	}
	if seq[1].ID != msgs[1].ID {
		t.Errorf("assistant message id changed: got %s, want %s", seq[1].ID, msgs[1].ID)
	}
	if seq[1].Content != "Hi there yourself!" {
		t.Errorf("assistant content = %q, want %q", seq[1].Content, "Hi there yourself!")
	}

	// storage converged on the same values
	stored, err := e.msgDAO.ListByConversation(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 2 || stored[1].Content != "Hi there yourself!" || stored[1].ID != msgs[1].ID {
		t.Errorf("stored sequence not reconciled in place: %+v", stored)
	}
}

func TestEditInsertsReplyWhenNoneExists(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "q1"},
		[2]string{"assistant", "a1"},
		[2]string{"user", "unanswered"},
	)
	e.gateway.reply = "fresh answer"

	seq, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[2].ID, "still unanswered")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if len(seq) != 4 {
		t.Fatalf("expected 4 messages after insert, got %d", len(seq))
	}
	if seq[3].Role != models.RoleAssistant || seq[3].Content != "fresh answer" {
		t.Errorf("inserted reply wrong: %+v", seq[3])
	}
	stored, _ := e.msgDAO.ListByConversation(context.Background(), conv.ID)
	if len(stored) != 4 {
		t.Errorf("expected 4 stored messages, got %d", len(stored))
	}
}

func TestEditLeavesDownstreamMessagesUntouched(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "q1"},
		[2]string{"assistant", "a1"},
		[2]string{"user", "q2"},
		[2]string{"assistant", "a2"},
	)
	e.gateway.reply = "regenerated"

	if _, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[0].ID, "q1 edited"); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	stored, _ := e.msgDAO.ListByConversation(context.Background(), conv.ID)
	if len(stored) != 4 {
		t.Fatalf("downstream messages were removed: got %d rows", len(stored))
	}
	if stored[1].Content != "regenerated" {
		t.Errorf("reply not overwritten: %q", stored[1].Content)
	}
	// stale but present, by design of the non-destructive edit
	if stored[2].Content != "q2" || stored[3].Content != "a2" {
		t.Errorf("downstream rows changed: %q / %q", stored[2].Content, stored[3].Content)
	}
}

func TestEditRejectsAssistantMessage(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "q1"},
		[2]string{"assistant", "a1"},
	)

	_, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[1].ID, "rewritten")
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
	if len(e.gateway.calls) != 0 {
		t.Errorf("gateway should not be called for rejected edits")
	}
}

func TestEditUnknownMessageIsNotFound(t *testing.T) {
	e := setupChatEnv(t)
	conv, _ := e.seedConversation(t, [2]string{"user", "q1"})

	_, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, mustUUID(t), "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGatewayFaultBecomesFallbackReply(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "Hi"},
		[2]string{"assistant", "Hello!"},
	)
	e.gateway.err = errors.New("connection refused")

	seq, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[0].ID, "Hi again")
	if err != nil {
		t.Fatalf("gateway fault must not surface as an error, got %v", err)
	}
	if seq[1].Content != fallbackRegenerate {
		t.Errorf("expected fallback content %q, got %q", fallbackRegenerate, seq[1].Content)
	}
}

func TestGatewayEmptyContentBecomesFallbackOnSend(t *testing.T) {
	e := setupChatEnv(t)
	e.gateway.reply = ""

	resp, err := e.chat.SendMessage(context.Background(), e.profile.ID, types.SendMessageRequest{Content: "halo"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if resp.AssistantMessage.Content != fallbackSend {
		t.Errorf("expected fallback %q, got %q", fallbackSend, resp.AssistantMessage.Content)
	}
	if resp.AssistantMessage.Role != models.RoleAssistant {
		t.Errorf("fallback must still be an assistant message")
	}
}

// --- Send message / quota ---

func TestSendMessageAtQuotaCeilingShortCircuits(t *testing.T) {
	e := setupChatEnv(t)
	e.db.Model(&models.Profile{}).Where("id = ?", e.profile.ID).
		Update("daily_prompt_count", models.DailyPromptLimit)

	_, err := e.chat.SendMessage(context.Background(), e.profile.ID, types.SendMessageRequest{Content: "halo"})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(e.gateway.calls) != 0 {
		t.Errorf("gateway must not be called at the quota ceiling")
	}
}

func TestSendMessageBelowCeilingIncrementsCounter(t *testing.T) {
	e := setupChatEnv(t)
	e.db.Model(&models.Profile{}).Where("id = ?", e.profile.ID).
		Update("daily_prompt_count", models.DailyPromptLimit-1)

	resp, err := e.chat.SendMessage(context.Background(), e.profile.ID, types.SendMessageRequest{Content: "halo"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(e.gateway.calls) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(e.gateway.calls))
	}
	var profile models.Profile
	e.db.First(&profile, "id = ?", e.profile.ID)
	if profile.DailyPromptCount != models.DailyPromptLimit {
		t.Errorf("counter = %d, want %d", profile.DailyPromptCount, models.DailyPromptLimit)
	}
	if resp.UserMessage.Content != "halo" {
		t.Errorf("user message content = %q", resp.UserMessage.Content)
	}
}

func TestSendMessageProTierSkipsCounter(t *testing.T) {
	e := setupChatEnv(t)
	e.db.Model(&models.Profile{}).Where("id = ?", e.profile.ID).Updates(map[string]interface{}{
		"subscription_type":  models.SubscriptionPro,
		"daily_prompt_count": 500,
	})

	if _, err := e.chat.SendMessage(context.Background(), e.profile.ID, types.SendMessageRequest{Content: "halo"}); err != nil {
		t.Fatalf("pro send failed: %v", err)
	}
	var profile models.Profile
	e.db.First(&profile, "id = ?", e.profile.ID)
	if profile.DailyPromptCount != 500 {
		t.Errorf("pro counter must not move, got %d", profile.DailyPromptCount)
	}
}

func TestSendMessageCreatesConversationWithTruncatedTitle(t *testing.T) {
	e := setupChatEnv(t)
	long := "ini adalah pesan pembuka yang sangat panjang sekali melebihi lima puluh karakter"

	resp, err := e.chat.SendMessage(context.Background(), e.profile.ID, types.SendMessageRequest{Content: long})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	title := resp.Conversation.Title
	if len([]rune(title)) != 53 { // 50 + "..."
		t.Errorf("title length = %d (%q)", len([]rune(title)), title)
	}
	if title[:10] != long[:10] {
		t.Errorf("title prefix mismatch: %q", title)
	}
}

func TestSendMessageFullHistoryGoesToGateway(t *testing.T) {
	e := setupChatEnv(t)
	conv, _ := e.seedConversation(t,
		[2]string{"user", "q1"},
		[2]string{"assistant", "a1"},
	)

	if _, err := e.chat.SendMessage(context.Background(), e.profile.ID, types.SendMessageRequest{
		ConversationID: &conv.ID,
		Content:        "q2",
	}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	sent := e.gateway.calls[0]
	if len(sent) != 3 || sent[2].Content != "q2" {
		t.Errorf("gateway did not receive the full history plus new turn: %+v", sent)
	}
}

func TestEndToEndEditScenario(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t,
		[2]string{"user", "Hi"},
		[2]string{"assistant", "Hello!"},
	)
	e.gateway.reply = "Hi there yourself!"

	seq, err := e.chat.EditMessage(context.Background(), e.profile.ID, conv.ID, msgs[0].ID, "Hi there")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if seq[0].Content != "Hi there" || seq[1].Content != "Hi there yourself!" {
		t.Errorf("final sequence wrong: [%q, %q]", seq[0].Content, seq[1].Content)
	}
	if seq[1].ID != msgs[1].ID {
		t.Errorf("assistant id must survive the edit")
	}
}

// --- Sharing ---

func TestShareToggle(t *testing.T) {
	e := setupChatEnv(t)
	conv, _ := e.seedConversation(t, [2]string{"user", "q1"})

	// not shared yet: public view must 404
	if _, err := e.chat.GetShared(context.Background(), conv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unshared conversation must be hidden, got %v", err)
	}

	updated, err := e.chat.ToggleShare(context.Background(), e.profile.ID, conv.ID, true)
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	want := "https://nega.example.com/shared/" + conv.ID.String()
	if updated.ShareLink == nil || *updated.ShareLink != want {
		t.Errorf("share link = %v, want %q", updated.ShareLink, want)
	}

	shared, err := e.chat.GetShared(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("shared fetch failed: %v", err)
	}
	if len(shared.Messages) != 1 {
		t.Errorf("expected 1 shared message, got %d", len(shared.Messages))
	}

	if _, err := e.chat.ToggleShare(context.Background(), e.profile.ID, conv.ID, false); err != nil {
		t.Fatalf("unshare failed: %v", err)
	}
	if _, err := e.chat.GetShared(context.Background(), conv.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unshared conversation visible again, got %v", err)
	}
}

func TestForeignConversationIsForbidden(t *testing.T) {
	e := setupChatEnv(t)
	conv, msgs := e.seedConversation(t, [2]string{"user", "q1"})

	stranger := mustUUID(t)
	if _, err := e.chat.GetMessages(context.Background(), stranger, conv.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := e.chat.EditMessage(context.Background(), stranger, conv.ID, msgs[0].ID, "x"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden on edit, got %v", err)
	}
}

func TestDeleteConversationCascades(t *testing.T) {
	e := setupChatEnv(t)
	conv, _ := e.seedConversation(t,
		[2]string{"user", "q1"},
		[2]string{"assistant", "a1"},
	)

	if err := e.chat.DeleteConversation(context.Background(), e.profile.ID, conv.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var count int64
	e.db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&count)
	if count != 0 {
		t.Errorf("messages survived conversation delete: %d", count)
	}
}
