package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"github.com/google/uuid"
)

func TestProfileCounterResetsAfter24Hours(t *testing.T) {
	db := setupTestDB(t)
	profileDAO := dao.NewProfileDAO(db)
	ctrl := NewProfileController(profileDAO)

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	profile := models.Profile{
		Email:            "reset@example.com",
		SubscriptionType: models.SubscriptionFree,
		DailyPromptCount: 7,
		LastPromptReset:  base,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	// 23h59m later: still the same window, counter untouched
	ctrl.now = func() time.Time { return base.Add(24*time.Hour - time.Minute) }
	got, err := ctrl.Get(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.DailyPromptCount != 7 {
		t.Errorf("counter reset too early: got %d", got.DailyPromptCount)
	}

	// 24h later: lazy reset kicks in
	resetTime := base.Add(24 * time.Hour)
	ctrl.now = func() time.Time { return resetTime }
	got, err = ctrl.Get(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.DailyPromptCount != 0 {
		t.Errorf("counter = %d after 24h, want 0", got.DailyPromptCount)
	}
	if !got.LastPromptReset.Equal(resetTime) {
		t.Errorf("LastPromptReset = %v, want %v", got.LastPromptReset, resetTime)
	}

	// reset persisted, not just reflected in the response
	stored, err := profileDAO.GetByID(context.Background(), profile.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.DailyPromptCount != 0 {
		t.Errorf("stored counter = %d, want 0", stored.DailyPromptCount)
	}
}

func TestProfileExpiredProDowngradesToFree(t *testing.T) {
	db := setupTestDB(t)
	profileDAO := dao.NewProfileDAO(db)
	ctrl := NewProfileController(profileDAO)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-31 * 24 * time.Hour)
	end := now.Add(-24 * time.Hour)
	profile := models.Profile{
		Email:                 "pro@example.com",
		SubscriptionType:      models.SubscriptionPro,
		SubscriptionStartDate: &start,
		SubscriptionEndDate:   &end,
		LastPromptReset:       now,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	ctrl.now = func() time.Time { return now }
	got, err := ctrl.Get(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.SubscriptionType != models.SubscriptionFree {
		t.Errorf("subscription = %q, want free", got.SubscriptionType)
	}
	if got.SubscriptionStartDate != nil || got.SubscriptionEndDate != nil {
		t.Errorf("subscription dates should be cleared")
	}

	stored, err := profileDAO.GetByID(context.Background(), profile.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.SubscriptionType != models.SubscriptionFree {
		t.Errorf("downgrade not persisted: %q", stored.SubscriptionType)
	}
}

func TestProfileActiveProIsLeftAlone(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewProfileController(dao.NewProfileDAO(db))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(10 * 24 * time.Hour)
	profile := models.Profile{
		Email:               "active@example.com",
		SubscriptionType:    models.SubscriptionPro,
		SubscriptionEndDate: &end,
		DailyPromptCount:    40,
		LastPromptReset:     now.Add(-time.Hour),
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	ctrl.now = func() time.Time { return now }
	got, err := ctrl.Get(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.SubscriptionType != models.SubscriptionPro {
		t.Errorf("active pro was downgraded")
	}
	if got.DailyPromptCount != 40 {
		t.Errorf("counter = %d, want 40", got.DailyPromptCount)
	}
	if !got.CanSendPrompt() {
		t.Errorf("pro account should be unlimited")
	}
}

func TestProfileUnknownUserIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctrl := NewProfileController(dao.NewProfileDAO(db))

	_, err := ctrl.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
