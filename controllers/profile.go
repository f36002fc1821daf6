package controllers

import (
	"context"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileController struct {
	profileDAO *dao.ProfileDAO
	now        func() time.Time
}

func NewProfileController(profileDAO *dao.ProfileDAO) *ProfileController {
	return &ProfileController{profileDAO: profileDAO, now: time.Now}
}

// Get returns the caller's profile, applying the lazy resets that run at
// session start: an expired pro subscription drops back to free, and a
// prompt counter older than 24h goes back to zero.
func (c *ProfileController) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := c.profileDAO.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	now := c.now()

	if profile.SubscriptionType == models.SubscriptionPro &&
		profile.SubscriptionEndDate != nil &&
		profile.SubscriptionEndDate.Before(now) {
		if err := c.profileDAO.DowngradeToFree(ctx, userID); err != nil {
			return nil, err
		}
		profile.SubscriptionType = models.SubscriptionFree
		profile.SubscriptionStartDate = nil
		profile.SubscriptionEndDate = nil
		logging.AppLogger.Info("subscription expired, downgraded",
			zap.String("user_id", userID.String()))
	}

	if now.Sub(profile.LastPromptReset) >= 24*time.Hour {
		if err := c.profileDAO.ResetPromptCount(ctx, userID, now); err != nil {
			return nil, err
		}
		profile.DailyPromptCount = 0
		profile.LastPromptReset = now
	}

	return profile, nil
}
