package controllers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const otpTTL = 10 * time.Minute

// Mailer dispatches a login code over the email relay.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

type AuthController struct {
	otpDAO     *dao.OTPDAO
	profileDAO *dao.ProfileDAO
	mailer     Mailer
	cfg        config.Config
	now        func() time.Time
}

func NewAuthController(otpDAO *dao.OTPDAO, profileDAO *dao.ProfileDAO, mailer Mailer, cfg config.Config) *AuthController {
	return &AuthController{
		otpDAO:     otpDAO,
		profileDAO: profileDAO,
		mailer:     mailer,
		cfg:        cfg,
		now:        time.Now,
	}
}

func generateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// SendOTP issues a fresh 6-digit code for the email, invalidating any
// earlier code, and dispatches it via the relay.
func (c *AuthController) SendOTP(ctx context.Context, email string) error {
	code := generateOTP()
	otp := models.OTPCode{
		Email:     email,
		Code:      code,
		ExpiresAt: c.now().Add(otpTTL),
	}
	if err := c.otpDAO.Replace(ctx, &otp); err != nil {
		return err
	}
	if err := c.mailer.SendOTP(ctx, email, code); err != nil {
		return err
	}
	logging.AppLogger.Info("otp dispatched", zap.String("email", email))
	return nil
}

// VerifyOTP checks match, expiry and single use, marks the code verified,
// ensures a profile exists for the email, and mints the session token.
func (c *AuthController) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	otp, err := c.otpDAO.FindUnverified(ctx, email, code)
	if err != nil {
		return "", err
	}
	if otp == nil {
		return "", ErrInvalidOTP
	}
	if otp.ExpiresAt.Before(c.now()) {
		return "", ErrExpiredOTP
	}
	if err := c.otpDAO.MarkVerified(ctx, otp); err != nil {
		return "", err
	}

	profile, err := c.profileDAO.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"user_id": profile.ID.String(),
		"email":   profile.Email,
		"exp":     c.now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
