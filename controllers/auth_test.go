package controllers

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/middlewares"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
)

type fakeMailer struct {
	emails []string
	codes  []string
	err    error
}

func (m *fakeMailer) SendOTP(_ context.Context, email, code string) error {
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, email)
	m.codes = append(m.codes, code)
	return nil
}

func setupAuthEnv(t *testing.T) (*AuthController, *fakeMailer, *dao.ProfileDAO) {
	t.Helper()
	db := setupTestDB(t)
	mailer := &fakeMailer{}
	cfg := config.Config{JWTSecret: "test-secret"}
	profileDAO := dao.NewProfileDAO(db)
	ctrl := NewAuthController(dao.NewOTPDAO(db), profileDAO, mailer, cfg)
	return ctrl, mailer, profileDAO
}

func TestSendOTPDispatchesSixDigitCode(t *testing.T) {
	ctrl, mailer, _ := setupAuthEnv(t)

	if err := ctrl.SendOTP(context.Background(), "masuk@example.com"); err != nil {
		t.Fatalf("send otp failed: %v", err)
	}
	if len(mailer.codes) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.codes))
	}
	if mailer.emails[0] != "masuk@example.com" {
		t.Errorf("sent to %q", mailer.emails[0])
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(mailer.codes[0]) {
		t.Errorf("code %q is not 6 digits", mailer.codes[0])
	}
}

func TestVerifyOTPMintsUsableToken(t *testing.T) {
	ctrl, mailer, profileDAO := setupAuthEnv(t)

	if err := ctrl.SendOTP(context.Background(), "masuk@example.com"); err != nil {
		t.Fatalf("send otp failed: %v", err)
	}
	token, err := ctrl.VerifyOTP(context.Background(), "masuk@example.com", mailer.codes[0])
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	userID, err := middlewares.ParseToken(config.Config{JWTSecret: "test-secret"}, token)
	if err != nil {
		t.Fatalf("minted token rejected: %v", err)
	}
	profile, err := profileDAO.GetByID(context.Background(), userID)
	if err != nil || profile == nil {
		t.Fatalf("no profile for token subject: %v", err)
	}
	if profile.Email != "masuk@example.com" {
		t.Errorf("profile email = %q", profile.Email)
	}
}

func TestVerifyOTPExistingProfileIsReused(t *testing.T) {
	ctrl, mailer, profileDAO := setupAuthEnv(t)

	existing, err := profileDAO.GetOrCreateByEmail(context.Background(), "lama@example.com")
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if err := ctrl.SendOTP(context.Background(), "lama@example.com"); err != nil {
		t.Fatalf("send otp failed: %v", err)
	}
	token, err := ctrl.VerifyOTP(context.Background(), "lama@example.com", mailer.codes[0])
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	userID, err := middlewares.ParseToken(config.Config{JWTSecret: "test-secret"}, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if userID != existing.ID {
		t.Errorf("login created a second account: %s vs %s", userID, existing.ID)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	ctrl, _, _ := setupAuthEnv(t)

	if err := ctrl.SendOTP(context.Background(), "masuk@example.com"); err != nil {
		t.Fatalf("send otp failed: %v", err)
	}
	_, err := ctrl.VerifyOTP(context.Background(), "masuk@example.com", "000000")
	if !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	ctrl, mailer, _ := setupAuthEnv(t)

	issued := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	ctrl.now = func() time.Time { return issued }
	if err := ctrl.SendOTP(context.Background(), "telat@example.com"); err != nil {
		t.Fatalf("send otp failed: %v", err)
	}

	ctrl.now = func() time.Time { return issued.Add(otpTTL + time.Second) }
	_, err := ctrl.VerifyOTP(context.Background(), "telat@example.com", mailer.codes[0])
	if !errors.Is(err, ErrExpiredOTP) {
		t.Fatalf("expected ErrExpiredOTP, got %v", err)
	}
}

func TestVerifyOTPCodeIsSingleUse(t *testing.T) {
	ctrl, mailer, _ := setupAuthEnv(t)

	if err := ctrl.SendOTP(context.Background(), "sekali@example.com"); err != nil {
		t.Fatalf("send otp failed: %v", err)
	}
	if _, err := ctrl.VerifyOTP(context.Background(), "sekali@example.com", mailer.codes[0]); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	_, err := ctrl.VerifyOTP(context.Background(), "sekali@example.com", mailer.codes[0])
	if !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP on reuse, got %v", err)
	}
}

func TestSendOTPReplacesPriorCode(t *testing.T) {
	ctrl, mailer, _ := setupAuthEnv(t)

	if err := ctrl.SendOTP(context.Background(), "ulang@example.com"); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	if err := ctrl.SendOTP(context.Background(), "ulang@example.com"); err != nil {
		t.Fatalf("second send failed: %v", err)
	}
	if len(mailer.codes) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.codes))
	}

	if mailer.codes[0] != mailer.codes[1] {
		if _, err := ctrl.VerifyOTP(context.Background(), "ulang@example.com", mailer.codes[0]); !errors.Is(err, ErrInvalidOTP) {
			t.Errorf("stale code should be invalid, got %v", err)
		}
	}
	if _, err := ctrl.VerifyOTP(context.Background(), "ulang@example.com", mailer.codes[1]); err != nil {
		t.Errorf("latest code rejected: %v", err)
	}
}
