package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/IkhsanDimas/nega-chatbot/config"
	httputils "github.com/IkhsanDimas/nega-chatbot/utils/http"
)

// ResendMailer dispatches transactional mail through the Resend HTTP API.
type ResendMailer struct {
	apiKey string
	from   string
}

func NewResendMailer(cfg config.Config) *ResendMailer {
	return &ResendMailer{apiKey: cfg.ResendAPIKey, from: cfg.ResendFrom}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) SendOTP(ctx context.Context, email, code string) error {
	if m.apiKey == "" {
		return errors.New("resend api key not configured")
	}
	body := sendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Kode Verifikasi Nega",
		HTML:    otpEmailHTML(code),
	}
	headers := map[string]string{"Authorization": "Bearer " + m.apiKey}
	return httputils.PostJSON(ctx, "https://api.resend.com/emails", headers, body, nil)
}

func otpEmailHTML(code string) string {
	return fmt.Sprintf(`<div style="max-width:480px;margin:0 auto;padding:40px 20px;font-family:sans-serif">
  <h1>Nega</h1>
  <p>Gunakan kode berikut untuk masuk ke akun Anda:</p>
  <div style="font-size:40px;font-weight:700;letter-spacing:8px">%s</div>
  <p>Kode berlaku selama <strong>10 menit</strong>.</p>
  <p style="font-size:12px">Jika Anda tidak meminta kode ini, abaikan email ini.</p>
</div>`, code)
}
