package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/IkhsanDimas/nega-chatbot/config"
	httputils "github.com/IkhsanDimas/nega-chatbot/utils/http"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"
)

// ErrNoAPIKey is returned when no Gemini key is configured.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// Message is one role-tagged turn sent to the model.
type Message struct {
	Role     string  `json:"role"`
	Content  string  `json:"content"`
	FileURL  *string `json:"file_url,omitempty"`
	FileType *string `json:"file_type,omitempty"`
}

type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
}

func NewGeminiClient(cfg config.Config) *GeminiClient {
	return &GeminiClient{
		baseURL: cfg.GeminiBaseURL,
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the ordered conversation to generateContent and returns the
// single reply. An empty candidate list yields "Respon AI kosong." with a nil
// error, matching the gateway contract of always producing content text.
func (c *GeminiClient) Generate(ctx context.Context, messages []Message) (string, error) {
	defer logging.LogDuration(ctx, "llm_generate")()

	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := generateRequest{Contents: make([]geminiContent, 0, len(messages))}
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		text := m.Content
		if m.FileURL != nil && *m.FileURL != "" {
			// attachments travel as a reference line; the model has no direct
			// access to the blob store
			text = fmt.Sprintf("%s\n[lampiran: %s]", text, *m.FileURL)
		}
		req.Contents = append(req.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: text}},
		})
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	var resp generateResponse
	if err := httputils.PostJSON(ctx, endpoint, nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "Respon AI kosong.", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
