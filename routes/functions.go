package routes

import (
	"encoding/json"
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/services/llm"
	"github.com/IkhsanDimas/nega-chatbot/types"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FunctionRoutes exposes the chat function endpoint. The contract is
// always-200: any fault comes back as explanatory text in the content
// field, never as an HTTP error, so callers must not key off the status.
func FunctionRoutes(gateway controllers.Gateway) chi.Router {
	r := chi.NewRouter()

	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		writeContent := func(content string) {
			json.NewEncoder(w).Encode(types.GatewayResponse{Content: content})
		}

		var req types.GatewayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeContent("Sistem Error: " + err.Error())
			return
		}
		if len(req.Messages) == 0 {
			writeContent("Tidak ada pesan yang dikirim.")
			return
		}

		messages := make([]llm.Message, 0, len(req.Messages))
		for _, m := range req.Messages {
			messages = append(messages, llm.Message{
				Role:     m.Role,
				Content:  m.Content,
				FileURL:  m.FileURL,
				FileType: m.FileType,
			})
		}

		content, err := gateway.Generate(r.Context(), messages)
		if err != nil {
			logging.ErrorLogger.Error("chat function fault", zap.Error(err))
			if err == llm.ErrNoAPIKey {
				writeContent("API Key tidak ditemukan. Silakan hubungi administrator.")
				return
			}
			writeContent("Sistem Error: " + err.Error())
			return
		}
		writeContent(content)
	})

	return r
}
