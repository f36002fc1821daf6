package routes

import (
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/middlewares"
	"github.com/IkhsanDimas/nega-chatbot/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	// POST /chat/messages : send a new turn (creates the conversation on
	// first send)
	r.Post("/messages", handleJSON(func(r *http.Request) (any, int, error) {
		userID, _ := middlewares.UserID(r.Context())
		var req types.SendMessageRequest
		if err := decodeValid(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		resp, err := ctrl.SendMessage(r.Context(), userID, req)
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))

	r.Get("/conversations", handleJSON(func(r *http.Request) (any, int, error) {
		userID, _ := middlewares.UserID(r.Context())
		convs, err := ctrl.ListConversations(r.Context(), userID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return convs, http.StatusOK, nil
	}))

	r.Get("/conversations/{conversation_id}/messages", handleJSON(func(r *http.Request) (any, int, error) {
		userID, _ := middlewares.UserID(r.Context())
		convID, err := uuid.Parse(chi.URLParam(r, "conversation_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		msgs, err := ctrl.GetMessages(r.Context(), userID, convID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return msgs, http.StatusOK, nil
	}))

	// PUT /chat/conversations/{id}/messages/{id} : edit a past user turn
	// and regenerate the reply in place; responds with the reconciled
	// sequence
	r.Put("/conversations/{conversation_id}/messages/{message_id}", handleJSON(func(r *http.Request) (any, int, error) {
		userID, _ := middlewares.UserID(r.Context())
		convID, err := uuid.Parse(chi.URLParam(r, "conversation_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		msgID, err := uuid.Parse(chi.URLParam(r, "message_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		var req types.EditMessageRequest
		if err := decodeValid(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		seq, err := ctrl.EditMessage(r.Context(), userID, convID, msgID, req.Content)
		if err != nil {
			return nil, statusFor(err), err
		}
		return seq, http.StatusOK, nil
	}))

	r.Delete("/conversations/{conversation_id}", func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())
		convID, err := uuid.Parse(chi.URLParam(r, "conversation_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.DeleteConversation(r.Context(), userID, convID); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Put("/conversations/{conversation_id}/share", handleJSON(func(r *http.Request) (any, int, error) {
		userID, _ := middlewares.UserID(r.Context())
		convID, err := uuid.Parse(chi.URLParam(r, "conversation_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		var req types.ShareRequest
		if err := decodeValid(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		conv, err := ctrl.ToggleShare(r.Context(), userID, convID, req.Enabled)
		if err != nil {
			return nil, statusFor(err), err
		}
		return conv, http.StatusOK, nil
	}))

	return r
}

// SharedRoutes serves the unauthenticated read-only view of shared
// conversations.
func SharedRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()
	r.Get("/{conversation_id}", handleJSON(func(r *http.Request) (any, int, error) {
		convID, err := uuid.Parse(chi.URLParam(r, "conversation_id"))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		resp, err := ctrl.GetShared(r.Context(), convID)
		if err != nil {
			return nil, statusFor(err), err
		}
		return resp, http.StatusOK, nil
	}))
	return r
}
