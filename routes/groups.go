package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/middlewares"
	"github.com/IkhsanDimas/nega-chatbot/realtime"
	"github.com/IkhsanDimas/nega-chatbot/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func GroupRoutes(ctrl *controllers.GroupsController, hub *realtime.Hub, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			var req types.CreateGroupRequest
			if err := decodeValid(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			group, err := ctrl.CreateGroup(r.Context(), userID, req)
			if err != nil {
				return nil, statusFor(err), err
			}
			return group, http.StatusOK, nil
		}))

		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			groups, err := ctrl.ListGroups(r.Context(), userID)
			if err != nil {
				return nil, statusFor(err), err
			}
			return groups, http.StatusOK, nil
		}))

		gr.Get("/{group_id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			detail, err := ctrl.GetGroup(r.Context(), userID, groupID)
			if err != nil {
				return nil, statusFor(err), err
			}
			return detail, http.StatusOK, nil
		}))

		gr.Put("/{group_id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req types.RenameGroupRequest
			if err := decodeValid(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			if err := ctrl.RenameGroup(r.Context(), userID, groupID, req.Name); err != nil {
				return nil, statusFor(err), err
			}
			return map[string]string{"name": req.Name}, http.StatusOK, nil
		}))

		// POST /groups/join/{invite_code} : idempotent invite join
		gr.Post("/join/{invite_code}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			resp, err := ctrl.Join(r.Context(), userID, chi.URLParam(r, "invite_code"))
			if err != nil {
				return nil, statusFor(err), err
			}
			return resp, http.StatusOK, nil
		}))

		gr.Get("/{group_id}/messages", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			msgs, err := ctrl.ListMessages(r.Context(), userID, groupID)
			if err != nil {
				return nil, statusFor(err), err
			}
			return msgs, http.StatusOK, nil
		}))

		gr.Post("/{group_id}/messages", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req types.SendGroupMessageRequest
			if err := decodeValid(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			msg, err := ctrl.SendMessage(r.Context(), userID, groupID, req)
			if err != nil {
				return nil, statusFor(err), err
			}
			return msg, http.StatusOK, nil
		}))

		gr.Put("/{group_id}/messages/{message_id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			msgID, err := uuid.Parse(chi.URLParam(r, "message_id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req types.EditGroupMessageRequest
			if err := decodeValid(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			msg, err := ctrl.EditMessage(r.Context(), userID, groupID, msgID, req.Content)
			if err != nil {
				return nil, statusFor(err), err
			}
			return msg, http.StatusOK, nil
		}))

		gr.Delete("/{group_id}/messages/{message_id}", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middlewares.UserID(r.Context())
			groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			msgID, err := uuid.Parse(chi.URLParam(r, "message_id"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := ctrl.DeleteMessage(r.Context(), userID, groupID, msgID); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	// GET /groups/{group_id}/ws : realtime change feed. The client's first
	// frame authenticates; every change then streams as one JSON event.
	r.HandleFunc("/{group_id}/ws", func(w http.ResponseWriter, r *http.Request) {
		groupID, err := uuid.Parse(chi.URLParam(r, "group_id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var input struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}
		userID, err := middlewares.ParseToken(cfg, input.Token)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		authCtx := context.WithValue(ctx, middlewares.UserIDKey, userID)
		if _, err := ctrl.ListMessages(authCtx, userID, groupID); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"forbidden"}`))
			conn.Close(websocket.StatusPolicyViolation, "forbidden")
			return
		}

		events, cancel := hub.Subscribe(groupID)
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case ev, ok := <-events:
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "")
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					return
				}
			}
		}
	})

	return r
}
