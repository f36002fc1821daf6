package routes

import (
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/middlewares"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(ctrl *controllers.ProfileController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// GET /users/me : profile with lazy quota/subscription resets applied
		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			userID, ok := middlewares.UserID(r.Context())
			if !ok {
				return nil, http.StatusUnauthorized, nil
			}
			profile, err := ctrl.Get(r.Context(), userID)
			if err != nil {
				return nil, statusFor(err), err
			}
			return profile, http.StatusOK, nil
		}))
	})

	return r
}
