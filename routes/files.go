package routes

import (
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/middlewares"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 20 << 20 // 20 MiB

func FileRoutes(ctrl *controllers.FilesController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /files : multipart upload, field "file"; responds with the
		// public URL to reference from a chat message
		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserID(r.Context())
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				return nil, http.StatusBadRequest, err
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			defer file.Close()

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			url, err := ctrl.Upload(r.Context(), userID, header.Filename, contentType, file, header.Size)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"file_url": url, "file_type": contentType}, http.StatusOK, nil
		}))
	})

	return r
}
