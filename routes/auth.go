package routes

import (
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	r.Post("/send-otp", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.SendOTPRequest
		if err := decodeValid(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		if err := ctrl.SendOTP(r.Context(), req.Email); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"success": true, "message": "OTP berhasil dikirim"}, http.StatusOK, nil
	}))

	r.Post("/verify-otp", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.VerifyOTPRequest
		if err := decodeValid(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		token, err := ctrl.VerifyOTP(r.Context(), req.Email, req.Code)
		if err != nil {
			return nil, statusFor(err), err
		}
		return types.VerifyOTPResponse{Token: token}, http.StatusOK, nil
	}))

	return r
}
