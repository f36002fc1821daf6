package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IkhsanDimas/nega-chatbot/controllers"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

// decodeValid decodes a JSON body and runs struct validation. Either
// failure counts as a 400-class error before any side effect.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// statusFor maps controller sentinels onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, controllers.ErrNotFound),
		errors.Is(err, controllers.ErrInvalidInvite):
		return http.StatusNotFound
	case errors.Is(err, controllers.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, controllers.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, controllers.ErrEmptyContent),
		errors.Is(err, controllers.ErrNotEditable),
		errors.Is(err, controllers.ErrInvalidOTP),
		errors.Is(err, controllers.ErrExpiredOTP):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
