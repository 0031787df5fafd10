package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
)

// CheckoutRequest представляет тело запроса POST /api/checkout
type CheckoutRequest struct {
	Items []service.CartItem `json:"items" validate:"required"`
}

// CheckoutResponse - ответ с идентификатором сессии и адресом страницы оплаты,
// на который клиент переходит для завершения платежа
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// ErrorResponse - ответ с текстом ошибки для JSON-эндпоинтов
type ErrorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New()

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// CheckoutHandler обрабатывает запрос POST /api/checkout.
// Пустая корзина и корзина без известных SKU - 400, ненастроенный провайдер - 503,
// все остальное - 500 без деталей.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		// Валидация структуры запроса с использованием validator
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}

		sess, err := checkoutService.Checkout(r.Context(), req.Items)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyCart):
				writeError(w, http.StatusBadRequest, "cart is empty")
			case errors.Is(err, service.ErrNoValidProducts):
				writeError(w, http.StatusBadRequest, "no valid products in cart")
			case errors.Is(err, payment.ErrNotConfigured):
				writeError(w, http.StatusServiceUnavailable, "payment is not configured")
			default:
				logger.Error("checkout failed", slog.Any("error", err))
				writeError(w, http.StatusInternalServerError, "checkout failed")
			}
			return
		}

		resp := CheckoutResponse{SessionID: sess.ID, URL: sess.URL}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}
