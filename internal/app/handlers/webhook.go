package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
)

// WebhookResponse подтверждает провайдеру прием события
type WebhookResponse struct {
	Received bool `json:"received"`
}

// WebhookHandler обрабатывает запрос POST /webhook.
// Тело читается сырым и передается сервису как есть: проверка подписи
// работает только по неизмененным байтам. Ошибка проверки или разбора - 400,
// сбой применения события (например, недоступное хранилище) - 500:
// по 500 провайдер повторит доставку, по 400 - нет.
// Заказы при любой ошибке не меняются.
func WebhookHandler(log *slog.Logger, webhookService service.WebhookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.WebhookHandler"
		logger := log.With(slog.String("op", op))

		raw, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("failed to read body", slog.Any("error", err))
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if err := webhookService.HandleEvent(r.Context(), raw, signature); err != nil {
			if errors.Is(err, payment.ErrInvalidSignature) || errors.Is(err, payment.ErrMalformedEvent) {
				logger.Error("webhook rejected", slog.Any("error", err))
				writeError(w, http.StatusBadRequest, "webhook error")
				return
			}
			logger.Error("failed to apply webhook event", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "webhook error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(WebhookResponse{Received: true}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}
