package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ConfigResponse - публичные настройки для фронтенда
type ConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
	Currency       string `json:"currency"`
}

// ConfigHandler обрабатывает запрос GET /config.
// Отдает публикуемый ключ провайдера и валюту, аутентификации нет.
func ConfigHandler(log *slog.Logger, publishableKey, currency string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ConfigHandler"

		resp := ConfigResponse{PublishableKey: publishableKey, Currency: currency}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("failed to encode response", slog.String("op", op), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
}
