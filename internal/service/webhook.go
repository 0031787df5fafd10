package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

// WebhookService определяет интерфейс обработки событий платежного провайдера.
type WebhookService interface {
	// HandleEvent проверяет подпись сырого тела и применяет событие.
	// Ошибка означает, что состояние заказов не менялось.
	HandleEvent(ctx context.Context, raw []byte, signature string) error
}

type webhookService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	provider  payment.Provider
}

func NewWebhookService(log *slog.Logger, orderRepo storage.OrderStorage, provider payment.Provider) WebhookService {
	return &webhookService{
		log:       log,
		orderRepo: orderRepo,
		provider:  provider,
	}
}

// HandleEvent применяет webhook-событие. Завершение checkout-сессии переводит
// соответствующий заказ в paid и сохраняет email плательщика; повторная доставка
// того же события - no-op, статус просто выставляется заново. Все прочие типы
// событий подтверждаются и игнорируются, чтобы провайдер не слал их повторно.
func (s *webhookService) HandleEvent(ctx context.Context, raw []byte, signature string) error {
	const op = "service.WebhookService.HandleEvent"
	logger := s.log.With(slog.String("op", op))

	event, err := s.provider.VerifyEvent(raw, signature)
	if err != nil {
		logger.Error("failed to verify event", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if event.Type != payment.EventCheckoutCompleted {
		logger.Info("event ignored", slog.String("type", event.Type))
		return nil
	}

	if err := s.orderRepo.MarkOrderPaid(ctx, event.SessionID, event.CustomerEmail); err != nil {
		logger.Error("failed to mark order paid",
			slog.String("sessionID", event.SessionID),
			slog.Any("error", err),
		)
		return fmt.Errorf("%s: failed to mark order paid: %w", op, err)
	}

	logger.Info("order marked as paid", slog.String("sessionID", event.SessionID))
	return nil
}
