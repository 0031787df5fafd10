package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoValidProducts = errors.New("no valid products in cart")
)

// CartItem - строка корзины как ее прислал клиент. Количество может прийти
// дробным или отсутствовать - оно приводится к целому с минимумом 1.
// Цен здесь нет намеренно: сумма всегда считается по ценам из хранилища.
type CartItem struct {
	SKU string  `json:"sku"`
	Qty float64 `json:"qty,omitempty"`
}

// CheckoutService определяет интерфейс оформления заказа.
type CheckoutService interface {
	// Checkout создает платежную сессию у провайдера и регистрирует
	// pending-заказ. Возвращает ссылку на сессию: по ее URL клиент
	// уходит на страницу оплаты провайдера.
	Checkout(ctx context.Context, items []CartItem) (*payment.SessionRef, error)
}

type checkoutService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	provider    payment.Provider
	currency    string
}

func NewCheckoutService(log *slog.Logger, productRepo storage.ProductStorage, orderRepo storage.OrderStorage, provider payment.Provider, currency string) CheckoutService {
	return &checkoutService{
		log:         log,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		provider:    provider,
		currency:    currency,
	}
}

// Checkout оформляет заказ. Цены берутся из хранилища на момент вызова - чтение цен
// и вставка заказа одной транзакцией не связаны, гонка с параллельной правкой
// каталога допускается. Позиции с неизвестным SKU молча отбрасываются.
func (s *checkoutService) Checkout(ctx context.Context, items []CartItem) (*payment.SessionRef, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int("items", len(items)))

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var lines []payment.SessionLine
	var totalMinor int64
	for _, item := range items {
		product, err := s.productRepo.GetProductBySKU(ctx, item.SKU)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				logger.Warn("unknown sku dropped from cart", slog.String("sku", item.SKU))
				continue
			}
			logger.Error("failed to resolve product", slog.String("sku", item.SKU), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to resolve product: %w", op, err)
		}

		qty := int64(item.Qty)
		if qty < 1 {
			qty = 1
		}
		unitAmount := int64(math.Round(product.Price * 100))

		lines = append(lines, payment.SessionLine{
			SKU:        product.SKU,
			Name:       product.Name,
			Currency:   s.currency,
			UnitAmount: unitAmount,
			Quantity:   qty,
		})
		totalMinor += unitAmount * qty
	}

	if len(lines) == 0 {
		return nil, ErrNoValidProducts
	}

	sess, err := s.provider.CreateSession(ctx, lines)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			logger.Warn("payment provider is not configured")
			return nil, err
		}
		logger.Error("failed to create payment session", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create payment session: %w", op, err)
	}

	// в заказе сохраняется корзина клиента как есть (для аудита)
	// и сумма, посчитанная на сервере
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal items: %w", op, err)
	}

	order := &models.Order{
		SessionID: sess.ID,
		ItemsJSON: string(itemsJSON),
		Total:     float64(totalMinor) / 100,
		Currency:  s.currency,
		Status:    models.OrderStatusPending,
	}
	// сессия у провайдера уже создана: если вставка упадет, останется сессия
	// без локального заказа - компенсации нет, это принятое ограничение
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		logger.Error("failed to persist pending order", slog.String("sessionID", sess.ID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to persist pending order: %w", op, err)
	}

	logger.Info("checkout session created",
		slog.String("sessionID", sess.ID),
		slog.Int64("totalMinor", totalMinor),
	)
	return sess, nil
}
