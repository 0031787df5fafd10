package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
)

func pendingOrder(sessionID string) *models.Order {
	return &models.Order{
		SessionID: sessionID,
		ItemsJSON: `[{"sku":"CH-021","qty":1}]`,
		Total:     49.90,
		Currency:  "eur",
		Status:    models.OrderStatusPending,
	}
}

func TestHandleEvent_CheckoutCompleted(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["cs_1"] = pendingOrder("cs_1")
	provider := &fakeProvider{event: &payment.Event{
		Type:          payment.EventCheckoutCompleted,
		SessionID:     "cs_1",
		CustomerEmail: "client@example.com",
	}}
	svc := service.NewWebhookService(testLogger(), orderRepo, provider)

	err := svc.HandleEvent(context.Background(), []byte(`{"raw":"body"}`), "sig")
	assert.NoError(t, err)

	order := orderRepo.orders["cs_1"]
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.True(t, order.CustomerEmail.Valid)
	assert.Equal(t, "client@example.com", order.CustomerEmail.String)

	// сырое тело и подпись дошли до провайдера без изменений
	assert.Equal(t, []byte(`{"raw":"body"}`), provider.verifyRaw)
	assert.Equal(t, "sig", provider.verifySign)
}

func TestHandleEvent_ReplayIsIdempotent(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["cs_1"] = pendingOrder("cs_1")
	provider := &fakeProvider{event: &payment.Event{
		Type:          payment.EventCheckoutCompleted,
		SessionID:     "cs_1",
		CustomerEmail: "client@example.com",
	}}
	svc := service.NewWebhookService(testLogger(), orderRepo, provider)

	assert.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
	first := *orderRepo.orders["cs_1"]

	// повторная доставка того же события ничего не меняет
	assert.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
	assert.Equal(t, first, *orderRepo.orders["cs_1"])
}

func TestHandleEvent_InvalidSignature(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["cs_1"] = pendingOrder("cs_1")
	provider := &fakeProvider{verifyErr: payment.ErrInvalidSignature}
	svc := service.NewWebhookService(testLogger(), orderRepo, provider)

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "bad-sig")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	// заказ не тронут
	assert.Equal(t, models.OrderStatusPending, orderRepo.orders["cs_1"].Status)
	assert.False(t, orderRepo.orders["cs_1"].CustomerEmail.Valid)
}

func TestHandleEvent_StorageFailureIsNotVerificationError(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["cs_1"] = pendingOrder("cs_1")
	orderRepo.markPaidErr = errors.New("db is down")
	provider := &fakeProvider{event: &payment.Event{
		Type:      payment.EventCheckoutCompleted,
		SessionID: "cs_1",
	}}
	svc := service.NewWebhookService(testLogger(), orderRepo, provider)

	// сбой хранилища после успешной проверки подписи: ошибка есть,
	// но это не ошибка проверки - обработчик отличает их по сентинелам
	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, payment.ErrInvalidSignature)
	assert.NotErrorIs(t, err, payment.ErrMalformedEvent)
}

func TestHandleEvent_ForeignEventIgnored(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["cs_1"] = pendingOrder("cs_1")
	provider := &fakeProvider{event: &payment.Event{Type: "invoice.paid"}}
	svc := service.NewWebhookService(testLogger(), orderRepo, provider)

	// чужие события подтверждаются без ошибок и без изменений состояния
	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, orderRepo.orders["cs_1"].Status)
}
