package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/app/handlers"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
)

// fakeCheckoutService — фиктивная реализация для тестирования.
type fakeCheckoutService struct {
	sessionID  string
	sessionURL string
	err        error
	gotItems   []service.CartItem
}

func (f *fakeCheckoutService) Checkout(ctx context.Context, items []service.CartItem) (*payment.SessionRef, error) {
	f.gotItems = items
	if f.err != nil {
		return nil, f.err
	}
	return &payment.SessionRef{ID: f.sessionID, URL: f.sessionURL}, nil
}

// fakeWebhookService — фиктивная реализация интерфейса WebhookService
type fakeWebhookService struct {
	err    error
	gotRaw []byte
	gotSig string
}

func (f *fakeWebhookService) HandleEvent(ctx context.Context, raw []byte, signature string) error {
	f.gotRaw = raw
	f.gotSig = signature
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestConfigHandler(t *testing.T) {
	handler := handlers.ConfigHandler(testLogger(), "pk_test_123", "eur")

	req := httptest.NewRequest("GET", "/config", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.ConfigResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "pk_test_123", resp.PublishableKey)
	assert.Equal(t, "eur", resp.Currency)
}

func TestCheckoutHandler_Success(t *testing.T) {
	fakeSvc := &fakeCheckoutService{
		sessionID:  "cs_test_1",
		sessionURL: "https://checkout.stripe.com/c/pay/cs_test_1",
	}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	reqBody := `{"items": [{"sku": "CH-021", "qty": 2}]}`
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.CheckoutResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "cs_test_1", resp.SessionID)
	// без url клиент не может уйти на страницу оплаты
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp.URL)
	assert.Len(t, fakeSvc.gotItems, 1)
	assert.Equal(t, "CH-021", fakeSvc.gotItems[0].SKU)
}

func TestCheckoutHandler_InvalidJSON(t *testing.T) {
	fakeSvc := &fakeCheckoutService{}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	reqBody := `{"items": [`
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_MissingItems(t *testing.T) {
	fakeSvc := &fakeCheckoutService{}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, fakeSvc.gotItems, "service must not be called on validation error")
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: service.ErrEmptyCart}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{"items": []}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp handlers.ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "cart is empty", resp.Error)
}

func TestCheckoutHandler_NoValidProducts(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: service.ErrNoValidProducts}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{"items": [{"sku": "NO"}]}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_ProviderNotConfigured(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: payment.ErrNotConfigured}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{"items": [{"sku": "CH-021"}]}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCheckoutHandler_UnexpectedError(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: errors.New("boom")}
	handler := handlers.CheckoutHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewBufferString(`{"items": [{"sku": "CH-021"}]}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp handlers.ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "checkout failed", resp.Error, "internals must not leak to the client")
}

func TestWebhookHandler_Success(t *testing.T) {
	fakeSvc := &fakeWebhookService{}
	handler := handlers.WebhookHandler(testLogger(), fakeSvc)

	body := `{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`
	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.WebhookResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Received)

	// тело передано сервису байт в байт, подпись - из заголовка
	assert.Equal(t, body, string(fakeSvc.gotRaw))
	assert.Equal(t, "t=1,v1=abc", fakeSvc.gotSig)
}

func TestWebhookHandler_VerificationFailure(t *testing.T) {
	fakeSvc := &fakeWebhookService{err: payment.ErrInvalidSignature}
	handler := handlers.WebhookHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "bad")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookHandler_MalformedEvent(t *testing.T) {
	fakeSvc := &fakeWebhookService{err: payment.ErrMalformedEvent}
	handler := handlers.WebhookHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(`{not json`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookHandler_ApplyFailureIsRetryable(t *testing.T) {
	// сбой хранилища - не испорченное событие: 500, чтобы провайдер повторил доставку
	fakeSvc := &fakeWebhookService{err: errors.New("db is down")}
	handler := handlers.WebhookHandler(testLogger(), fakeSvc)

	body := `{"type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`
	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
