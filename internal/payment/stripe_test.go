package payment_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/payment"
)

const completedEvent = `{
  "id": "evt_1",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_test_1",
      "customer_details": {"email": "client@example.com"}
    }
  }
}`

func TestCreateSession_NotConfigured(t *testing.T) {
	// секретный ключ не задан: сервер работает, но сессии не создаются
	provider := payment.NewStripeProvider("", "", "http://localhost:8080")

	_, err := provider.CreateSession(context.Background(), []payment.SessionLine{
		{SKU: "CH-021", Name: "Ambre Nuit", Currency: "eur", UnitAmount: 4990, Quantity: 1},
	})
	assert.ErrorIs(t, err, payment.ErrNotConfigured)
}

func TestVerifyEvent_NoSecretDecodesRawBody(t *testing.T) {
	// без webhook-секрета событие принимается без проверки подлинности
	provider := payment.NewStripeProvider("sk_test_123", "", "http://localhost:8080")

	event, err := provider.VerifyEvent([]byte(completedEvent), "")
	assert.NoError(t, err)
	assert.Equal(t, payment.EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_test_1", event.SessionID)
	assert.Equal(t, "client@example.com", event.CustomerEmail)
}

func TestVerifyEvent_NoSecretMalformedBody(t *testing.T) {
	provider := payment.NewStripeProvider("sk_test_123", "", "http://localhost:8080")

	_, err := provider.VerifyEvent([]byte(`{not json`), "")
	assert.ErrorIs(t, err, payment.ErrMalformedEvent)
}

func TestVerifyEvent_ValidSignature(t *testing.T) {
	const secret = "whsec_test_secret"
	provider := payment.NewStripeProvider("sk_test_123", secret, "http://localhost:8080")

	payload := []byte(completedEvent)
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))

	event, err := provider.VerifyEvent(payload, header)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", event.SessionID)
	assert.Equal(t, "client@example.com", event.CustomerEmail)
}

func TestVerifyEvent_InvalidSignature(t *testing.T) {
	provider := payment.NewStripeProvider("sk_test_123", "whsec_test_secret", "http://localhost:8080")

	_, err := provider.VerifyEvent([]byte(completedEvent), "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestVerifyEvent_TamperedBody(t *testing.T) {
	const secret = "whsec_test_secret"
	provider := payment.NewStripeProvider("sk_test_123", secret, "http://localhost:8080")

	payload := []byte(completedEvent)
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))

	// подпись считалась по другому телу
	tampered := []byte(`{"id":"evt_2","type":"checkout.session.completed","data":{"object":{"id":"cs_evil"}}}`)
	_, err := provider.VerifyEvent(tampered, header)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestVerifyEvent_ForeignEventType(t *testing.T) {
	provider := payment.NewStripeProvider("sk_test_123", "", "http://localhost:8080")

	event, err := provider.VerifyEvent([]byte(`{"id":"evt_3","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`), "")
	assert.NoError(t, err)
	assert.Equal(t, "invoice.paid", event.Type)
	assert.Empty(t, event.SessionID, "session id is only extracted for checkout completion")
}
