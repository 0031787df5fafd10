package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// допустимые страны доставки
var shippingCountries = []string{"FR", "BE", "CH", "LU", "MC"}

// StripeProvider - реализация Provider поверх Stripe Checkout.
// Ключ передается клиенту явно, глобальное состояние SDK не используется.
type StripeProvider struct {
	api           *client.API
	configured    bool
	webhookSecret string
	baseURL       string
}

func NewStripeProvider(secretKey, webhookSecret, baseURL string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:           api,
		configured:    secretKey != "",
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
	}
}

// CreateSession создает сессию Stripe Checkout в режиме единичного платежа.
// Адрес успеха содержит плейсхолдер идентификатора сессии, который подставляет сам Stripe.
func (p *StripeProvider) CreateSession(ctx context.Context, lines []SessionLine) (*SessionRef, error) {
	if !p.configured {
		return nil, ErrNotConfigured
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(line.Currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(line.Name),
					Metadata: map[string]string{"sku": line.SKU},
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(p.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(p.baseURL + "/cart"),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shippingCountries),
		},
		LineItems: lineItems,
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &SessionRef{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyEvent проверяет подпись и расшифровывает событие. Тело должно приходить
// сырым - любой разбор до проверки подписи ее инвалидирует.
// Если секрет не настроен, событие принимается без проверки подлинности -
// это осознанный выбор деплоя, а не ошибка.
func (p *StripeProvider) VerifyEvent(raw []byte, signature string) (*Event, error) {
	var event stripe.Event
	if p.webhookSecret != "" {
		verified, err := webhook.ConstructEvent(raw, signature, p.webhookSecret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		event = verified
	} else {
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	}

	out := &Event{Type: string(event.Type)}
	if out.Type == EventCheckoutCompleted && event.Data != nil {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		out.SessionID = sess.ID
		if sess.CustomerDetails != nil {
			out.CustomerEmail = sess.CustomerDetails.Email
		}
	}
	return out, nil
}
