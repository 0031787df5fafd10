package payment

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured возвращается при попытке создать сессию без настроенного
	// секретного ключа. Проверка выполняется на каждый запрос, сервер при этом стартует.
	ErrNotConfigured = errors.New("payment provider is not configured")
	// ErrInvalidSignature - подпись webhook-события не прошла проверку
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent - тело события не разбирается; повтор доставки не поможет
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// EventCheckoutCompleted - единственный тип события, который меняет состояние заказа
const EventCheckoutCompleted = "checkout.session.completed"

// SessionLine - строка платежной сессии: снимок цены на момент оформления.
// Провайдер спишет именно эту сумму, последующие правки каталога на сессию не влияют.
type SessionLine struct {
	SKU        string // уходит провайдеру как непрозрачные метаданные
	Name       string
	Currency   string
	UnitAmount int64 // цена за единицу в минорных единицах
	Quantity   int64
}

// SessionRef - ссылка на созданную у провайдера сессию
type SessionRef struct {
	ID  string
	URL string
}

// Event - расшифрованное webhook-событие провайдера
type Event struct {
	Type          string
	SessionID     string
	CustomerEmail string
}

// Provider - узкий интерфейс платежного провайдера: сервисам оформления заказа
// и приема webhook нужны только эти две операции, конкретный SDK наружу не выходит.
type Provider interface {
	CreateSession(ctx context.Context, lines []SessionLine) (*SessionRef, error)
	VerifyEvent(raw []byte, signature string) (*Event, error)
}
