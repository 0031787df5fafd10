package models

import (
	"database/sql"
	"time"
)

// OrderStatus - статус заказа; моделируется только переход pending -> paid
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order представляет заказ. Ключ - идентификатор сессии платежного провайдера,
// он присваивается при создании сессии и связывает заказ с webhook-событием.
type Order struct {
	SessionID     string
	ItemsJSON     string  // корзина клиента как она пришла, только для аудита
	Total         float64 // сумма в основных единицах, посчитана на сервере
	Currency      string
	Status        OrderStatus
	CustomerEmail sql.NullString // заполняется только при завершении оплаты
	CreatedAt     time.Time
}
