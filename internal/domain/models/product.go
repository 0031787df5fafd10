package models

import "time"

// Gender - закрытый набор значений для гендерной принадлежности товара
type Gender string

const (
	GenderUnisexe Gender = "Unisexe"
	GenderHomme   Gender = "Homme"
	GenderFemme   Gender = "Femme"
)

// ParseGender нормализует значение из формы: всё неизвестное становится Unisexe
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderHomme:
		return GenderHomme
	case GenderFemme:
		return GenderFemme
	default:
		return GenderUnisexe
	}
}

// Product представляет товар каталога.
// SKU - бизнес-ключ: уникален, неизменяем после создания, по нему идет
// поиск цены при оформлении заказа.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Gender      Gender
	Price       float64 // цена в основных единицах валюты
	Image       string  // путь к изображению, может быть пустым
	DefaultSize string
	UpdatedAt   time.Time
}
