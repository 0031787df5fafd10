package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

// SortKey - закрытый набор ключей сортировки каталога
type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// ParseSortKey разбирает ключ сортировки из query-параметра.
// Неизвестные значения молча превращаются в сортировку по имени.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNameDesc:
		return SortNameDesc
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortNameAsc
	}
}

// GenderAll - сентинел "показывать все", фильтр по гендеру не применяется
const GenderAll = "all"

// CatalogService определяет интерфейс построения витрины каталога.
type CatalogService interface {
	// ListCatalog возвращает отфильтрованный и отсортированный список товаров.
	ListCatalog(ctx context.Context, q, gender string, key SortKey) ([]*models.Product, error)
	GetProduct(ctx context.Context, sku string) (*models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{
		log:         log,
		productRepo: productRepo,
	}
}

// ListCatalog загружает весь каталог (по имени, из хранилища) и применяет по порядку:
// подстрочный поиск q по имени либо точное совпадение по SKU (без учета регистра),
// точный фильтр по гендеру (кроме сентинела all) и стабильную пересортировку.
// Пагинации нет, ошибок разбора параметров нет.
func (s *catalogService) ListCatalog(ctx context.Context, q, gender string, key SortKey) ([]*models.Product, error) {
	const op = "service.CatalogService.ListCatalog"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}

	filtered := make([]*models.Product, 0, len(products))
	needle := strings.ToLower(strings.TrimSpace(q))
	for _, p := range products {
		if needle != "" {
			byName := strings.Contains(strings.ToLower(p.Name), needle)
			bySKU := strings.EqualFold(p.SKU, needle)
			if !byName && !bySKU {
				continue
			}
		}
		if gender != "" && gender != GenderAll && string(p.Gender) != gender {
			continue
		}
		filtered = append(filtered, p)
	}

	// имена сравниваются с учетом локали, цены - как числа (отсутствующая цена равна 0)
	collator := collate.New(language.French, collate.Loose)
	switch key {
	case SortNameDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return collator.CompareString(filtered[i].Name, filtered[j].Name) > 0
		})
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price < filtered[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price > filtered[j].Price
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return collator.CompareString(filtered[i].Name, filtered[j].Name) < 0
		})
	}

	return filtered, nil
}

func (s *catalogService) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetProductBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}
