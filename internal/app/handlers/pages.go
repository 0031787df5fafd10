package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/lib/render"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

// CatalogPageData - данные шаблона витрины
type CatalogPageData struct {
	Products []*models.Product
	Query    string
	Gender   string
	Sort     string
	Currency string
}

// CatalogPageHandler обрабатывает запрос GET /?q=&gender=&sort=
// Некорректные параметры не считаются ошибкой: неизвестная сортировка
// молча заменяется сортировкой по имени, неизвестный гендер ничего не находит.
func CatalogPageHandler(log *slog.Logger, catalogService service.CatalogService, renderer *render.Renderer, currency string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CatalogPageHandler"

		q := r.URL.Query().Get("q")
		gender := r.URL.Query().Get("gender")
		if gender == "" {
			gender = service.GenderAll
		}
		sortParam := r.URL.Query().Get("sort")
		key := service.ParseSortKey(sortParam)

		products, err := catalogService.ListCatalog(r.Context(), q, gender, key)
		if err != nil {
			log.Error("failed to build catalog", slog.String("op", op), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		renderer.HTML(w, http.StatusOK, "catalog.html", CatalogPageData{
			Products: products,
			Query:    q,
			Gender:   gender,
			Sort:     string(key),
			Currency: currency,
		})
	}
}

// ProductPageData - данные шаблона карточки товара
type ProductPageData struct {
	Product  *models.Product
	Currency string
}

// ProductPageHandler обрабатывает запрос GET /product/{sku}
func ProductPageHandler(log *slog.Logger, catalogService service.CatalogService, renderer *render.Renderer, currency string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductPageHandler"

		sku := chi.URLParam(r, "sku")
		product, err := catalogService.GetProduct(r.Context(), sku)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				renderer.HTML(w, http.StatusNotFound, "notfound.html", nil)
				return
			}
			log.Error("failed to get product", slog.String("op", op), slog.String("sku", sku), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		renderer.HTML(w, http.StatusOK, "product.html", ProductPageData{
			Product:  product,
			Currency: currency,
		})
	}
}

// CartPageHandler обрабатывает запрос GET /cart.
// Корзина живет на клиенте (localStorage), серверной сущности корзины нет.
func CartPageHandler(renderer *render.Renderer, currency string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.HTML(w, http.StatusOK, "cart.html", struct{ Currency string }{Currency: currency})
	}
}

// SuccessPageHandler обрабатывает запрос GET /success?session_id=
func SuccessPageHandler(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		renderer.HTML(w, http.StatusOK, "success.html", struct{ SessionID string }{SessionID: sessionID})
	}
}

// NotFoundHandler рендерит страницу 404 для всех несуществующих маршрутов
func NotFoundHandler(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.HTML(w, http.StatusNotFound, "notfound.html", nil)
	}
}
