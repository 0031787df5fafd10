package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/lib/render"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/service"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

// maxUploadMemory - лимит памяти для разбора multipart-формы, не лимит размера файла
const maxUploadMemory = 32 << 20

// ProductForm представляет форму товара из админки с тегами валидации
type ProductForm struct {
	SKU         string  `validate:"required"`
	Name        string  `validate:"required"`
	Gender      string
	Price       float64 `validate:"gte=0"`
	DefaultSize string
}

// AdminFormData - данные шаблона формы товара
type AdminFormData struct {
	Product *models.Product
	IsEdit  bool
	Message string
}

// AdminListData - данные шаблона списка товаров
type AdminListData struct {
	Products []*models.Product
	Message  string
}

// AdminProductsHandler обрабатывает запрос GET /admin - список товаров
func AdminProductsHandler(log *slog.Logger, adminService service.AdminService, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminProductsHandler"

		products, err := adminService.ListProducts(r.Context())
		if err != nil {
			log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		renderer.HTML(w, http.StatusOK, "admin_products.html", AdminListData{Products: products})
	}
}

// AdminOrdersHandler обрабатывает запрос GET /admin/orders - список заказов
func AdminOrdersHandler(log *slog.Logger, adminService service.AdminService, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminOrdersHandler"

		orders, err := adminService.ListOrders(r.Context())
		if err != nil {
			log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		renderer.HTML(w, http.StatusOK, "admin_orders.html", struct{ Orders []*models.Order }{Orders: orders})
	}
}

// AdminNewFormHandler обрабатывает запрос GET /admin/new - пустая форма товара
func AdminNewFormHandler(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.HTML(w, http.StatusOK, "admin_form.html", AdminFormData{Product: &models.Product{}, IsEdit: false})
	}
}

// parseProductForm разбирает multipart-форму товара и сохраняет приложенное
// изображение. Возвращает введенные значения и текст ошибки для повторного
// показа формы (пустая строка - ошибки нет).
func parseProductForm(r *http.Request, uploadService service.UploadService) (service.ProductInput, ProductForm, string) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		// форма без файла может прийти и обычной
		if err := r.ParseForm(); err != nil {
			return service.ProductInput{}, ProductForm{}, "invalid form"
		}
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil && r.FormValue("price") != "" {
		return service.ProductInput{}, ProductForm{}, "invalid price"
	}

	form := ProductForm{
		SKU:         r.FormValue("sku"),
		Name:        r.FormValue("name"),
		Gender:      r.FormValue("gender"),
		Price:       price,
		DefaultSize: r.FormValue("default_size"),
	}
	if err := validate.Struct(form); err != nil {
		return service.ProductInput{}, form, "sku and name are required"
	}

	input := service.ProductInput{
		SKU:         form.SKU,
		Name:        form.Name,
		Gender:      form.Gender,
		Price:       form.Price,
		DefaultSize: form.DefaultSize,
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		path, err := uploadService.SaveImage(file, header.Filename)
		if err != nil {
			return input, form, "failed to save image"
		}
		input.Image = path
	} else if !errors.Is(err, http.ErrMissingFile) && r.MultipartForm != nil {
		return input, form, "failed to read image"
	}

	return input, form, ""
}

// AdminCreateHandler обрабатывает запрос POST /admin/new.
// Успех - редирект на список, ошибка валидации или занятый SKU - повторный
// показ формы с сообщением.
func AdminCreateHandler(log *slog.Logger, adminService service.AdminService, uploadService service.UploadService, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminCreateHandler"
		logger := log.With(slog.String("op", op))

		input, form, message := parseProductForm(r, uploadService)
		if message != "" {
			renderer.HTML(w, http.StatusBadRequest, "admin_form.html", AdminFormData{
				Product: formToProduct(0, form),
				IsEdit:  false,
				Message: message,
			})
			return
		}

		if err := adminService.CreateProduct(r.Context(), input); err != nil {
			message := "failed to create product"
			if errors.Is(err, storage.ErrSKUTaken) {
				message = "sku already exists"
			}
			logger.Error("create failed", slog.Any("error", err))
			renderer.HTML(w, http.StatusBadRequest, "admin_form.html", AdminFormData{
				Product: formToProduct(0, form),
				IsEdit:  false,
				Message: message,
			})
			return
		}

		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// AdminEditFormHandler обрабатывает запрос GET /admin/edit/{id} - форма с данными товара
func AdminEditFormHandler(log *slog.Logger, adminService service.AdminService, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminEditFormHandler"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			renderer.HTML(w, http.StatusNotFound, "notfound.html", nil)
			return
		}

		product, err := adminService.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				renderer.HTML(w, http.StatusNotFound, "notfound.html", nil)
				return
			}
			log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		renderer.HTML(w, http.StatusOK, "admin_form.html", AdminFormData{Product: product, IsEdit: true})
	}
}

// AdminUpdateHandler обрабатывает запрос POST /admin/edit/{id}.
// Если новое изображение не загружено, сохраняется прежнее.
func AdminUpdateHandler(log *slog.Logger, adminService service.AdminService, uploadService service.UploadService, renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminUpdateHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			renderer.HTML(w, http.StatusNotFound, "notfound.html", nil)
			return
		}

		existing, err := adminService.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				renderer.HTML(w, http.StatusNotFound, "notfound.html", nil)
				return
			}
			logger.Error("failed to get product", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		input, form, message := parseProductForm(r, uploadService)
		if message != "" {
			renderer.HTML(w, http.StatusBadRequest, "admin_form.html", AdminFormData{
				Product: formToProduct(id, form),
				IsEdit:  true,
				Message: message,
			})
			return
		}
		if input.Image == "" {
			input.Image = existing.Image
		}

		if err := adminService.UpdateProduct(r.Context(), id, input); err != nil {
			logger.Error("update failed", slog.Any("error", err))
			renderer.HTML(w, http.StatusBadRequest, "admin_form.html", AdminFormData{
				Product: formToProduct(id, form),
				IsEdit:  true,
				Message: "failed to update product",
			})
			return
		}

		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// AdminDeleteHandler обрабатывает запрос POST /admin/delete/{id}
func AdminDeleteHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminDeleteHandler"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := adminService.DeleteProduct(r.Context(), id); err != nil {
			log.Error("delete failed", slog.String("op", op), slog.Any("error", err))
			http.Error(w, "failed to delete product", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// formToProduct восстанавливает введенные значения для повторного показа формы
func formToProduct(id int64, form ProductForm) *models.Product {
	return &models.Product{
		ID:          id,
		SKU:         form.SKU,
		Name:        form.Name,
		Gender:      models.ParseGender(form.Gender),
		Price:       form.Price,
		DefaultSize: form.DefaultSize,
	}
}
