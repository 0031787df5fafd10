package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/storage"
)

// ProductInput - данные формы товара из админки (после валидации в транспортном слое)
type ProductInput struct {
	SKU         string
	Name        string
	Gender      string
	Price       float64
	Image       string
	DefaultSize string
}

// AdminService определяет операции админки: CRUD по товарам и просмотр заказов.
type AdminService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) error
	UpdateProduct(ctx context.Context, id int64, input ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

type adminService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
}

func NewAdminService(log *slog.Logger, productRepo storage.ProductStorage, orderRepo storage.OrderStorage) AdminService {
	return &adminService{
		log:         log,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *adminService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.AdminService.ListProducts"
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *adminService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.AdminService.ListOrders"
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *adminService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.AdminService.GetProduct"
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *adminService) CreateProduct(ctx context.Context, input ProductInput) error {
	const op = "service.AdminService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("sku", input.SKU))

	product := &models.Product{
		SKU:         input.SKU,
		Name:        input.Name,
		Gender:      models.ParseGender(input.Gender),
		Price:       input.Price,
		Image:       input.Image,
		DefaultSize: input.DefaultSize,
	}
	if _, err := s.productRepo.CreateProduct(ctx, product); err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created")
	return nil
}

// UpdateProduct обновляет атрибуты товара; SKU при этом не меняется
func (s *adminService) UpdateProduct(ctx context.Context, id int64, input ProductInput) error {
	const op = "service.AdminService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("id", id))

	product := &models.Product{
		ID:          id,
		Name:        input.Name,
		Gender:      models.ParseGender(input.Gender),
		Price:       input.Price,
		Image:       input.Image,
		DefaultSize: input.DefaultSize,
	}
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error("failed to update product", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product updated")
	return nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "service.AdminService.DeleteProduct"
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		s.log.Error("failed to delete product", slog.String("op", op), slog.Int64("id", id), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product deleted", slog.String("op", op), slog.Int64("id", id))
	return nil
}
