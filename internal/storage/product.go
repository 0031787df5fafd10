package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fort2008/ChoganLuxury-Ecommerce/internal/domain/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("sku already exists")
)

// ProductStorage описывает методы для работы с таблицей товаров.
type ProductStorage interface {
	// ListProducts возвращает весь каталог, отсортированный по имени.
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, sku, name, gender, price, image, default_size, updated_at"

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	p := &models.Product{}
	var image, defaultSize sql.NullString
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Gender, &p.Price, &image, &defaultSize, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Image = image.String
	p.DefaultSize = defaultSize.String
	return p, nil
}

// ListProducts возвращает полный список товаров по алфавиту -
// дальнейшая фильтрация и пересортировка выполняется в сервисном слое.
func (r *productRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE sku = $1", sku)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateProduct вставляет новый товар; дубликат SKU превращается в ErrSKUTaken
func (r *productRepository) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (sku, name, gender, price, image, default_size, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id`,
		p.SKU, p.Name, p.Gender, p.Price, p.Image, p.DefaultSize,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return nil, ErrSKUTaken
			}
		}
		return nil, err
	}
	p.ID = id
	return p, nil
}

// UpdateProduct обновляет атрибуты товара. SKU неизменяем и в запрос не входит.
func (r *productRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, gender = $2, price = $3, image = $4, default_size = $5, updated_at = NOW()
		 WHERE id = $6`,
		p.Name, p.Gender, p.Price, p.Image, p.DefaultSize, p.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
