package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pos-inventory/internal/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNotInTrash = errors.New("product not found in trash")
)

// ProductFilter narrows a product listing. Zero values mean "any".
type ProductFilter struct {
	Visibility domain.Visibility
	CategoryID *int64
	Status     *domain.ProductStatus
	Favorite   *bool
	Search     string
}

// ProductRepository defines the interface for product data access.
// Every lookup is scoped by a Visibility so trashed rows never leak into
// active-only reads.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64, visibility domain.Visibility) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product, visibility domain.Visibility) error
	SoftDelete(ctx context.Context, id int64) (*domain.Product, error)
	Restore(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) (*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, category_id, name, description, price, stock, image, status, criteria, favorite, state, deleted_at, created_at, updated_at`

const productWithCategorySelect = `
	SELECT p.id, p.category_id, p.name, p.description, p.price, p.stock, p.image,
		p.status, p.criteria, p.favorite, p.state, p.deleted_at, p.created_at, p.updated_at,
		c.id, c.name, c.description, c.created_at, c.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

func productDest(p *domain.Product) []interface{} {
	return []interface{}{
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Image,
		&p.Status,
		&p.Criteria,
		&p.Favorite,
		&p.State,
		&p.DeletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanProduct(s scanner) (*domain.Product, error) {
	product := &domain.Product{}
	return product, s.Scan(productDest(product)...)
}

func scanProductWithCategory(s scanner) (*domain.Product, error) {
	product := &domain.Product{Category: &domain.Category{}}
	dest := append(productDest(product),
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.Description,
		&product.Category.CreatedAt,
		&product.Category.UpdatedAt,
	)
	return product, s.Scan(dest...)
}

// visibilityClause returns the state predicate for v, binding its
// argument as placeholder $n. VisibilityAll needs no predicate.
func visibilityClause(column string, v domain.Visibility, n int) (string, []interface{}) {
	switch v {
	case domain.VisibilityAll:
		return "", nil
	case domain.VisibilityTrashed:
		return fmt.Sprintf("%s = $%d", column, n), []interface{}{string(domain.StateTrashed)}
	default:
		return fmt.Sprintf("%s = $%d", column, n), []interface{}{string(domain.StateActive)}
	}
}

// List retrieves products matching filter with their category, newest first
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if clause, clauseArgs := visibilityClause("p.state", filter.Visibility, len(args)+1); clause != "" {
		conditions = append(conditions, clause)
		args = append(args, clauseArgs...)
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		conditions = append(conditions, fmt.Sprintf("p.favorite = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%[1]d OR p.description ILIKE $%[1]d)", len(args)))
	}

	query := productWithCategorySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProductWithCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product with its category, honoring visibility
func (r *productRepository) FindByID(ctx context.Context, id int64, visibility domain.Visibility) (*domain.Product, error) {
	query := productWithCategorySelect + " WHERE p.id = $1"
	args := []interface{}{id}
	if clause, clauseArgs := visibilityClause("p.state", visibility, 2); clause != "" {
		query += " AND " + clause
		args = append(args, clauseArgs...)
	}

	product, err := scanProductWithCategory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Create inserts an active product and fills in its generated fields
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (category_id, name, description, price, stock, image, status, criteria, favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns

	row := r.db.QueryRowContext(
		ctx,
		query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Image,
		string(product.Status),
		string(product.Criteria),
		product.Favorite,
	)

	if err := row.Scan(productDest(product)...); err != nil {
		return wrapWriteError("create product", err)
	}

	return nil
}

// Update overwrites the mutable fields of a product visible under visibility.
// Lifecycle columns are never touched here.
func (r *productRepository) Update(ctx context.Context, product *domain.Product, visibility domain.Visibility) error {
	query := `
		UPDATE products
		SET category_id = $2, name = $3, description = $4, price = $5, stock = $6,
			image = $7, status = $8, criteria = $9, favorite = $10, updated_at = NOW()
		WHERE id = $1`
	args := []interface{}{
		product.ID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.Image,
		string(product.Status),
		string(product.Criteria),
		product.Favorite,
	}
	if clause, clauseArgs := visibilityClause("state", visibility, len(args)+1); clause != "" {
		query += " AND " + clause
		args = append(args, clauseArgs...)
	}
	query += " RETURNING " + productColumns

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(productDest(product)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return wrapWriteError("update product", err)
	}

	return nil
}

// SoftDelete moves an active product to the trash
func (r *productRepository) SoftDelete(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET state = $2, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND state = $3
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, string(domain.StateTrashed), string(domain.StateActive)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, wrapWriteError("soft delete product", err)
	}

	return product, nil
}

// Restore brings a trashed product back to the active set
func (r *productRepository) Restore(ctx context.Context, id int64) error {
	query := `
		UPDATE products
		SET state = $2, deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND state = $3
	`

	result, err := r.db.ExecContext(ctx, query, id, string(domain.StateActive), string(domain.StateTrashed))
	if err != nil {
		return wrapWriteError("restore product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotInTrash
	}

	return nil
}

// HardDelete permanently removes a trashed product and returns the removed row
func (r *productRepository) HardDelete(ctx context.Context, id int64) (*domain.Product, error) {
	query := `DELETE FROM products WHERE id = $1 AND state = $2 RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, string(domain.StateTrashed)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotInTrash
		}
		return nil, wrapWriteError("hard delete product", err)
	}

	return product, nil
}
