package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c010r/lollypos/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListProducts returns all available products ordered by category and name.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.price, COALESCE(c.name, ''), p.is_available,
		       COALESCE(p.sku_code, ''), p.prep_minutes
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_available
		ORDER BY c.name, p.name`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Available, &p.SKU, &p.PrepMinutes); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns a single product by id. It returns
// catalog.ErrProductNotFound when no matching product exists.
func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	var p catalog.Product
	err := r.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.price, COALESCE(c.name, ''), p.is_available,
		       COALESCE(p.sku_code, ''), p.prep_minutes
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Available, &p.SKU, &p.PrepMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// GetModifier returns a single modifier by id. It returns
// catalog.ErrModifierNotFound when no matching modifier exists.
func (r *CatalogRepository) GetModifier(ctx context.Context, id int64) (*catalog.Modifier, error) {
	var m catalog.Modifier
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, additional_price, COALESCE(group_id, 0)
		FROM modifiers
		WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.AdditionalPrice, &m.GroupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrModifierNotFound
		}
		return nil, fmt.Errorf("getting modifier %d: %w", id, err)
	}
	return &m, nil
}

// IngredientRequirements returns the per-unit ingredient quantities for a product.
func (r *CatalogRepository) IngredientRequirements(ctx context.Context, productID int64) ([]catalog.IngredientRequirement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ingredient_id, quantity
		FROM product_ingredients
		WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing ingredient requirements for product %d: %w", productID, err)
	}
	defer rows.Close()

	var reqs []catalog.IngredientRequirement
	for rows.Next() {
		var req catalog.IngredientRequirement
		if err := rows.Scan(&req.IngredientID, &req.PerUnit); err != nil {
			return nil, fmt.Errorf("scanning ingredient requirement: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
