package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/ticketflow/internal/domain"
)

// CategoryRepository resolves ticket classification entities.
type CategoryRepository interface {
	GetActiveCategory(ctx context.Context, id string) (*domain.Category, error)
	GetActiveSubcategory(ctx context.Context, id string) (*domain.Subcategory, error)
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	ListActiveSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetActiveCategory(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
        SELECT id, name, is_active, created_at, updated_at
        FROM categories WHERE id=$1 AND is_active=TRUE`
	var cat domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&cat.ID,
		&cat.Name,
		&cat.IsActive,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepository) GetActiveSubcategory(ctx context.Context, id string) (*domain.Subcategory, error) {
	const query = `
        SELECT id, category_id, department_id, name, is_active, created_at, updated_at
        FROM subcategories WHERE id=$1 AND is_active=TRUE`
	var sub domain.Subcategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.CategoryID,
		&sub.DepartmentID,
		&sub.Name,
		&sub.IsActive,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `
        SELECT id, name, is_active, created_at, updated_at
        FROM categories WHERE is_active=TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, cat)
	}
	return result, rows.Err()
}

func (r *categoryRepository) ListActiveSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	const query = `
        SELECT id, category_id, department_id, name, is_active, created_at, updated_at
        FROM subcategories WHERE category_id=$1 AND is_active=TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subcategory
	for rows.Next() {
		var sub domain.Subcategory
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.DepartmentID, &sub.Name, &sub.IsActive, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}
