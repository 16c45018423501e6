package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
)

// CategoryRepository covers categories and their subcategories.
type CategoryRepository interface {
	GetCategory(ctx context.Context, categoryUUID, householdUUID string) (*models.Category, error)
	CreateCategory(ctx context.Context, tx *database.Tx, category *models.Category) error
	UpdateCategory(ctx context.Context, tx *database.Tx, category *models.Category) error
	CountSubcategories(ctx context.Context, categoryUUID string) (int, error)

	GetSubcategory(ctx context.Context, subcategoryUUID, householdUUID string) (*models.Subcategory, error)
	CreateSubcategory(ctx context.Context, tx *database.Tx, subcategory *models.Subcategory) error
	UpdateSubcategory(ctx context.Context, tx *database.Tx, subcategory *models.Subcategory) error
}

type categoryRepository struct {
	db *database.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetCategory loads a category owned by the household, nil when absent.
func (r *categoryRepository) GetCategory(ctx context.Context, categoryUUID, householdUUID string) (*models.Category, error) {
	query := `
		SELECT uuid, household_uuid, name, created_at, updated_at
		FROM categories
		WHERE uuid = ? AND household_uuid = ? AND deleted_at IS NULL
	`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, categoryUUID, householdUUID).Scan(
		&category.UUID,
		&category.HouseholdUUID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	models.MarkLoaded(&category)
	return &category, nil
}

// CreateCategory inserts a new category inside the caller's transaction.
func (r *categoryRepository) CreateCategory(ctx context.Context, tx *database.Tx, category *models.Category) error {
	if category.UUID == "" {
		category.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
		INSERT INTO categories (uuid, household_uuid, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		category.UUID,
		category.HouseholdUUID,
		category.Name,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory persists the category's audited columns.
func (r *categoryRepository) UpdateCategory(ctx context.Context, tx *database.Tx, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query, category.Name, category.UpdatedAt, category.UUID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s not found", category.UUID)
	}
	return nil
}

// CountSubcategories counts live subcategories under a category.
func (r *categoryRepository) CountSubcategories(ctx context.Context, categoryUUID string) (int, error) {
	query := `SELECT COUNT(*) FROM subcategories WHERE category_uuid = ? AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRowContext(ctx, query, categoryUUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subcategories: %w", err)
	}
	return count, nil
}

// GetSubcategory loads a subcategory whose parent category belongs to
// the household, nil when absent.
func (r *categoryRepository) GetSubcategory(ctx context.Context, subcategoryUUID, householdUUID string) (*models.Subcategory, error) {
	query := `
		SELECT s.uuid, s.category_uuid, s.name, s.created_at, s.updated_at
		FROM subcategories s
		JOIN categories c ON c.uuid = s.category_uuid AND c.deleted_at IS NULL
		WHERE s.uuid = ? AND c.household_uuid = ? AND s.deleted_at IS NULL
	`

	var subcategory models.Subcategory
	err := r.db.QueryRowContext(ctx, query, subcategoryUUID, householdUUID).Scan(
		&subcategory.UUID,
		&subcategory.CategoryUUID,
		&subcategory.Name,
		&subcategory.CreatedAt,
		&subcategory.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	models.MarkLoaded(&subcategory)
	return &subcategory, nil
}

// CreateSubcategory inserts a new subcategory inside the caller's transaction.
func (r *categoryRepository) CreateSubcategory(ctx context.Context, tx *database.Tx, subcategory *models.Subcategory) error {
	if subcategory.UUID == "" {
		subcategory.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	subcategory.CreatedAt = now
	subcategory.UpdatedAt = now

	query := `
		INSERT INTO subcategories (uuid, category_uuid, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		subcategory.UUID,
		subcategory.CategoryUUID,
		subcategory.Name,
		subcategory.CreatedAt,
		subcategory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}
	return nil
}

// UpdateSubcategory persists the subcategory's audited columns.
func (r *categoryRepository) UpdateSubcategory(ctx context.Context, tx *database.Tx, subcategory *models.Subcategory) error {
	subcategory.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE subcategories
		SET category_uuid = ?, name = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query,
		subcategory.CategoryUUID,
		subcategory.Name,
		subcategory.UpdatedAt,
		subcategory.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("subcategory %s not found", subcategory.UUID)
	}
	return nil
}
