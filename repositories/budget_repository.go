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

// BudgetRepository interface defines budget database operations
type BudgetRepository interface {
	GetByUUID(ctx context.Context, budgetUUID, householdUUID string) (*models.Budget, error)
	DuplicateExists(ctx context.Context, subcategoryUUID string, year, month int, excludeUUID string) (bool, error)
	CountForSubcategory(ctx context.Context, subcategoryUUID string) (int, error)
	Create(ctx context.Context, tx *database.Tx, budget *models.Budget) error
	Update(ctx context.Context, tx *database.Tx, budget *models.Budget) error
}

type budgetRepository struct {
	db *database.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *database.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

// GetByUUID loads a budget only when its subcategory chain resolves to
// the given household. Returns nil without error otherwise.
func (r *budgetRepository) GetByUUID(ctx context.Context, budgetUUID, householdUUID string) (*models.Budget, error) {
	query := `
		SELECT b.uuid, b.subcategory_uuid, b.year, b.month, b.amount_cents, b.notes, b.created_at, b.updated_at
		FROM budgets b
		JOIN subcategories s ON s.uuid = b.subcategory_uuid AND s.deleted_at IS NULL
		JOIN categories c ON c.uuid = s.category_uuid AND c.deleted_at IS NULL
		WHERE b.uuid = ? AND c.household_uuid = ? AND b.deleted_at IS NULL
	`

	var budget models.Budget
	err := r.db.QueryRowContext(ctx, query, budgetUUID, householdUUID).Scan(
		&budget.UUID,
		&budget.SubcategoryUUID,
		&budget.Year,
		&budget.Month,
		&budget.AmountCents,
		&budget.Notes,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	models.MarkLoaded(&budget)
	return &budget, nil
}

// DuplicateExists reports whether another budget occupies the
// (subcategory, year, month) tuple.
func (r *budgetRepository) DuplicateExists(ctx context.Context, subcategoryUUID string, year, month int, excludeUUID string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM budgets
		WHERE subcategory_uuid = ? AND year = ? AND month = ? AND uuid != ? AND deleted_at IS NULL
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, subcategoryUUID, year, month, excludeUUID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate budget: %w", err)
	}
	return count > 0, nil
}

// CountForSubcategory counts live budgets attached to a subcategory.
func (r *budgetRepository) CountForSubcategory(ctx context.Context, subcategoryUUID string) (int, error) {
	query := `SELECT COUNT(*) FROM budgets WHERE subcategory_uuid = ? AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRowContext(ctx, query, subcategoryUUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return count, nil
}

// Create inserts a new budget inside the caller's transaction.
func (r *budgetRepository) Create(ctx context.Context, tx *database.Tx, budget *models.Budget) error {
	if budget.UUID == "" {
		budget.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	query := `
		INSERT INTO budgets (uuid, subcategory_uuid, year, month, amount_cents, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		budget.UUID,
		budget.SubcategoryUUID,
		budget.Year,
		budget.Month,
		budget.AmountCents,
		budget.Notes,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// Update persists the budget's audited columns inside the caller's
// transaction. The loaded snapshot is left untouched so the change
// tracker can still diff against the previously persisted state.
func (r *budgetRepository) Update(ctx context.Context, tx *database.Tx, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE budgets
		SET subcategory_uuid = ?, year = ?, month = ?, amount_cents = ?, notes = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query,
		budget.SubcategoryUUID,
		budget.Year,
		budget.Month,
		budget.AmountCents,
		budget.Notes,
		budget.UpdatedAt,
		budget.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s not found", budget.UUID)
	}
	return nil
}
