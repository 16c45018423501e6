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

// ExpenseRepository interface defines expense database operations
type ExpenseRepository interface {
	GetByUUID(ctx context.Context, expenseUUID, householdUUID string) (*models.Expense, error)
	Create(ctx context.Context, tx *database.Tx, expense *models.Expense) error
	Update(ctx context.Context, tx *database.Tx, expense *models.Expense) error
	CountForSubcategory(ctx context.Context, subcategoryUUID string) (int, error)
	CountForVendor(ctx context.Context, vendorUUID string) (int, error)
	CountForMember(ctx context.Context, memberUUID string) (int, error)
	CountForFund(ctx context.Context, fundUUID string) (int, error)
}

type expenseRepository struct {
	db *database.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *database.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// GetByUUID loads an expense whose subcategory chain resolves to the
// household, nil when absent.
func (r *expenseRepository) GetByUUID(ctx context.Context, expenseUUID, householdUUID string) (*models.Expense, error) {
	query := `
		SELECT e.uuid, e.subcategory_uuid, e.vendor_uuid, e.household_member_uuid, e.fund_uuid,
		       e.date, e.amount_cents, e.reimbursed_cents, e.description, e.created_at, e.updated_at
		FROM expenses e
		JOIN subcategories s ON s.uuid = e.subcategory_uuid AND s.deleted_at IS NULL
		JOIN categories c ON c.uuid = s.category_uuid AND c.deleted_at IS NULL
		WHERE e.uuid = ? AND c.household_uuid = ? AND e.deleted_at IS NULL
	`

	var expense models.Expense
	var fundUUID sql.NullString

	err := r.db.QueryRowContext(ctx, query, expenseUUID, householdUUID).Scan(
		&expense.UUID,
		&expense.SubcategoryUUID,
		&expense.VendorUUID,
		&expense.HouseholdMemberUUID,
		&fundUUID,
		&expense.Date,
		&expense.AmountCents,
		&expense.ReimbursedCents,
		&expense.Description,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if fundUUID.Valid {
		expense.FundUUID = &fundUUID.String
	}

	models.MarkLoaded(&expense)
	return &expense, nil
}

// Create inserts a new expense inside the caller's transaction.
func (r *expenseRepository) Create(ctx context.Context, tx *database.Tx, expense *models.Expense) error {
	if expense.UUID == "" {
		expense.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	query := `
		INSERT INTO expenses (uuid, subcategory_uuid, vendor_uuid, household_member_uuid, fund_uuid,
			date, amount_cents, reimbursed_cents, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		expense.UUID,
		expense.SubcategoryUUID,
		expense.VendorUUID,
		expense.HouseholdMemberUUID,
		nullableString(expense.FundUUID),
		expense.Date,
		expense.AmountCents,
		expense.ReimbursedCents,
		expense.Description,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// Update persists the expense's audited columns.
func (r *expenseRepository) Update(ctx context.Context, tx *database.Tx, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE expenses
		SET subcategory_uuid = ?, vendor_uuid = ?, household_member_uuid = ?, fund_uuid = ?,
			date = ?, amount_cents = ?, reimbursed_cents = ?, description = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query,
		expense.SubcategoryUUID,
		expense.VendorUUID,
		expense.HouseholdMemberUUID,
		nullableString(expense.FundUUID),
		expense.Date,
		expense.AmountCents,
		expense.ReimbursedCents,
		expense.Description,
		expense.UpdatedAt,
		expense.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s not found", expense.UUID)
	}
	return nil
}

// CountForSubcategory counts live expenses attached to a subcategory.
func (r *expenseRepository) CountForSubcategory(ctx context.Context, subcategoryUUID string) (int, error) {
	return r.count(ctx, "subcategory_uuid", subcategoryUUID)
}

// CountForVendor counts live expenses attached to a vendor.
func (r *expenseRepository) CountForVendor(ctx context.Context, vendorUUID string) (int, error) {
	return r.count(ctx, "vendor_uuid", vendorUUID)
}

// CountForMember counts live expenses attached to a household member.
func (r *expenseRepository) CountForMember(ctx context.Context, memberUUID string) (int, error) {
	return r.count(ctx, "household_member_uuid", memberUUID)
}

// CountForFund counts live expenses drawing from a fund.
func (r *expenseRepository) CountForFund(ctx context.Context, fundUUID string) (int, error) {
	return r.count(ctx, "fund_uuid", fundUUID)
}

func (r *expenseRepository) count(ctx context.Context, column, value string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM expenses WHERE %s = ? AND deleted_at IS NULL", column)

	var count int
	if err := r.db.QueryRowContext(ctx, query, value).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// nullableString converts an optional UUID reference for insertion.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
