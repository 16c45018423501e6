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

// LoanRepository interface defines loan database operations
type LoanRepository interface {
	GetByUUID(ctx context.Context, loanUUID, householdUUID string) (*models.Loan, error)
	Create(ctx context.Context, tx *database.Tx, loan *models.Loan) error
	Update(ctx context.Context, tx *database.Tx, loan *models.Loan) error
}

type loanRepository struct {
	db *database.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *database.DB) LoanRepository {
	return &loanRepository{db: db}
}

// GetByUUID loads a loan owned by the household, nil when absent.
func (r *loanRepository) GetByUUID(ctx context.Context, loanUUID, householdUUID string) (*models.Loan, error) {
	query := `
		SELECT uuid, household_uuid, name, amount_cents, balance_cents, archived_at, created_at, updated_at
		FROM loans
		WHERE uuid = ? AND household_uuid = ? AND deleted_at IS NULL
	`

	var loan models.Loan
	var archivedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, loanUUID, householdUUID).Scan(
		&loan.UUID,
		&loan.HouseholdUUID,
		&loan.Name,
		&loan.AmountCents,
		&loan.BalanceCents,
		&archivedAt,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	if archivedAt.Valid {
		loan.ArchivedAt = &archivedAt.Time
	}

	models.MarkLoaded(&loan)
	return &loan, nil
}

// Create inserts a new loan inside the caller's transaction.
func (r *loanRepository) Create(ctx context.Context, tx *database.Tx, loan *models.Loan) error {
	if loan.UUID == "" {
		loan.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	loan.CreatedAt = now
	loan.UpdatedAt = now

	query := `
		INSERT INTO loans (uuid, household_uuid, name, amount_cents, balance_cents, archived_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var archivedAt sql.NullTime
	if loan.ArchivedAt != nil {
		archivedAt = sql.NullTime{Time: *loan.ArchivedAt, Valid: true}
	}

	_, err := tx.ExecContext(ctx, query,
		loan.UUID,
		loan.HouseholdUUID,
		loan.Name,
		loan.AmountCents,
		loan.BalanceCents,
		archivedAt,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// Update persists the loan's audited columns.
func (r *loanRepository) Update(ctx context.Context, tx *database.Tx, loan *models.Loan) error {
	loan.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE loans
		SET name = ?, amount_cents = ?, balance_cents = ?, archived_at = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	var archivedAt sql.NullTime
	if loan.ArchivedAt != nil {
		archivedAt = sql.NullTime{Time: *loan.ArchivedAt, Valid: true}
	}

	result, err := tx.ExecContext(ctx, query,
		loan.Name,
		loan.AmountCents,
		loan.BalanceCents,
		archivedAt,
		loan.UpdatedAt,
		loan.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("loan %s not found", loan.UUID)
	}
	return nil
}
