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

// IncomeRepository interface defines income database operations
type IncomeRepository interface {
	GetByUUID(ctx context.Context, incomeUUID, householdUUID string) (*models.Income, error)
	Create(ctx context.Context, tx *database.Tx, income *models.Income) error
	Update(ctx context.Context, tx *database.Tx, income *models.Income) error
	CountForMember(ctx context.Context, memberUUID string) (int, error)
	CountForEmployer(ctx context.Context, employerUUID string) (int, error)
}

type incomeRepository struct {
	db *database.DB
}

// NewIncomeRepository creates a new income repository
func NewIncomeRepository(db *database.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

// GetByUUID loads an income whose member belongs to the household, nil
// when absent.
func (r *incomeRepository) GetByUUID(ctx context.Context, incomeUUID, householdUUID string) (*models.Income, error) {
	query := `
		SELECT i.uuid, i.household_member_uuid, i.employer_uuid, i.date, i.amount_cents, i.description,
		       i.created_at, i.updated_at
		FROM incomes i
		JOIN household_members m ON m.uuid = i.household_member_uuid AND m.deleted_at IS NULL
		WHERE i.uuid = ? AND m.household_uuid = ? AND i.deleted_at IS NULL
	`

	var income models.Income
	var employerUUID sql.NullString

	err := r.db.QueryRowContext(ctx, query, incomeUUID, householdUUID).Scan(
		&income.UUID,
		&income.HouseholdMemberUUID,
		&employerUUID,
		&income.Date,
		&income.AmountCents,
		&income.Description,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get income: %w", err)
	}

	if employerUUID.Valid {
		income.EmployerUUID = &employerUUID.String
	}

	models.MarkLoaded(&income)
	return &income, nil
}

// Create inserts a new income inside the caller's transaction.
func (r *incomeRepository) Create(ctx context.Context, tx *database.Tx, income *models.Income) error {
	if income.UUID == "" {
		income.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	income.CreatedAt = now
	income.UpdatedAt = now

	query := `
		INSERT INTO incomes (uuid, household_member_uuid, employer_uuid, date, amount_cents, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		income.UUID,
		income.HouseholdMemberUUID,
		nullableString(income.EmployerUUID),
		income.Date,
		income.AmountCents,
		income.Description,
		income.CreatedAt,
		income.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

// Update persists the income's audited columns.
func (r *incomeRepository) Update(ctx context.Context, tx *database.Tx, income *models.Income) error {
	income.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE incomes
		SET household_member_uuid = ?, employer_uuid = ?, date = ?, amount_cents = ?, description = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query,
		income.HouseholdMemberUUID,
		nullableString(income.EmployerUUID),
		income.Date,
		income.AmountCents,
		income.Description,
		income.UpdatedAt,
		income.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("income %s not found", income.UUID)
	}
	return nil
}

// CountForMember counts live incomes attributed to a household member.
func (r *incomeRepository) CountForMember(ctx context.Context, memberUUID string) (int, error) {
	query := `SELECT COUNT(*) FROM incomes WHERE household_member_uuid = ? AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRowContext(ctx, query, memberUUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incomes: %w", err)
	}
	return count, nil
}

// CountForEmployer counts live incomes attributed to an employer.
func (r *incomeRepository) CountForEmployer(ctx context.Context, employerUUID string) (int, error) {
	query := `SELECT COUNT(*) FROM incomes WHERE employer_uuid = ? AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRowContext(ctx, query, employerUUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incomes: %w", err)
	}
	return count, nil
}
