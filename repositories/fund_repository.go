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

// FundRepository covers funds and their deposits.
type FundRepository interface {
	GetFund(ctx context.Context, fundUUID, householdUUID string) (*models.Fund, error)
	CreateFund(ctx context.Context, tx *database.Tx, fund *models.Fund) error
	UpdateFund(ctx context.Context, tx *database.Tx, fund *models.Fund) error
	CountDeposits(ctx context.Context, fundUUID string) (int, error)

	GetDeposit(ctx context.Context, depositUUID, householdUUID string) (*models.Deposit, error)
	CreateDeposit(ctx context.Context, tx *database.Tx, deposit *models.Deposit) error
	UpdateDeposit(ctx context.Context, tx *database.Tx, deposit *models.Deposit) error
}

type fundRepository struct {
	db *database.DB
}

// NewFundRepository creates a new fund repository
func NewFundRepository(db *database.DB) FundRepository {
	return &fundRepository{db: db}
}

// GetFund loads a fund owned by the household, nil when absent.
func (r *fundRepository) GetFund(ctx context.Context, fundUUID, householdUUID string) (*models.Fund, error) {
	query := `
		SELECT uuid, household_uuid, name, balance_cents, created_at, updated_at
		FROM funds
		WHERE uuid = ? AND household_uuid = ? AND deleted_at IS NULL
	`

	var fund models.Fund
	err := r.db.QueryRowContext(ctx, query, fundUUID, householdUUID).Scan(
		&fund.UUID,
		&fund.HouseholdUUID,
		&fund.Name,
		&fund.BalanceCents,
		&fund.CreatedAt,
		&fund.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}

	models.MarkLoaded(&fund)
	return &fund, nil
}

// CreateFund inserts a new fund inside the caller's transaction.
func (r *fundRepository) CreateFund(ctx context.Context, tx *database.Tx, fund *models.Fund) error {
	if fund.UUID == "" {
		fund.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	fund.CreatedAt = now
	fund.UpdatedAt = now

	query := `
		INSERT INTO funds (uuid, household_uuid, name, balance_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		fund.UUID,
		fund.HouseholdUUID,
		fund.Name,
		fund.BalanceCents,
		fund.CreatedAt,
		fund.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fund: %w", err)
	}
	return nil
}

// UpdateFund persists the fund's audited columns, including the
// derived balance.
func (r *fundRepository) UpdateFund(ctx context.Context, tx *database.Tx, fund *models.Fund) error {
	fund.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE funds
		SET name = ?, balance_cents = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query,
		fund.Name,
		fund.BalanceCents,
		fund.UpdatedAt,
		fund.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fund %s not found", fund.UUID)
	}
	return nil
}

// CountDeposits counts live deposits attached to a fund.
func (r *fundRepository) CountDeposits(ctx context.Context, fundUUID string) (int, error) {
	query := `SELECT COUNT(*) FROM deposits WHERE fund_uuid = ? AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRowContext(ctx, query, fundUUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count deposits: %w", err)
	}
	return count, nil
}

// GetDeposit loads a deposit whose fund belongs to the household, nil
// when absent.
func (r *fundRepository) GetDeposit(ctx context.Context, depositUUID, householdUUID string) (*models.Deposit, error) {
	query := `
		SELECT d.uuid, d.fund_uuid, d.date, d.amount_cents, d.created_at, d.updated_at
		FROM deposits d
		JOIN funds f ON f.uuid = d.fund_uuid AND f.deleted_at IS NULL
		WHERE d.uuid = ? AND f.household_uuid = ? AND d.deleted_at IS NULL
	`

	var deposit models.Deposit
	err := r.db.QueryRowContext(ctx, query, depositUUID, householdUUID).Scan(
		&deposit.UUID,
		&deposit.FundUUID,
		&deposit.Date,
		&deposit.AmountCents,
		&deposit.CreatedAt,
		&deposit.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}

	models.MarkLoaded(&deposit)
	return &deposit, nil
}

// CreateDeposit inserts a new deposit inside the caller's transaction.
func (r *fundRepository) CreateDeposit(ctx context.Context, tx *database.Tx, deposit *models.Deposit) error {
	if deposit.UUID == "" {
		deposit.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	deposit.CreatedAt = now
	deposit.UpdatedAt = now

	query := `
		INSERT INTO deposits (uuid, fund_uuid, date, amount_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		deposit.UUID,
		deposit.FundUUID,
		deposit.Date,
		deposit.AmountCents,
		deposit.CreatedAt,
		deposit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

// UpdateDeposit persists the deposit's audited columns.
func (r *fundRepository) UpdateDeposit(ctx context.Context, tx *database.Tx, deposit *models.Deposit) error {
	deposit.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE deposits
		SET fund_uuid = ?, date = ?, amount_cents = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query,
		deposit.FundUUID,
		deposit.Date,
		deposit.AmountCents,
		deposit.UpdatedAt,
		deposit.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deposit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deposit %s not found", deposit.UUID)
	}
	return nil
}
