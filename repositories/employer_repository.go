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

// EmployerRepository interface defines employer database operations
type EmployerRepository interface {
	GetByUUID(ctx context.Context, employerUUID, householdUUID string) (*models.Employer, error)
	Create(ctx context.Context, tx *database.Tx, employer *models.Employer) error
	Update(ctx context.Context, tx *database.Tx, employer *models.Employer) error
}

type employerRepository struct {
	db *database.DB
}

// NewEmployerRepository creates a new employer repository
func NewEmployerRepository(db *database.DB) EmployerRepository {
	return &employerRepository{db: db}
}

// GetByUUID loads an employer owned by the household, nil when absent.
func (r *employerRepository) GetByUUID(ctx context.Context, employerUUID, householdUUID string) (*models.Employer, error) {
	query := `
		SELECT uuid, household_uuid, name, created_at, updated_at
		FROM employers
		WHERE uuid = ? AND household_uuid = ? AND deleted_at IS NULL
	`

	var employer models.Employer
	err := r.db.QueryRowContext(ctx, query, employerUUID, householdUUID).Scan(
		&employer.UUID,
		&employer.HouseholdUUID,
		&employer.Name,
		&employer.CreatedAt,
		&employer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}

	models.MarkLoaded(&employer)
	return &employer, nil
}

// Create inserts a new employer inside the caller's transaction.
func (r *employerRepository) Create(ctx context.Context, tx *database.Tx, employer *models.Employer) error {
	if employer.UUID == "" {
		employer.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	employer.CreatedAt = now
	employer.UpdatedAt = now

	query := `
		INSERT INTO employers (uuid, household_uuid, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		employer.UUID,
		employer.HouseholdUUID,
		employer.Name,
		employer.CreatedAt,
		employer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create employer: %w", err)
	}
	return nil
}

// Update persists the employer's audited columns.
func (r *employerRepository) Update(ctx context.Context, tx *database.Tx, employer *models.Employer) error {
	employer.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE employers
		SET name = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query, employer.Name, employer.UpdatedAt, employer.UUID)
	if err != nil {
		return fmt.Errorf("failed to update employer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("employer %s not found", employer.UUID)
	}
	return nil
}
