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

// VendorRepository interface defines vendor database operations
type VendorRepository interface {
	GetByUUID(ctx context.Context, vendorUUID, householdUUID string) (*models.Vendor, error)
	Create(ctx context.Context, tx *database.Tx, vendor *models.Vendor) error
	Update(ctx context.Context, tx *database.Tx, vendor *models.Vendor) error
}

type vendorRepository struct {
	db *database.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *database.DB) VendorRepository {
	return &vendorRepository{db: db}
}

// GetByUUID loads a vendor owned by the household, nil when absent.
func (r *vendorRepository) GetByUUID(ctx context.Context, vendorUUID, householdUUID string) (*models.Vendor, error) {
	query := `
		SELECT uuid, household_uuid, name, created_at, updated_at
		FROM vendors
		WHERE uuid = ? AND household_uuid = ? AND deleted_at IS NULL
	`

	var vendor models.Vendor
	err := r.db.QueryRowContext(ctx, query, vendorUUID, householdUUID).Scan(
		&vendor.UUID,
		&vendor.HouseholdUUID,
		&vendor.Name,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	models.MarkLoaded(&vendor)
	return &vendor, nil
}

// Create inserts a new vendor inside the caller's transaction.
func (r *vendorRepository) Create(ctx context.Context, tx *database.Tx, vendor *models.Vendor) error {
	if vendor.UUID == "" {
		vendor.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now

	query := `
		INSERT INTO vendors (uuid, household_uuid, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		vendor.UUID,
		vendor.HouseholdUUID,
		vendor.Name,
		vendor.CreatedAt,
		vendor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

// Update persists the vendor's audited columns.
func (r *vendorRepository) Update(ctx context.Context, tx *database.Tx, vendor *models.Vendor) error {
	vendor.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE vendors
		SET name = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query, vendor.Name, vendor.UpdatedAt, vendor.UUID)
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vendor %s not found", vendor.UUID)
	}
	return nil
}
