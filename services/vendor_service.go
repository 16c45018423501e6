package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateVendorParams describes a new vendor.
type CreateVendorParams struct {
	AuditApiCallUUID string
	Name             string
}

// UpdateVendorParams carries a vendor update. Nil fields are left
// unchanged.
type UpdateVendorParams struct {
	AuditApiCallUUID string
	VendorUUID       string
	Name             *string
}

// VendorService handles vendor business logic
type VendorService interface {
	CreateVendor(ctx context.Context, params CreateVendorParams) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, params UpdateVendorParams) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, auditApiCallUUID, vendorUUID string) error
}

type vendorService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewVendorService creates a new vendor service
func NewVendorService(db *database.DB, repos *repositories.Repositories, audit AuditService) VendorService {
	return &vendorService{db: db, repos: repos, audit: audit}
}

// CreateVendor creates a vendor for the caller's household.
func (s *vendorService) CreateVendor(ctx context.Context, params CreateVendorParams) (*models.Vendor, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	vendor := &models.Vendor{
		HouseholdUUID: user.HouseholdUUID,
		Name:          params.Name,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Vendor.Create(ctx, tx, vendor); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{vendor},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(vendor)
	return vendor, nil
}

// UpdateVendor renames a vendor. A no-op update opens no transaction.
func (s *vendorService) UpdateVendor(ctx context.Context, params UpdateVendorParams) (*models.Vendor, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	vendor, err := s.repos.Vendor.GetByUUID(ctx, params.VendorUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperr.NotFound("Vendor not found")
	}

	if params.Name != nil {
		vendor.Name = *params.Name
	}

	if len(models.ChangedColumns(vendor)) == 0 {
		return vendor, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Vendor.Update(ctx, tx, vendor); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{vendor},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(vendor)
	return vendor, nil
}

// DeleteVendor soft-deletes a vendor once no expenses reference it.
func (s *vendorService) DeleteVendor(ctx context.Context, auditApiCallUUID, vendorUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	vendor, err := s.repos.Vendor.GetByUUID(ctx, vendorUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return apperr.NotFound("Vendor not found")
	}

	expenses, err := s.repos.Expense.CountForVendor(ctx, vendor.UUID)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return apperr.Conflict("Vendor has expenses")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{vendor},
			Tx:               tx,
		})
	})
}
