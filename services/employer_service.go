package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateEmployerParams describes a new employer.
type CreateEmployerParams struct {
	AuditApiCallUUID string
	Name             string
}

// UpdateEmployerParams carries an employer update. Nil fields are left
// unchanged.
type UpdateEmployerParams struct {
	AuditApiCallUUID string
	EmployerUUID     string
	Name             *string
}

// EmployerService handles employer business logic
type EmployerService interface {
	CreateEmployer(ctx context.Context, params CreateEmployerParams) (*models.Employer, error)
	UpdateEmployer(ctx context.Context, params UpdateEmployerParams) (*models.Employer, error)
	DeleteEmployer(ctx context.Context, auditApiCallUUID, employerUUID string) error
}

type employerService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewEmployerService creates a new employer service
func NewEmployerService(db *database.DB, repos *repositories.Repositories, audit AuditService) EmployerService {
	return &employerService{db: db, repos: repos, audit: audit}
}

// CreateEmployer creates an employer for the caller's household.
func (s *employerService) CreateEmployer(ctx context.Context, params CreateEmployerParams) (*models.Employer, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	employer := &models.Employer{
		HouseholdUUID: user.HouseholdUUID,
		Name:          params.Name,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Employer.Create(ctx, tx, employer); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{employer},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(employer)
	return employer, nil
}

// UpdateEmployer renames an employer. A no-op update opens no
// transaction.
func (s *employerService) UpdateEmployer(ctx context.Context, params UpdateEmployerParams) (*models.Employer, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	employer, err := s.repos.Employer.GetByUUID(ctx, params.EmployerUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if employer == nil {
		return nil, apperr.NotFound("Employer not found")
	}

	if params.Name != nil {
		employer.Name = *params.Name
	}

	if len(models.ChangedColumns(employer)) == 0 {
		return employer, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Employer.Update(ctx, tx, employer); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{employer},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(employer)
	return employer, nil
}

// DeleteEmployer soft-deletes an employer once no incomes reference it.
func (s *employerService) DeleteEmployer(ctx context.Context, auditApiCallUUID, employerUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	employer, err := s.repos.Employer.GetByUUID(ctx, employerUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if employer == nil {
		return apperr.NotFound("Employer not found")
	}

	incomes, err := s.repos.Income.CountForEmployer(ctx, employer.UUID)
	if err != nil {
		return err
	}
	if incomes > 0 {
		return apperr.Conflict("Employer has incomes")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{employer},
			Tx:               tx,
		})
	})
}
