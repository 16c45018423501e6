package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateIncomeParams describes a new income. EmployerUUID is optional.
type CreateIncomeParams struct {
	AuditApiCallUUID string
	MemberUUID       string
	EmployerUUID     *string
	Date             string
	AmountCents      int64
	Description      string
}

// UpdateIncomeParams carries an income update. Nil fields are left
// unchanged; DetachEmployer removes the employer link.
type UpdateIncomeParams struct {
	AuditApiCallUUID string
	IncomeUUID       string
	MemberUUID       *string
	EmployerUUID     *string
	DetachEmployer   bool
	Date             *string
	AmountCents      *int64
	Description      *string
}

// IncomeService handles income business logic
type IncomeService interface {
	CreateIncome(ctx context.Context, params CreateIncomeParams) (*models.Income, error)
	UpdateIncome(ctx context.Context, params UpdateIncomeParams) (*models.Income, error)
	DeleteIncome(ctx context.Context, auditApiCallUUID, incomeUUID string) error
}

type incomeService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewIncomeService creates a new income service
func NewIncomeService(db *database.DB, repos *repositories.Repositories, audit AuditService) IncomeService {
	return &incomeService{db: db, repos: repos, audit: audit}
}

// CreateIncome validates the income, checks ownership of the member
// and any employer, then persists it with its audit trail.
func (s *incomeService) CreateIncome(ctx context.Context, params CreateIncomeParams) (*models.Income, error) {
	if params.MemberUUID == "" {
		return nil, apperr.Validation("Member is required")
	}
	if !validDate(params.Date) {
		return nil, apperr.Validation("Invalid date")
	}
	if params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	member, err := s.repos.Member.GetByUUID(ctx, params.MemberUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperr.NotFound("Member not found")
	}

	income := &models.Income{
		HouseholdMemberUUID: member.UUID,
		Date:                params.Date,
		AmountCents:         params.AmountCents,
		Description:         params.Description,
	}

	if params.EmployerUUID != nil {
		employer, err := s.repos.Employer.GetByUUID(ctx, *params.EmployerUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if employer == nil {
			return nil, apperr.NotFound("Employer not found")
		}
		income.EmployerUUID = &employer.UUID
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Income.Create(ctx, tx, income); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{income},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(income)
	return income, nil
}

// UpdateIncome applies the requested attribute changes. A no-op update
// opens no transaction.
func (s *incomeService) UpdateIncome(ctx context.Context, params UpdateIncomeParams) (*models.Income, error) {
	if params.Date != nil && !validDate(*params.Date) {
		return nil, apperr.Validation("Invalid date")
	}
	if params.AmountCents != nil && *params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	income, err := s.repos.Income.GetByUUID(ctx, params.IncomeUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if income == nil {
		return nil, apperr.NotFound("Income not found")
	}

	if params.MemberUUID != nil && *params.MemberUUID != income.HouseholdMemberUUID {
		member, err := s.repos.Member.GetByUUID(ctx, *params.MemberUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, apperr.NotFound("Member not found")
		}
		income.HouseholdMemberUUID = member.UUID
	}

	switch {
	case params.DetachEmployer:
		income.EmployerUUID = nil
	case params.EmployerUUID != nil && (income.EmployerUUID == nil || *params.EmployerUUID != *income.EmployerUUID):
		employer, err := s.repos.Employer.GetByUUID(ctx, *params.EmployerUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if employer == nil {
			return nil, apperr.NotFound("Employer not found")
		}
		income.EmployerUUID = &employer.UUID
	}

	if params.Date != nil {
		income.Date = *params.Date
	}
	if params.AmountCents != nil {
		income.AmountCents = *params.AmountCents
	}
	if params.Description != nil {
		income.Description = *params.Description
	}

	if len(models.ChangedColumns(income)) == 0 {
		return income, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Income.Update(ctx, tx, income); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{income},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(income)
	return income, nil
}

// DeleteIncome soft-deletes an income.
func (s *incomeService) DeleteIncome(ctx context.Context, auditApiCallUUID, incomeUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	income, err := s.repos.Income.GetByUUID(ctx, incomeUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if income == nil {
		return apperr.NotFound("Income not found")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{income},
			Tx:               tx,
		})
	})
}
