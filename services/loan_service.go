package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateLoanParams describes a new loan. The outstanding balance
// starts equal to the principal.
type CreateLoanParams struct {
	AuditApiCallUUID string
	Name             string
	AmountCents      int64
}

// UpdateLoanParams carries a loan update. Nil fields are left
// unchanged; the balance is adjusted directly as payments happen.
type UpdateLoanParams struct {
	AuditApiCallUUID string
	LoanUUID         string
	Name             *string
	AmountCents      *int64
	BalanceCents     *int64
}

// LoanService handles loan business logic
type LoanService interface {
	CreateLoan(ctx context.Context, params CreateLoanParams) (*models.Loan, error)
	UpdateLoan(ctx context.Context, params UpdateLoanParams) (*models.Loan, error)
	DeleteLoan(ctx context.Context, auditApiCallUUID, loanUUID string) error
}

type loanService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewLoanService creates a new loan service
func NewLoanService(db *database.DB, repos *repositories.Repositories, audit AuditService) LoanService {
	return &loanService{db: db, repos: repos, audit: audit}
}

// CreateLoan creates a loan for the caller's household, balance equal
// to the principal.
func (s *loanService) CreateLoan(ctx context.Context, params CreateLoanParams) (*models.Loan, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		HouseholdUUID: user.HouseholdUUID,
		Name:          params.Name,
		AmountCents:   params.AmountCents,
		BalanceCents:  params.AmountCents,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Loan.Create(ctx, tx, loan); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{loan},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(loan)
	return loan, nil
}

// UpdateLoan applies the requested attribute changes. A no-op update
// opens no transaction.
func (s *loanService) UpdateLoan(ctx context.Context, params UpdateLoanParams) (*models.Loan, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if params.AmountCents != nil && *params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}
	if params.BalanceCents != nil && *params.BalanceCents < 0 {
		return nil, apperr.Validation("Invalid balance")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	loan, err := s.repos.Loan.GetByUUID(ctx, params.LoanUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, apperr.NotFound("Loan not found")
	}

	if params.Name != nil {
		loan.Name = *params.Name
	}
	if params.AmountCents != nil {
		loan.AmountCents = *params.AmountCents
	}
	if params.BalanceCents != nil {
		loan.BalanceCents = *params.BalanceCents
	}

	if len(models.ChangedColumns(loan)) == 0 {
		return loan, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Loan.Update(ctx, tx, loan); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{loan},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(loan)
	return loan, nil
}

// DeleteLoan soft-deletes a loan.
func (s *loanService) DeleteLoan(ctx context.Context, auditApiCallUUID, loanUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	loan, err := s.repos.Loan.GetByUUID(ctx, loanUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if loan == nil {
		return apperr.NotFound("Loan not found")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{loan},
			Tx:               tx,
		})
	})
}
