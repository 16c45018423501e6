package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateFundParams describes a new fund. Balances start at zero and
// only ever move through deposits and fund-linked expenses.
type CreateFundParams struct {
	AuditApiCallUUID string
	Name             string
}

// UpdateFundParams carries a fund update. Nil fields are left
// unchanged; the balance is not directly editable.
type UpdateFundParams struct {
	AuditApiCallUUID string
	FundUUID         string
	Name             *string
}

// CreateDepositParams describes a new deposit into an owned fund.
type CreateDepositParams struct {
	AuditApiCallUUID string
	FundUUID         string
	Date             string
	AmountCents      int64
}

// UpdateDepositParams carries a deposit update. Nil fields are left
// unchanged; a non-nil FundUUID moves the deposit, and its amount with
// it, to another owned fund.
type UpdateDepositParams struct {
	AuditApiCallUUID string
	DepositUUID      string
	FundUUID         *string
	Date             *string
	AmountCents      *int64
}

// FundService handles fund and deposit business logic, including the
// derived fund balances.
type FundService interface {
	CreateFund(ctx context.Context, params CreateFundParams) (*models.Fund, error)
	UpdateFund(ctx context.Context, params UpdateFundParams) (*models.Fund, error)
	DeleteFund(ctx context.Context, auditApiCallUUID, fundUUID string) error

	CreateDeposit(ctx context.Context, params CreateDepositParams) (*models.Deposit, error)
	UpdateDeposit(ctx context.Context, params UpdateDepositParams) (*models.Deposit, error)
	DeleteDeposit(ctx context.Context, auditApiCallUUID, depositUUID string) error
}

type fundService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewFundService creates a new fund service
func NewFundService(db *database.DB, repos *repositories.Repositories, audit AuditService) FundService {
	return &fundService{db: db, repos: repos, audit: audit}
}

// CreateFund creates a fund for the caller's household with a zero
// balance.
func (s *fundService) CreateFund(ctx context.Context, params CreateFundParams) (*models.Fund, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	fund := &models.Fund{
		HouseholdUUID: user.HouseholdUUID,
		Name:          params.Name,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Fund.CreateFund(ctx, tx, fund); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{fund},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(fund)
	return fund, nil
}

// UpdateFund renames a fund. A no-op update opens no transaction.
func (s *fundService) UpdateFund(ctx context.Context, params UpdateFundParams) (*models.Fund, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	fund, err := s.repos.Fund.GetFund(ctx, params.FundUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, apperr.NotFound("Fund not found")
	}

	if params.Name != nil {
		fund.Name = *params.Name
	}

	if len(models.ChangedColumns(fund)) == 0 {
		return fund, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Fund.UpdateFund(ctx, tx, fund); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{fund},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(fund)
	return fund, nil
}

// DeleteFund soft-deletes a fund once no deposits or expenses
// reference it.
func (s *fundService) DeleteFund(ctx context.Context, auditApiCallUUID, fundUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	fund, err := s.repos.Fund.GetFund(ctx, fundUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if fund == nil {
		return apperr.NotFound("Fund not found")
	}

	deposits, err := s.repos.Fund.CountDeposits(ctx, fund.UUID)
	if err != nil {
		return err
	}
	if deposits > 0 {
		return apperr.Conflict("Fund has deposits")
	}

	expenses, err := s.repos.Expense.CountForFund(ctx, fund.UUID)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return apperr.Conflict("Fund has expenses")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{fund},
			Tx:               tx,
		})
	})
}

// CreateDeposit records a deposit and adds its amount to the fund's
// balance. The deposit row and the fund balance change land in the
// same transaction and the same audit log.
func (s *fundService) CreateDeposit(ctx context.Context, params CreateDepositParams) (*models.Deposit, error) {
	if params.FundUUID == "" {
		return nil, apperr.Validation("Fund is required")
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

	fund, err := s.repos.Fund.GetFund(ctx, params.FundUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, apperr.NotFound("Fund not found")
	}

	deposit := &models.Deposit{
		FundUUID:    fund.UUID,
		Date:        params.Date,
		AmountCents: params.AmountCents,
	}

	var ledger fundLedger
	ledger.apply(fund, params.AmountCents)

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Fund.CreateDeposit(ctx, tx, deposit); err != nil {
			return err
		}
		changed := make([]models.Record, 0, 1)
		for _, f := range ledger.changed() {
			if err := s.repos.Fund.UpdateFund(ctx, tx, f); err != nil {
				return err
			}
			changed = append(changed, f)
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{deposit},
			ChangedRecords:   changed,
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(deposit)
	return deposit, nil
}

// UpdateDeposit applies the requested changes and keeps fund balances
// consistent: an amount change adjusts the fund by the delta, a fund
// move pulls the full old amount out of the old fund and pushes the
// new amount into the new one.
func (s *fundService) UpdateDeposit(ctx context.Context, params UpdateDepositParams) (*models.Deposit, error) {
	if params.Date != nil && !validDate(*params.Date) {
		return nil, apperr.Validation("Invalid date")
	}
	if params.AmountCents != nil && *params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}
	if params.FundUUID != nil && *params.FundUUID == "" {
		return nil, apperr.Validation("Fund is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	deposit, err := s.repos.Fund.GetDeposit(ctx, params.DepositUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, apperr.NotFound("Deposit not found")
	}

	fund, err := s.repos.Fund.GetFund(ctx, deposit.FundUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, apperr.NotFound("Fund not found")
	}

	oldAmount := deposit.AmountCents
	newAmount := oldAmount
	if params.AmountCents != nil {
		newAmount = *params.AmountCents
	}

	var ledger fundLedger
	if params.FundUUID != nil && *params.FundUUID != deposit.FundUUID {
		newFund, err := s.repos.Fund.GetFund(ctx, *params.FundUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if newFund == nil {
			return nil, apperr.NotFound("Fund not found")
		}
		ledger.apply(fund, -oldAmount)
		ledger.apply(newFund, newAmount)
		deposit.FundUUID = newFund.UUID
	} else {
		ledger.apply(fund, newAmount-oldAmount)
	}
	deposit.AmountCents = newAmount
	if params.Date != nil {
		deposit.Date = *params.Date
	}

	changedFunds := ledger.changed()
	if len(models.ChangedColumns(deposit)) == 0 && len(changedFunds) == 0 {
		return deposit, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		changed := make([]models.Record, 0, len(changedFunds)+1)
		if len(models.ChangedColumns(deposit)) > 0 {
			if err := s.repos.Fund.UpdateDeposit(ctx, tx, deposit); err != nil {
				return err
			}
			changed = append(changed, deposit)
		}
		for _, f := range changedFunds {
			if err := s.repos.Fund.UpdateFund(ctx, tx, f); err != nil {
				return err
			}
			changed = append(changed, f)
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   changed,
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(deposit)
	return deposit, nil
}

// DeleteDeposit soft-deletes a deposit and pulls its amount back out
// of the fund.
func (s *fundService) DeleteDeposit(ctx context.Context, auditApiCallUUID, depositUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	deposit, err := s.repos.Fund.GetDeposit(ctx, depositUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if deposit == nil {
		return apperr.NotFound("Deposit not found")
	}

	fund, err := s.repos.Fund.GetFund(ctx, deposit.FundUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if fund == nil {
		return apperr.NotFound("Fund not found")
	}

	var ledger fundLedger
	ledger.apply(fund, -deposit.AmountCents)

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		changed := make([]models.Record, 0, 1)
		for _, f := range ledger.changed() {
			if err := s.repos.Fund.UpdateFund(ctx, tx, f); err != nil {
				return err
			}
			changed = append(changed, f)
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			ChangedRecords:   changed,
			DeletedRecords:   []models.Record{deposit},
			Tx:               tx,
		})
	})
}
