package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateExpenseParams describes a new expense. FundUUID is optional;
// when set the expense is paid out of that fund and debits its
// balance.
type CreateExpenseParams struct {
	AuditApiCallUUID string
	SubcategoryUUID  string
	VendorUUID       string
	MemberUUID       string
	FundUUID         *string
	Date             string
	AmountCents      int64
	ReimbursedCents  int64
	Description      string
}

// UpdateExpenseParams carries an expense update. Nil fields are left
// unchanged. FundUUID links or moves the fund; DetachFund removes the
// link and credits the amount back.
type UpdateExpenseParams struct {
	AuditApiCallUUID string
	ExpenseUUID      string
	SubcategoryUUID  *string
	VendorUUID       *string
	MemberUUID       *string
	FundUUID         *string
	DetachFund       bool
	Date             *string
	AmountCents      *int64
	ReimbursedCents  *int64
	Description      *string
}

// ExpenseService handles expense business logic
type ExpenseService interface {
	CreateExpense(ctx context.Context, params CreateExpenseParams) (*models.Expense, error)
	UpdateExpense(ctx context.Context, params UpdateExpenseParams) (*models.Expense, error)
	DeleteExpense(ctx context.Context, auditApiCallUUID, expenseUUID string) error
}

type expenseService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewExpenseService creates a new expense service
func NewExpenseService(db *database.DB, repos *repositories.Repositories, audit AuditService) ExpenseService {
	return &expenseService{db: db, repos: repos, audit: audit}
}

// CreateExpense validates the expense, checks ownership of every
// referenced entity, then persists the expense, any fund debit, and
// the audit trail in one transaction.
func (s *expenseService) CreateExpense(ctx context.Context, params CreateExpenseParams) (*models.Expense, error) {
	if params.SubcategoryUUID == "" {
		return nil, apperr.Validation("Subcategory is required")
	}
	if params.VendorUUID == "" {
		return nil, apperr.Validation("Vendor is required")
	}
	if params.MemberUUID == "" {
		return nil, apperr.Validation("Member is required")
	}
	if !validDate(params.Date) {
		return nil, apperr.Validation("Invalid date")
	}
	if params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}
	if params.ReimbursedCents < 0 {
		return nil, apperr.Validation("Invalid reimbursed amount")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	subcategory, err := s.repos.Category.GetSubcategory(ctx, params.SubcategoryUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if subcategory == nil {
		return nil, apperr.NotFound("Subcategory not found")
	}

	vendor, err := s.repos.Vendor.GetByUUID(ctx, params.VendorUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperr.NotFound("Vendor not found")
	}

	member, err := s.repos.Member.GetByUUID(ctx, params.MemberUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperr.NotFound("Member not found")
	}

	var ledger fundLedger
	expense := &models.Expense{
		SubcategoryUUID:     subcategory.UUID,
		VendorUUID:          vendor.UUID,
		HouseholdMemberUUID: member.UUID,
		Date:                params.Date,
		AmountCents:         params.AmountCents,
		ReimbursedCents:     params.ReimbursedCents,
		Description:         params.Description,
	}

	if params.FundUUID != nil {
		fund, err := s.repos.Fund.GetFund(ctx, *params.FundUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if fund == nil {
			return nil, apperr.NotFound("Fund not found")
		}
		expense.FundUUID = &fund.UUID
		ledger.apply(fund, -params.AmountCents)
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Expense.Create(ctx, tx, expense); err != nil {
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
			NewRecords:       []models.Record{expense},
			ChangedRecords:   changed,
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(expense)
	return expense, nil
}

// UpdateExpense applies the requested changes and keeps any linked
// fund balance consistent: amount deltas adjust the fund, detaching
// credits the old amount back, attaching debits the new amount, and a
// move does both.
func (s *expenseService) UpdateExpense(ctx context.Context, params UpdateExpenseParams) (*models.Expense, error) {
	if params.Date != nil && !validDate(*params.Date) {
		return nil, apperr.Validation("Invalid date")
	}
	if params.AmountCents != nil && *params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid amount")
	}
	if params.ReimbursedCents != nil && *params.ReimbursedCents < 0 {
		return nil, apperr.Validation("Invalid reimbursed amount")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	expense, err := s.repos.Expense.GetByUUID(ctx, params.ExpenseUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperr.NotFound("Expense not found")
	}

	if params.SubcategoryUUID != nil && *params.SubcategoryUUID != expense.SubcategoryUUID {
		subcategory, err := s.repos.Category.GetSubcategory(ctx, *params.SubcategoryUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if subcategory == nil {
			return nil, apperr.NotFound("Subcategory not found")
		}
		expense.SubcategoryUUID = subcategory.UUID
	}
	if params.VendorUUID != nil && *params.VendorUUID != expense.VendorUUID {
		vendor, err := s.repos.Vendor.GetByUUID(ctx, *params.VendorUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, apperr.NotFound("Vendor not found")
		}
		expense.VendorUUID = vendor.UUID
	}
	if params.MemberUUID != nil && *params.MemberUUID != expense.HouseholdMemberUUID {
		member, err := s.repos.Member.GetByUUID(ctx, *params.MemberUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, apperr.NotFound("Member not found")
		}
		expense.HouseholdMemberUUID = member.UUID
	}

	oldAmount := expense.AmountCents
	newAmount := oldAmount
	if params.AmountCents != nil {
		newAmount = *params.AmountCents
	}

	var oldFund *models.Fund
	if expense.FundUUID != nil {
		oldFund, err = s.repos.Fund.GetFund(ctx, *expense.FundUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if oldFund == nil {
			return nil, apperr.NotFound("Fund not found")
		}
	}

	var ledger fundLedger
	switch {
	case params.DetachFund:
		if oldFund != nil {
			ledger.apply(oldFund, oldAmount)
			expense.FundUUID = nil
		}
	case params.FundUUID != nil && (expense.FundUUID == nil || *params.FundUUID != *expense.FundUUID):
		newFund, err := s.repos.Fund.GetFund(ctx, *params.FundUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if newFund == nil {
			return nil, apperr.NotFound("Fund not found")
		}
		if oldFund != nil {
			ledger.apply(oldFund, oldAmount)
		}
		ledger.apply(newFund, -newAmount)
		expense.FundUUID = &newFund.UUID
	case oldFund != nil:
		ledger.apply(oldFund, oldAmount-newAmount)
	}

	expense.AmountCents = newAmount
	if params.Date != nil {
		expense.Date = *params.Date
	}
	if params.ReimbursedCents != nil {
		expense.ReimbursedCents = *params.ReimbursedCents
	}
	if params.Description != nil {
		expense.Description = *params.Description
	}

	changedFunds := ledger.changed()
	if len(models.ChangedColumns(expense)) == 0 && len(changedFunds) == 0 {
		return expense, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		changed := make([]models.Record, 0, len(changedFunds)+1)
		if len(models.ChangedColumns(expense)) > 0 {
			if err := s.repos.Expense.Update(ctx, tx, expense); err != nil {
				return err
			}
			changed = append(changed, expense)
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

	models.MarkLoaded(expense)
	return expense, nil
}

// DeleteExpense soft-deletes an expense and credits its amount back to
// any linked fund.
func (s *expenseService) DeleteExpense(ctx context.Context, auditApiCallUUID, expenseUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	expense, err := s.repos.Expense.GetByUUID(ctx, expenseUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperr.NotFound("Expense not found")
	}

	var ledger fundLedger
	if expense.FundUUID != nil {
		fund, err := s.repos.Fund.GetFund(ctx, *expense.FundUUID, user.HouseholdUUID)
		if err != nil {
			return err
		}
		if fund == nil {
			return apperr.NotFound("Fund not found")
		}
		ledger.apply(fund, expense.AmountCents)
	}

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
			DeletedRecords:   []models.Record{expense},
			Tx:               tx,
		})
	})
}
