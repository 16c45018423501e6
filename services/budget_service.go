package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateBudgetParams describes a new monthly budget line.
type CreateBudgetParams struct {
	AuditApiCallUUID string
	SubcategoryUUID  string
	Year             int
	Month            int
	AmountCents      int64
	Notes            string
}

// UpdateBudgetParams carries the attributes of a budget update. Nil
// fields are left unchanged.
type UpdateBudgetParams struct {
	AuditApiCallUUID string
	BudgetUUID       string
	SubcategoryUUID  *string
	Year             *int
	Month            *int
	AmountCents      *int64
	Notes            *string
}

// BudgetService handles budget business logic
type BudgetService interface {
	CreateBudget(ctx context.Context, params CreateBudgetParams) (*models.Budget, error)
	UpdateBudget(ctx context.Context, params UpdateBudgetParams) (*models.Budget, error)
	DeleteBudget(ctx context.Context, auditApiCallUUID, budgetUUID string) error
}

type budgetService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewBudgetService creates a new budget service
func NewBudgetService(db *database.DB, repos *repositories.Repositories, audit AuditService) BudgetService {
	return &budgetService{db: db, repos: repos, audit: audit}
}

func validBudgetYear(year int) bool   { return year >= 2000 && year <= 2050 }
func validBudgetMonth(month int) bool { return month >= 0 && month <= 11 }

// CreateBudget validates the new budget, checks subcategory ownership
// and the per-month uniqueness rule, then persists the budget and its
// audit trail in one transaction.
func (s *budgetService) CreateBudget(ctx context.Context, params CreateBudgetParams) (*models.Budget, error) {
	if params.SubcategoryUUID == "" {
		return nil, apperr.Validation("Category is required")
	}
	if !validBudgetYear(params.Year) {
		return nil, apperr.Validation("Invalid year")
	}
	if !validBudgetMonth(params.Month) {
		return nil, apperr.Validation("Invalid month")
	}
	if params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid budget")
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
		return nil, apperr.NotFound("Category not found")
	}

	duplicate, err := s.repos.Budget.DuplicateExists(ctx, params.SubcategoryUUID, params.Year, params.Month, "")
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperr.Conflict("Duplicate budget")
	}

	budget := &models.Budget{
		SubcategoryUUID: params.SubcategoryUUID,
		Year:            params.Year,
		Month:           params.Month,
		AmountCents:     params.AmountCents,
		Notes:           params.Notes,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Budget.Create(ctx, tx, budget); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{budget},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(budget)
	return budget, nil
}

// UpdateBudget applies the requested attribute changes. When nothing
// actually changes, no transaction is opened and no audit rows are
// written.
func (s *budgetService) UpdateBudget(ctx context.Context, params UpdateBudgetParams) (*models.Budget, error) {
	if params.Year != nil && !validBudgetYear(*params.Year) {
		return nil, apperr.Validation("Invalid year")
	}
	if params.Month != nil && !validBudgetMonth(*params.Month) {
		return nil, apperr.Validation("Invalid month")
	}
	if params.AmountCents != nil && *params.AmountCents < 0 {
		return nil, apperr.Validation("Invalid budget")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	budget, err := s.repos.Budget.GetByUUID(ctx, params.BudgetUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperr.NotFound("Budget not found")
	}

	if params.SubcategoryUUID != nil && *params.SubcategoryUUID != budget.SubcategoryUUID {
		subcategory, err := s.repos.Category.GetSubcategory(ctx, *params.SubcategoryUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if subcategory == nil {
			return nil, apperr.NotFound("Category not found")
		}
		budget.SubcategoryUUID = *params.SubcategoryUUID
	}
	if params.Year != nil {
		budget.Year = *params.Year
	}
	if params.Month != nil {
		budget.Month = *params.Month
	}
	if params.AmountCents != nil {
		budget.AmountCents = *params.AmountCents
	}
	if params.Notes != nil {
		budget.Notes = *params.Notes
	}

	if len(models.ChangedColumns(budget)) == 0 {
		return budget, nil
	}

	duplicate, err := s.repos.Budget.DuplicateExists(ctx, budget.SubcategoryUUID, budget.Year, budget.Month, budget.UUID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperr.Conflict("Duplicate budget")
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Budget.Update(ctx, tx, budget); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{budget},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(budget)
	return budget, nil
}

// DeleteBudget soft-deletes a budget and records the deletion.
func (s *budgetService) DeleteBudget(ctx context.Context, auditApiCallUUID, budgetUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	budget, err := s.repos.Budget.GetByUUID(ctx, budgetUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if budget == nil {
		return apperr.NotFound("Budget not found")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{budget},
			Tx:               tx,
		})
	})
}
