package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateCategoryParams describes a new top-level category.
type CreateCategoryParams struct {
	AuditApiCallUUID string
	Name             string
}

// UpdateCategoryParams carries a category update. Nil fields are left
// unchanged.
type UpdateCategoryParams struct {
	AuditApiCallUUID string
	CategoryUUID     string
	Name             *string
}

// CreateSubcategoryParams describes a new subcategory under an owned
// category.
type CreateSubcategoryParams struct {
	AuditApiCallUUID string
	CategoryUUID     string
	Name             string
}

// UpdateSubcategoryParams carries a subcategory update. Nil fields are
// left unchanged; a non-nil CategoryUUID moves the subcategory to
// another owned category.
type UpdateSubcategoryParams struct {
	AuditApiCallUUID string
	SubcategoryUUID  string
	CategoryUUID     *string
	Name             *string
}

// CategoryService handles category and subcategory business logic
type CategoryService interface {
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*models.Category, error)
	DeleteCategory(ctx context.Context, auditApiCallUUID, categoryUUID string) error

	CreateSubcategory(ctx context.Context, params CreateSubcategoryParams) (*models.Subcategory, error)
	UpdateSubcategory(ctx context.Context, params UpdateSubcategoryParams) (*models.Subcategory, error)
	DeleteSubcategory(ctx context.Context, auditApiCallUUID, subcategoryUUID string) error
}

type categoryService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewCategoryService creates a new category service
func NewCategoryService(db *database.DB, repos *repositories.Repositories, audit AuditService) CategoryService {
	return &categoryService{db: db, repos: repos, audit: audit}
}

// CreateCategory creates a category for the caller's household.
func (s *categoryService) CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		HouseholdUUID: user.HouseholdUUID,
		Name:          params.Name,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Category.CreateCategory(ctx, tx, category); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{category},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(category)
	return category, nil
}

// UpdateCategory renames a category. A no-op update opens no
// transaction.
func (s *categoryService) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*models.Category, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	category, err := s.repos.Category.GetCategory(ctx, params.CategoryUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category not found")
	}

	if params.Name != nil {
		category.Name = *params.Name
	}

	if len(models.ChangedColumns(category)) == 0 {
		return category, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Category.UpdateCategory(ctx, tx, category); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{category},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(category)
	return category, nil
}

// DeleteCategory soft-deletes a category once no subcategories remain
// under it.
func (s *categoryService) DeleteCategory(ctx context.Context, auditApiCallUUID, categoryUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	category, err := s.repos.Category.GetCategory(ctx, categoryUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("Category not found")
	}

	count, err := s.repos.Category.CountSubcategories(ctx, category.UUID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Category has subcategories")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{category},
			Tx:               tx,
		})
	})
}

// CreateSubcategory creates a subcategory under an owned category.
func (s *categoryService) CreateSubcategory(ctx context.Context, params CreateSubcategoryParams) (*models.Subcategory, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if params.CategoryUUID == "" {
		return nil, apperr.Validation("Category is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	category, err := s.repos.Category.GetCategory(ctx, params.CategoryUUID, user.HouseholdUUID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category not found")
	}

	subcategory := &models.Subcategory{
		CategoryUUID: category.UUID,
		Name:         params.Name,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Category.CreateSubcategory(ctx, tx, subcategory); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{subcategory},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(subcategory)
	return subcategory, nil
}

// UpdateSubcategory renames a subcategory or moves it to another owned
// category.
func (s *categoryService) UpdateSubcategory(ctx context.Context, params UpdateSubcategoryParams) (*models.Subcategory, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
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

	if params.CategoryUUID != nil && *params.CategoryUUID != subcategory.CategoryUUID {
		category, err := s.repos.Category.GetCategory(ctx, *params.CategoryUUID, user.HouseholdUUID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.NotFound("Category not found")
		}
		subcategory.CategoryUUID = category.UUID
	}
	if params.Name != nil {
		subcategory.Name = *params.Name
	}

	if len(models.ChangedColumns(subcategory)) == 0 {
		return subcategory, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Category.UpdateSubcategory(ctx, tx, subcategory); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{subcategory},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(subcategory)
	return subcategory, nil
}

// DeleteSubcategory soft-deletes a subcategory once no budgets or
// expenses reference it.
func (s *categoryService) DeleteSubcategory(ctx context.Context, auditApiCallUUID, subcategoryUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	subcategory, err := s.repos.Category.GetSubcategory(ctx, subcategoryUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if subcategory == nil {
		return apperr.NotFound("Category not found")
	}

	budgets, err := s.repos.Budget.CountForSubcategory(ctx, subcategory.UUID)
	if err != nil {
		return err
	}
	if budgets > 0 {
		return apperr.Conflict("Category has budgets")
	}

	expenses, err := s.repos.Expense.CountForSubcategory(ctx, subcategory.UUID)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return apperr.Conflict("Category has expenses")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{subcategory},
			Tx:               tx,
		})
	})
}
