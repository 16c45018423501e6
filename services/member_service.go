package services

import (
	"context"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// CreateMemberParams describes a new household member.
type CreateMemberParams struct {
	AuditApiCallUUID string
	Name             string
}

// UpdateMemberParams carries a member update. Nil fields are left
// unchanged.
type UpdateMemberParams struct {
	AuditApiCallUUID string
	MemberUUID       string
	Name             *string
}

// MemberService handles household member business logic
type MemberService interface {
	CreateMember(ctx context.Context, params CreateMemberParams) (*models.HouseholdMember, error)
	UpdateMember(ctx context.Context, params UpdateMemberParams) (*models.HouseholdMember, error)
	DeleteMember(ctx context.Context, auditApiCallUUID, memberUUID string) error
}

type memberService struct {
	db    *database.DB
	repos *repositories.Repositories
	audit AuditService
}

// NewMemberService creates a new household member service
func NewMemberService(db *database.DB, repos *repositories.Repositories, audit AuditService) MemberService {
	return &memberService{db: db, repos: repos, audit: audit}
}

// CreateMember creates a member in the caller's household.
func (s *memberService) CreateMember(ctx context.Context, params CreateMemberParams) (*models.HouseholdMember, error) {
	if params.Name == "" {
		return nil, apperr.Validation("Name is required")
	}

	user, err := resolveAuditUser(ctx, s.repos, params.AuditApiCallUUID)
	if err != nil {
		return nil, err
	}

	member := &models.HouseholdMember{
		HouseholdUUID: user.HouseholdUUID,
		Name:          params.Name,
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Member.Create(ctx, tx, member); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			NewRecords:       []models.Record{member},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(member)
	return member, nil
}

// UpdateMember renames a member. A no-op update opens no transaction.
func (s *memberService) UpdateMember(ctx context.Context, params UpdateMemberParams) (*models.HouseholdMember, error) {
	if params.Name != nil && *params.Name == "" {
		return nil, apperr.Validation("Name is required")
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

	if params.Name != nil {
		member.Name = *params.Name
	}

	if len(models.ChangedColumns(member)) == 0 {
		return member, nil
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := s.repos.Member.Update(ctx, tx, member); err != nil {
			return err
		}
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: params.AuditApiCallUUID,
			ChangedRecords:   []models.Record{member},
			Tx:               tx,
		})
	})
	if err != nil {
		return nil, err
	}

	models.MarkLoaded(member)
	return member, nil
}

// DeleteMember soft-deletes a member once no expenses or incomes
// reference them.
func (s *memberService) DeleteMember(ctx context.Context, auditApiCallUUID, memberUUID string) error {
	user, err := resolveAuditUser(ctx, s.repos, auditApiCallUUID)
	if err != nil {
		return err
	}

	member, err := s.repos.Member.GetByUUID(ctx, memberUUID, user.HouseholdUUID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperr.NotFound("Member not found")
	}

	expenses, err := s.repos.Expense.CountForMember(ctx, member.UUID)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return apperr.Conflict("Member has expenses")
	}

	incomes, err := s.repos.Income.CountForMember(ctx, member.UUID)
	if err != nil {
		return err
	}
	if incomes > 0 {
		return apperr.Conflict("Member has incomes")
	}

	return s.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return s.audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: auditApiCallUUID,
			DeletedRecords:   []models.Record{member},
			Tx:               tx,
		})
	})
}
