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

// MemberRepository interface defines household member database operations
type MemberRepository interface {
	GetByUUID(ctx context.Context, memberUUID, householdUUID string) (*models.HouseholdMember, error)
	Create(ctx context.Context, tx *database.Tx, member *models.HouseholdMember) error
	Update(ctx context.Context, tx *database.Tx, member *models.HouseholdMember) error
}

type memberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new household member repository
func NewMemberRepository(db *database.DB) MemberRepository {
	return &memberRepository{db: db}
}

// GetByUUID loads a member owned by the household, nil when absent.
func (r *memberRepository) GetByUUID(ctx context.Context, memberUUID, householdUUID string) (*models.HouseholdMember, error) {
	query := `
		SELECT uuid, household_uuid, name, created_at, updated_at
		FROM household_members
		WHERE uuid = ? AND household_uuid = ? AND deleted_at IS NULL
	`

	var member models.HouseholdMember
	err := r.db.QueryRowContext(ctx, query, memberUUID, householdUUID).Scan(
		&member.UUID,
		&member.HouseholdUUID,
		&member.Name,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household member: %w", err)
	}

	models.MarkLoaded(&member)
	return &member, nil
}

// Create inserts a new household member inside the caller's transaction.
func (r *memberRepository) Create(ctx context.Context, tx *database.Tx, member *models.HouseholdMember) error {
	if member.UUID == "" {
		member.UUID = uuid.NewString()
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	query := `
		INSERT INTO household_members (uuid, household_uuid, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		member.UUID,
		member.HouseholdUUID,
		member.Name,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create household member: %w", err)
	}
	return nil
}

// Update persists the member's audited columns.
func (r *memberRepository) Update(ctx context.Context, tx *database.Tx, member *models.HouseholdMember) error {
	member.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE household_members
		SET name = ?, updated_at = ?
		WHERE uuid = ? AND deleted_at IS NULL
	`

	result, err := tx.ExecContext(ctx, query, member.Name, member.UpdatedAt, member.UUID)
	if err != nil {
		return fmt.Errorf("failed to update household member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("household member %s not found", member.UUID)
	}
	return nil
}
