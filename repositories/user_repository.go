package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
)

// UserRepository resolves the acting user behind an audit API call.
// Users are created during signup, outside this service; lookups only.
type UserRepository interface {
	GetByUUID(ctx context.Context, userUUID string) (*models.User, error)
}

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByUUID returns nil without error when the user does not exist.
func (r *userRepository) GetByUUID(ctx context.Context, userUUID string) (*models.User, error) {
	query := `
		SELECT uuid, household_uuid, email, first_name, last_name, password_hash, created_at, updated_at
		FROM users
		WHERE uuid = ? AND deleted_at IS NULL
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, userUUID).Scan(
		&user.UUID,
		&user.HouseholdUUID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	models.MarkLoaded(&user)
	return &user, nil
}
