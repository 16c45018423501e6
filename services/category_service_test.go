package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/apperr"
)

func TestDeleteCategoryBlockedBySubcategories(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	env.seedSubcategory(t, category.UUID, "Rent")

	err := env.services.Category.DeleteCategory(ctx, env.newApiCall(t, env.userUUID), category.UUID)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.EqualError(t, err, "Category has subcategories")
}

func TestDeleteSubcategoryBlockedByBudgets(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	_, err := env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      2500,
	})
	require.NoError(t, err)

	err = env.services.Category.DeleteSubcategory(ctx, env.newApiCall(t, env.userUUID), subcategory.UUID)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.EqualError(t, err, "Category has budgets")
}

func TestDeleteCategoryAfterSubcategoriesGone(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	require.NoError(t, env.services.Category.DeleteSubcategory(ctx, env.newApiCall(t, env.userUUID), subcategory.UUID))
	require.NoError(t, env.services.Category.DeleteCategory(ctx, env.newApiCall(t, env.userUUID), category.UUID))

	got, err := env.repos.Category.GetCategory(ctx, category.UUID, env.householdUUID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.services.Category.CreateCategory(context.Background(), CreateCategoryParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Name is required")
}

func TestUpdateCategoryRename(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	name := "Home"
	updated, err := env.services.Category.UpdateCategory(ctx, UpdateCategoryParams{
		AuditApiCallUUID: apiCallUUID,
		CategoryUUID:     category.UUID,
		Name:             &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Home", updated.Name)

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 1)
	assert.Equal(t, "name", changes[0].Attribute)
	assert.Equal(t, "Housing", changes[0].OldValue.String())
	assert.Equal(t, "Home", changes[0].NewValue.String())
}

func TestResolveAuditUserRejectsUnknownUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// An api call pointing at a user that no longer exists.
	call := env.newApiCall(t, env.userUUID)
	_, err := env.db.ExecContext(ctx, `UPDATE users SET deleted_at = created_at WHERE uuid = ?`, env.userUUID)
	require.NoError(t, err)

	_, err = env.services.Category.CreateCategory(ctx, CreateCategoryParams{
		AuditApiCallUUID: call,
		Name:             "Housing",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Audit user does not exist")
}
