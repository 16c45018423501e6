package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/apperr"
)

func TestCreateBudgetWritesFullAuditTrail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	budget, err := env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: apiCallUUID,
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      2500,
		Notes:            "spring",
	})
	require.NoError(t, err)
	require.NotEmpty(t, budget.UUID)

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 5)

	byAttr := changesByAttribute(t, changes, "budgets")
	for _, attr := range []string{"amount_cents", "month", "notes", "subcategory_uuid", "year"} {
		change, ok := byAttr[attr]
		require.True(t, ok, "expected a change row for %s", attr)
		assert.False(t, change.OldValue.Valid(), "old value of %s should be null", attr)
		assert.Equal(t, budget.UUID, change.Key)
	}

	assert.Equal(t, "2500", byAttr["amount_cents"].NewValue.String())
	assert.Equal(t, "3", byAttr["month"].NewValue.String())
	assert.Equal(t, "spring", byAttr["notes"].NewValue.String())
	assert.Equal(t, subcategory.UUID, byAttr["subcategory_uuid"].NewValue.String())
	assert.Equal(t, "2024", byAttr["year"].NewValue.String())
}

func TestCreateBudgetValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	apiCallUUID := env.newApiCall(t, env.userUUID)

	cases := []struct {
		name    string
		params  CreateBudgetParams
		message string
	}{
		{
			"missing subcategory",
			CreateBudgetParams{Year: 2024, Month: 3},
			"Category is required",
		},
		{
			"year too early",
			CreateBudgetParams{SubcategoryUUID: "sub", Year: 1999, Month: 3},
			"Invalid year",
		},
		{
			"year too late",
			CreateBudgetParams{SubcategoryUUID: "sub", Year: 2051, Month: 3},
			"Invalid year",
		},
		{
			"month out of range",
			CreateBudgetParams{SubcategoryUUID: "sub", Year: 2024, Month: 12},
			"Invalid month",
		},
		{
			"negative amount",
			CreateBudgetParams{SubcategoryUUID: "sub", Year: 2024, Month: 3, AmountCents: -1},
			"Invalid budget",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.params.AuditApiCallUUID = apiCallUUID
			_, err := env.services.Budget.CreateBudget(ctx, tc.params)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
			assert.EqualError(t, err, tc.message)
		})
	}
}

func TestCreateBudgetDuplicate(t *testing.T) {
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

	_, err = env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      3000,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.EqualError(t, err, "Duplicate budget")
}

func TestUpdateBudgetSingleAttribute(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	budget, err := env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      2500,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	year := 2025
	updated, err := env.services.Budget.UpdateBudget(ctx, UpdateBudgetParams{
		AuditApiCallUUID: apiCallUUID,
		BudgetUUID:       budget.UUID,
		Year:             &year,
	})
	require.NoError(t, err)
	assert.Equal(t, 2025, updated.Year)

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 1)
	assert.Equal(t, "year", changes[0].Attribute)
	assert.Equal(t, "2024", changes[0].OldValue.String())
	assert.Equal(t, "2025", changes[0].NewValue.String())
}

func TestUpdateBudgetNoOpSkipsAuditLog(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	budget, err := env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      2500,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	year := 2024
	amount := int64(2500)
	_, err = env.services.Budget.UpdateBudget(ctx, UpdateBudgetParams{
		AuditApiCallUUID: apiCallUUID,
		BudgetUUID:       budget.UUID,
		Year:             &year,
		AmountCents:      &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, env.auditLogCount(t, apiCallUUID))
	assert.Empty(t, env.changesFor(t, apiCallUUID))
}

func TestUpdateBudgetCrossHousehold(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	budget, err := env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      2500,
	})
	require.NoError(t, err)

	// A user from another household cannot see or touch the budget.
	_, otherUserUUID := env.seedHousehold(t, "Other household", "john@example.com")
	apiCallUUID := env.newApiCall(t, otherUserUUID)
	year := 2025
	_, err = env.services.Budget.UpdateBudget(ctx, UpdateBudgetParams{
		AuditApiCallUUID: apiCallUUID,
		BudgetUUID:       budget.UUID,
		Year:             &year,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, env.changesFor(t, apiCallUUID))

	err = env.services.Budget.DeleteBudget(ctx, apiCallUUID, budget.UUID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteBudget(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Housing")
	subcategory := env.seedSubcategory(t, category.UUID, "Rent")

	budget, err := env.services.Budget.CreateBudget(ctx, CreateBudgetParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		SubcategoryUUID:  subcategory.UUID,
		Year:             2024,
		Month:            3,
		AmountCents:      2500,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	require.NoError(t, env.services.Budget.DeleteBudget(ctx, apiCallUUID, budget.UUID))

	got, err := env.repos.Budget.GetByUUID(ctx, budget.UUID, env.householdUUID)
	require.NoError(t, err)
	assert.Nil(t, got)

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 1)
	assert.Equal(t, "deleted_at", changes[0].Attribute)
	assert.False(t, changes[0].OldValue.Valid())
	assert.True(t, changes[0].NewValue.Valid())
}
