package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
)

// expenseFixture seeds everything an expense needs to reference.
type expenseFixture struct {
	subcategory *models.Subcategory
	vendor      *models.Vendor
	member      *models.HouseholdMember
	fund        *models.Fund
}

func seedExpenseFixture(t *testing.T, env *testEnv) expenseFixture {
	t.Helper()
	category := env.seedCategory(t, "Food")
	return expenseFixture{
		subcategory: env.seedSubcategory(t, category.UUID, "Groceries"),
		vendor:      env.seedVendor(t, "Corner Store"),
		member:      env.seedMember(t, "Jane"),
		fund:        env.seedFund(t, "Grocery fund"),
	}
}

func (f expenseFixture) createParams(apiCallUUID string) CreateExpenseParams {
	return CreateExpenseParams{
		AuditApiCallUUID: apiCallUUID,
		SubcategoryUUID:  f.subcategory.UUID,
		VendorUUID:       f.vendor.UUID,
		MemberUUID:       f.member.UUID,
		Date:             "2024-03-15",
		AmountCents:      1200,
		Description:      "weekly shop",
	}
}

func TestCreateExpenseWithFundDebitsBalance(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fixture := seedExpenseFixture(t, env)

	// Seed the fund with money first.
	_, err := env.services.Fund.CreateDeposit(ctx, CreateDepositParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		FundUUID:         fixture.fund.UUID,
		Date:             "2024-03-01",
		AmountCents:      5000,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	params := fixture.createParams(apiCallUUID)
	params.FundUUID = &fixture.fund.UUID
	expense, err := env.services.Expense.CreateExpense(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, int64(3800), env.fundBalance(t, fixture.fund.UUID))

	changes := env.changesFor(t, apiCallUUID)
	expenseChanges := changesByAttribute(t, changes, "expenses")
	require.Len(t, expenseChanges, 8)
	assert.Equal(t, "1200", expenseChanges["amount_cents"].NewValue.String())
	assert.Equal(t, fixture.fund.UUID, expenseChanges["fund_uuid"].NewValue.String())
	assert.Equal(t, expense.UUID, expenseChanges["amount_cents"].Key)

	fundChanges := changesByAttribute(t, changes, "funds")
	require.Len(t, fundChanges, 1)
	assert.Equal(t, "5000", fundChanges["balance_cents"].OldValue.String())
	assert.Equal(t, "3800", fundChanges["balance_cents"].NewValue.String())
}

func TestCreateExpenseWithoutFundReportsNullLink(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fixture := seedExpenseFixture(t, env)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	_, err := env.services.Expense.CreateExpense(ctx, fixture.createParams(apiCallUUID))
	require.NoError(t, err)

	changes := env.changesFor(t, apiCallUUID)
	expenseChanges := changesByAttribute(t, changes, "expenses")
	require.Len(t, expenseChanges, 8)
	assert.False(t, expenseChanges["fund_uuid"].NewValue.Valid())

	// No fund was touched.
	assert.Empty(t, changesByAttribute(t, changes, "funds"))
}

func TestUpdateExpenseDetachFundCreditsBalance(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fixture := seedExpenseFixture(t, env)

	params := fixture.createParams(env.newApiCall(t, env.userUUID))
	params.FundUUID = &fixture.fund.UUID
	expense, err := env.services.Expense.CreateExpense(ctx, params)
	require.NoError(t, err)
	require.Equal(t, int64(-1200), env.fundBalance(t, fixture.fund.UUID))

	apiCallUUID := env.newApiCall(t, env.userUUID)
	_, err = env.services.Expense.UpdateExpense(ctx, UpdateExpenseParams{
		AuditApiCallUUID: apiCallUUID,
		ExpenseUUID:      expense.UUID,
		DetachFund:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), env.fundBalance(t, fixture.fund.UUID))

	changes := env.changesFor(t, apiCallUUID)
	expenseChanges := changesByAttribute(t, changes, "expenses")
	require.Len(t, expenseChanges, 1)
	assert.Equal(t, fixture.fund.UUID, expenseChanges["fund_uuid"].OldValue.String())
	assert.False(t, expenseChanges["fund_uuid"].NewValue.Valid())
}

func TestUpdateExpenseAmountAdjustsLinkedFund(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fixture := seedExpenseFixture(t, env)

	params := fixture.createParams(env.newApiCall(t, env.userUUID))
	params.FundUUID = &fixture.fund.UUID
	expense, err := env.services.Expense.CreateExpense(ctx, params)
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	amount := int64(1500)
	_, err = env.services.Expense.UpdateExpense(ctx, UpdateExpenseParams{
		AuditApiCallUUID: apiCallUUID,
		ExpenseUUID:      expense.UUID,
		AmountCents:      &amount,
	})
	require.NoError(t, err)

	// Started at -1200, the extra 300 comes out of the fund.
	assert.Equal(t, int64(-1500), env.fundBalance(t, fixture.fund.UUID))
}

func TestDeleteExpenseCreditsLinkedFund(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fixture := seedExpenseFixture(t, env)

	params := fixture.createParams(env.newApiCall(t, env.userUUID))
	params.FundUUID = &fixture.fund.UUID
	expense, err := env.services.Expense.CreateExpense(ctx, params)
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	require.NoError(t, env.services.Expense.DeleteExpense(ctx, apiCallUUID, expense.UUID))

	assert.Equal(t, int64(0), env.fundBalance(t, fixture.fund.UUID))

	got, err := env.repos.Expense.GetByUUID(ctx, expense.UUID, env.householdUUID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateExpenseValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	apiCallUUID := env.newApiCall(t, env.userUUID)

	cases := []struct {
		name    string
		mutate  func(*CreateExpenseParams)
		message string
	}{
		{"missing subcategory", func(p *CreateExpenseParams) { p.SubcategoryUUID = "" }, "Subcategory is required"},
		{"missing vendor", func(p *CreateExpenseParams) { p.VendorUUID = "" }, "Vendor is required"},
		{"missing member", func(p *CreateExpenseParams) { p.MemberUUID = "" }, "Member is required"},
		{"bad date", func(p *CreateExpenseParams) { p.Date = "soon" }, "Invalid date"},
		{"negative amount", func(p *CreateExpenseParams) { p.AmountCents = -1 }, "Invalid amount"},
		{"negative reimbursed", func(p *CreateExpenseParams) { p.ReimbursedCents = -1 }, "Invalid reimbursed amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := CreateExpenseParams{
				AuditApiCallUUID: apiCallUUID,
				SubcategoryUUID:  "sub",
				VendorUUID:       "vendor",
				MemberUUID:       "member",
				Date:             "2024-03-15",
				AmountCents:      100,
			}
			tc.mutate(&params)
			_, err := env.services.Expense.CreateExpense(ctx, params)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
			assert.EqualError(t, err, tc.message)
		})
	}
}

func TestCreateExpenseCrossHouseholdVendor(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fixture := seedExpenseFixture(t, env)

	// Vendor belonging to another household is invisible.
	_, otherUserUUID := env.seedHousehold(t, "Other household", "john@example.com")
	apiCallUUID := env.newApiCall(t, otherUserUUID)

	params := fixture.createParams(apiCallUUID)
	_, err := env.services.Expense.CreateExpense(ctx, params)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
