package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/apperr"
)

func TestCreateDepositAddsToFundBalance(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fund := env.seedFund(t, "Vacation")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	deposit, err := env.services.Fund.CreateDeposit(ctx, CreateDepositParams{
		AuditApiCallUUID: apiCallUUID,
		FundUUID:         fund.UUID,
		Date:             "2024-03-15",
		AmountCents:      1000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), env.fundBalance(t, fund.UUID))

	changes := env.changesFor(t, apiCallUUID)
	depositChanges := changesByAttribute(t, changes, "deposits")
	require.Len(t, depositChanges, 3)
	assert.Equal(t, "1000", depositChanges["amount_cents"].NewValue.String())
	assert.Equal(t, "2024-03-15", depositChanges["date"].NewValue.String())
	assert.Equal(t, fund.UUID, depositChanges["fund_uuid"].NewValue.String())
	assert.Equal(t, deposit.UUID, depositChanges["amount_cents"].Key)

	fundChanges := changesByAttribute(t, changes, "funds")
	require.Len(t, fundChanges, 1)
	assert.Equal(t, "0", fundChanges["balance_cents"].OldValue.String())
	assert.Equal(t, "1000", fundChanges["balance_cents"].NewValue.String())
}

func TestUpdateDepositAmountAdjustsBalanceByDelta(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fund := env.seedFund(t, "Vacation")

	deposit, err := env.services.Fund.CreateDeposit(ctx, CreateDepositParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		FundUUID:         fund.UUID,
		Date:             "2024-03-15",
		AmountCents:      1000,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	amount := int64(700)
	_, err = env.services.Fund.UpdateDeposit(ctx, UpdateDepositParams{
		AuditApiCallUUID: apiCallUUID,
		DepositUUID:      deposit.UUID,
		AmountCents:      &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(700), env.fundBalance(t, fund.UUID))

	changes := env.changesFor(t, apiCallUUID)
	depositChanges := changesByAttribute(t, changes, "deposits")
	require.Len(t, depositChanges, 1)
	assert.Equal(t, "1000", depositChanges["amount_cents"].OldValue.String())
	assert.Equal(t, "700", depositChanges["amount_cents"].NewValue.String())

	fundChanges := changesByAttribute(t, changes, "funds")
	require.Len(t, fundChanges, 1)
	assert.Equal(t, "1000", fundChanges["balance_cents"].OldValue.String())
	assert.Equal(t, "700", fundChanges["balance_cents"].NewValue.String())
}

func TestUpdateDepositMovesAmountBetweenFunds(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	source := env.seedFund(t, "Vacation")
	target := env.seedFund(t, "Emergency")

	deposit, err := env.services.Fund.CreateDeposit(ctx, CreateDepositParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		FundUUID:         source.UUID,
		Date:             "2024-03-15",
		AmountCents:      1000,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	_, err = env.services.Fund.UpdateDeposit(ctx, UpdateDepositParams{
		AuditApiCallUUID: apiCallUUID,
		DepositUUID:      deposit.UUID,
		FundUUID:         &target.UUID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), env.fundBalance(t, source.UUID))
	assert.Equal(t, int64(1000), env.fundBalance(t, target.UUID))

	changes := env.changesFor(t, apiCallUUID)
	depositChanges := changesByAttribute(t, changes, "deposits")
	require.Len(t, depositChanges, 1)
	assert.Equal(t, source.UUID, depositChanges["fund_uuid"].OldValue.String())
	assert.Equal(t, target.UUID, depositChanges["fund_uuid"].NewValue.String())

	// One balance change per fund.
	fundChangeCount := 0
	for _, change := range changes {
		if change.TableName == "funds" {
			fundChangeCount++
			assert.Equal(t, "balance_cents", change.Attribute)
		}
	}
	assert.Equal(t, 2, fundChangeCount)
}

func TestDeleteDepositRestoresFundBalance(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fund := env.seedFund(t, "Vacation")

	deposit, err := env.services.Fund.CreateDeposit(ctx, CreateDepositParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		FundUUID:         fund.UUID,
		Date:             "2024-03-15",
		AmountCents:      1000,
	})
	require.NoError(t, err)

	apiCallUUID := env.newApiCall(t, env.userUUID)
	require.NoError(t, env.services.Fund.DeleteDeposit(ctx, apiCallUUID, deposit.UUID))

	assert.Equal(t, int64(0), env.fundBalance(t, fund.UUID))

	changes := env.changesFor(t, apiCallUUID)
	depositChanges := changesByAttribute(t, changes, "deposits")
	require.Len(t, depositChanges, 1)
	assert.Equal(t, "deleted_at", depositChanges["deleted_at"].Attribute)

	fundChanges := changesByAttribute(t, changes, "funds")
	require.Len(t, fundChanges, 1)
	assert.Equal(t, "1000", fundChanges["balance_cents"].OldValue.String())
	assert.Equal(t, "0", fundChanges["balance_cents"].NewValue.String())
}

func TestCreateDepositValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	apiCallUUID := env.newApiCall(t, env.userUUID)

	cases := []struct {
		name    string
		params  CreateDepositParams
		message string
	}{
		{"missing fund", CreateDepositParams{Date: "2024-03-15"}, "Fund is required"},
		{"bad date", CreateDepositParams{FundUUID: "fund", Date: "03/15/2024"}, "Invalid date"},
		{"negative amount", CreateDepositParams{FundUUID: "fund", Date: "2024-03-15", AmountCents: -5}, "Invalid amount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.params.AuditApiCallUUID = apiCallUUID
			_, err := env.services.Fund.CreateDeposit(ctx, tc.params)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
			assert.EqualError(t, err, tc.message)
		})
	}
}

func TestDeleteFundBlockedByDeposits(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	fund := env.seedFund(t, "Vacation")

	_, err := env.services.Fund.CreateDeposit(ctx, CreateDepositParams{
		AuditApiCallUUID: env.newApiCall(t, env.userUUID),
		FundUUID:         fund.UUID,
		Date:             "2024-03-15",
		AmountCents:      1000,
	})
	require.NoError(t, err)

	err = env.services.Fund.DeleteFund(ctx, env.newApiCall(t, env.userUUID), fund.UUID)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.EqualError(t, err, "Fund has deposits")
}
