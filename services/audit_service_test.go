package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
)

func TestTrackChangesRequiresTransaction(t *testing.T) {
	env := setupTestEnv(t)
	apiCallUUID := env.newApiCall(t, env.userUUID)

	err := env.services.Audit.TrackChanges(context.Background(), TrackChangesParams{
		AuditApiCallUUID: apiCallUUID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsAudit(err))
	assert.EqualError(t, err, "Transaction is required")
}

func TestTrackChangesRejectsBrokenAuditContext(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name        string
		apiCallUUID string
	}{
		{"unknown api call", uuid.NewString()},
		{"api call without user", env.newAnonymousApiCall(t)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := env.db.WithTransaction(ctx, func(tx *database.Tx) error {
				return env.services.Audit.TrackChanges(ctx, TrackChangesParams{
					AuditApiCallUUID: tc.apiCallUUID,
					Tx:               tx,
				})
			})
			require.Error(t, err)
			assert.True(t, apperr.IsAudit(err))
			assert.EqualError(t, err, "Missing audit API call")
		})
	}
}

func TestTrackChangesNewRecord(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	apiCallUUID := env.newApiCall(t, env.userUUID)

	vendor := &models.Vendor{HouseholdUUID: env.householdUUID, Name: "Corner Store"}
	err := env.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := env.repos.Vendor.Create(ctx, tx, vendor); err != nil {
			return err
		}
		return env.services.Audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: apiCallUUID,
			NewRecords:       []models.Record{vendor},
			Tx:               tx,
		})
	})
	require.NoError(t, err)

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 2)

	byAttr := changesByAttribute(t, changes, "vendors")
	require.Contains(t, byAttr, "household_uuid")
	require.Contains(t, byAttr, "name")

	for attr, change := range byAttr {
		assert.False(t, change.OldValue.Valid(), "old value of %s should be null", attr)
		assert.Equal(t, vendor.UUID, change.Key)
	}
	assert.Equal(t, env.householdUUID, byAttr["household_uuid"].NewValue.String())
	assert.Equal(t, "Corner Store", byAttr["name"].NewValue.String())
}

func TestTrackChangesUpdateDiffsAgainstLoadedState(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	vendor := env.seedVendor(t, "Corner Store")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	vendor.Name = "Corner Shop"

	err := env.db.WithTransaction(ctx, func(tx *database.Tx) error {
		if err := env.repos.Vendor.Update(ctx, tx, vendor); err != nil {
			return err
		}
		return env.services.Audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: apiCallUUID,
			ChangedRecords:   []models.Record{vendor},
			Tx:               tx,
		})
	})
	require.NoError(t, err)

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 1)
	assert.Equal(t, "vendors", changes[0].TableName)
	assert.Equal(t, "name", changes[0].Attribute)
	assert.Equal(t, "Corner Store", changes[0].OldValue.String())
	assert.Equal(t, "Corner Shop", changes[0].NewValue.String())
}

func TestTrackChangesSetThenRevertWritesNothing(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	vendor := env.seedVendor(t, "Corner Store")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	vendor.Name = "Corner Shop"
	vendor.Name = "Corner Store"

	err := env.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return env.services.Audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: apiCallUUID,
			ChangedRecords:   []models.Record{vendor},
			Tx:               tx,
		})
	})
	require.NoError(t, err)
	assert.Empty(t, env.changesFor(t, apiCallUUID))
}

func TestTrackChangesDestroySoftDeletes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	vendor := env.seedVendor(t, "Corner Store")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	err := env.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return env.services.Audit.TrackChanges(ctx, TrackChangesParams{
			AuditApiCallUUID: apiCallUUID,
			DeletedRecords:   []models.Record{vendor},
			Tx:               tx,
		})
	})
	require.NoError(t, err)

	// The row is gone from ownership-scoped reads.
	got, err := env.repos.Vendor.GetByUUID(ctx, vendor.UUID, env.householdUUID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Exactly one change row, for deleted_at, null before and set after.
	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 1)
	assert.Equal(t, "deleted_at", changes[0].Attribute)
	assert.False(t, changes[0].OldValue.Valid())
	assert.True(t, changes[0].NewValue.Valid())
}

func TestTrackChangesReusesLogWithinApiCall(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	first := env.seedVendor(t, "First")
	second := env.seedVendor(t, "Second")

	apiCallUUID := env.newApiCall(t, env.userUUID)
	first.Name = "First renamed"
	second.Name = "Second renamed"

	for _, vendor := range []*models.Vendor{first, second} {
		vendor := vendor
		err := env.db.WithTransaction(ctx, func(tx *database.Tx) error {
			if err := env.repos.Vendor.Update(ctx, tx, vendor); err != nil {
				return err
			}
			return env.services.Audit.TrackChanges(ctx, TrackChangesParams{
				AuditApiCallUUID: apiCallUUID,
				ChangedRecords:   []models.Record{vendor},
				Tx:               tx,
			})
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, env.auditLogCount(t, apiCallUUID))

	changes := env.changesFor(t, apiCallUUID)
	require.Len(t, changes, 2)
	assert.Equal(t, changes[0].AuditLogUUID, changes[1].AuditLogUUID)
}
