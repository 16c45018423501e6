package services

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// testEnv is one migrated sqlite database with a seeded household and
// user, plus the full service stack wired against it.
type testEnv struct {
	db       *database.DB
	repos    *repositories.Repositories
	services *Services

	householdUUID string
	userUUID      string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repos := repositories.NewRepositories(db)
	env := &testEnv{
		db:       db,
		repos:    repos,
		services: NewServices(db, repos, logger),
	}

	env.householdUUID, env.userUUID = env.seedHousehold(t, "Doe household", "jane@example.com")
	return env
}

// seedHousehold inserts a household with one user and returns both
// UUIDs.
func (e *testEnv) seedHousehold(t *testing.T, name, email string) (string, string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	householdUUID := uuid.NewString()
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO households (uuid, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		householdUUID, name, now, now)
	require.NoError(t, err)

	userUUID := uuid.NewString()
	_, err = e.db.ExecContext(ctx,
		`INSERT INTO users (uuid, household_uuid, email, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userUUID, householdUUID, email, "Jane", "Doe", now, now)
	require.NoError(t, err)

	return householdUUID, userUUID
}

// newApiCall records an audit api call attributed to the given user,
// the way the audit middleware does per request.
func (e *testEnv) newApiCall(t *testing.T, userUUID string) string {
	t.Helper()
	call := &models.AuditApiCall{
		UserUUID:   &userUUID,
		HTTPMethod: "POST",
		Route:      "/test",
		IPAddress:  "127.0.0.1",
		UserAgent:  "go-test",
	}
	require.NoError(t, e.repos.Audit.CreateApiCall(context.Background(), call))
	return call.UUID
}

// newAnonymousApiCall records an api call with no attributed user.
func (e *testEnv) newAnonymousApiCall(t *testing.T) string {
	t.Helper()
	call := &models.AuditApiCall{HTTPMethod: "POST", Route: "/test"}
	require.NoError(t, e.repos.Audit.CreateApiCall(context.Background(), call))
	return call.UUID
}

// changesFor returns every audit change row attributed to one api call.
func (e *testEnv) changesFor(t *testing.T, apiCallUUID string) []models.AuditChange {
	t.Helper()
	changes, err := e.repos.Audit.GetChangesForApiCall(context.Background(), apiCallUUID)
	require.NoError(t, err)
	return changes
}

// changesByAttribute indexes change rows for a single table by
// attribute name.
func changesByAttribute(t *testing.T, changes []models.AuditChange, tableName string) map[string]models.AuditChange {
	t.Helper()
	indexed := make(map[string]models.AuditChange)
	for _, change := range changes {
		if change.TableName == tableName {
			indexed[change.Attribute] = change
		}
	}
	return indexed
}

func (e *testEnv) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{HouseholdUUID: e.householdUUID, Name: name}
	e.seedRecord(t, func(ctx context.Context, tx *database.Tx) error {
		return e.repos.Category.CreateCategory(ctx, tx, category)
	})
	models.MarkLoaded(category)
	return category
}

func (e *testEnv) seedSubcategory(t *testing.T, categoryUUID, name string) *models.Subcategory {
	t.Helper()
	subcategory := &models.Subcategory{CategoryUUID: categoryUUID, Name: name}
	e.seedRecord(t, func(ctx context.Context, tx *database.Tx) error {
		return e.repos.Category.CreateSubcategory(ctx, tx, subcategory)
	})
	models.MarkLoaded(subcategory)
	return subcategory
}

func (e *testEnv) seedVendor(t *testing.T, name string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{HouseholdUUID: e.householdUUID, Name: name}
	e.seedRecord(t, func(ctx context.Context, tx *database.Tx) error {
		return e.repos.Vendor.Create(ctx, tx, vendor)
	})
	models.MarkLoaded(vendor)
	return vendor
}

func (e *testEnv) seedMember(t *testing.T, name string) *models.HouseholdMember {
	t.Helper()
	member := &models.HouseholdMember{HouseholdUUID: e.householdUUID, Name: name}
	e.seedRecord(t, func(ctx context.Context, tx *database.Tx) error {
		return e.repos.Member.Create(ctx, tx, member)
	})
	models.MarkLoaded(member)
	return member
}

func (e *testEnv) seedFund(t *testing.T, name string) *models.Fund {
	t.Helper()
	fund := &models.Fund{HouseholdUUID: e.householdUUID, Name: name}
	e.seedRecord(t, func(ctx context.Context, tx *database.Tx) error {
		return e.repos.Fund.CreateFund(ctx, tx, fund)
	})
	models.MarkLoaded(fund)
	return fund
}

func (e *testEnv) seedRecord(t *testing.T, create func(ctx context.Context, tx *database.Tx) error) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.db.WithTransaction(ctx, func(tx *database.Tx) error {
		return create(ctx, tx)
	}))
}

// fundBalance reads the persisted balance of a fund.
func (e *testEnv) fundBalance(t *testing.T, fundUUID string) int64 {
	t.Helper()
	var balance int64
	err := e.db.QueryRowContext(context.Background(),
		`SELECT balance_cents FROM funds WHERE uuid = ?`, fundUUID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// auditLogCount counts audit_logs rows attributed to one api call.
func (e *testEnv) auditLogCount(t *testing.T, apiCallUUID string) int {
	t.Helper()
	var count int
	err := e.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM audit_logs WHERE audit_api_call_uuid = ?`, apiCallUUID).Scan(&count)
	require.NoError(t, err)
	return count
}
