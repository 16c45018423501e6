package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/userctx"
)

// stubAuditRepo records the api calls the middleware creates. Only
// CreateApiCall is reachable from the middleware.
type stubAuditRepo struct {
	calls []*models.AuditApiCall
	err   error
}

func (s *stubAuditRepo) CreateApiCall(_ context.Context, call *models.AuditApiCall) error {
	if s.err != nil {
		return s.err
	}
	call.UUID = "api-call-uuid"
	s.calls = append(s.calls, call)
	return nil
}

func (s *stubAuditRepo) GetApiCall(context.Context, string) (*models.AuditApiCall, error) {
	return nil, nil
}

func (s *stubAuditRepo) GetOrCreateLog(context.Context, *database.Tx, string) (*models.AuditLog, error) {
	return nil, nil
}

func (s *stubAuditRepo) CreateChange(context.Context, *database.Tx, *models.AuditChange) error {
	return nil
}

func (s *stubAuditRepo) SoftDelete(context.Context, *database.Tx, models.SoftDeletable, time.Time) error {
	return nil
}

func (s *stubAuditRepo) GetChangesForApiCall(context.Context, string) ([]models.AuditChange, error) {
	return nil, nil
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAuditTrackerRecordsMutatingRequests(t *testing.T) {
	repo := &stubAuditRepo{}
	var gotApiCallUUID string
	handler := AuditTracker(repo, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotApiCallUUID = userctx.GetAuditApiCallUUID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/budgets", nil)
	req.Header.Set("User-Agent", "go-test")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req = req.WithContext(userctx.SetUserUUID(req.Context(), "user-uuid-1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "api-call-uuid", gotApiCallUUID)

	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	assert.Equal(t, "POST", call.HTTPMethod)
	assert.Equal(t, "/budgets", call.Route)
	assert.Equal(t, "203.0.113.7", call.IPAddress)
	assert.Equal(t, "go-test", call.UserAgent)
	require.NotNil(t, call.UserUUID)
	assert.Equal(t, "user-uuid-1", *call.UserUUID)
}

func TestAuditTrackerSkipsReads(t *testing.T) {
	repo := &stubAuditRepo{}
	handler := AuditTracker(repo, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, userctx.GetAuditApiCallUUID(r.Context()))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.calls)
}

func TestAuditTrackerRefusesWhenInsertFails(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("db down")}
	handler := AuditTracker(repo, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/budgets/b1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"errors":[{"status":"500","detail":"Internal server error"}]}`, rec.Body.String())
}

func TestGetIPAddressPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.1:51234"
	assert.Equal(t, "192.0.2.1", getIPAddress(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getIPAddress(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getIPAddress(req))
}
