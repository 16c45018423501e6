package services

import (
	"context"
	"time"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/repositories"
)

// resolveAuditUser maps an audit API call to the acting user, and
// through the user to the household every ownership check is scoped
// to. Every mutating service call starts here.
func resolveAuditUser(ctx context.Context, repos *repositories.Repositories, auditApiCallUUID string) (*models.User, error) {
	apiCall, err := repos.Audit.GetApiCall(ctx, auditApiCallUUID)
	if err != nil {
		return nil, err
	}
	if apiCall == nil || apiCall.UserUUID == nil {
		return nil, apperr.Validation("Missing audit API call")
	}

	user, err := repos.User.GetByUUID(ctx, *apiCall.UserUUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Validation("Audit user does not exist")
	}

	return user, nil
}

// validDate reports whether s is a YYYY-MM-DD calendar date.
func validDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
