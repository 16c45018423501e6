package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// FundController handles fund HTTP requests
type FundController struct {
	services *services.Services
}

// NewFundController creates a new fund controller
func NewFundController(services *services.Services) *FundController {
	return &FundController{services: services}
}

// Create handles POST /funds
func (c *FundController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	fund, err := c.services.Fund.CreateFund(r.Context(), services.CreateFundParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		Name:             strVal(res.stringAttr("name")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, fundResource(fund))
}

// Update handles PATCH /funds/{uuid}
func (c *FundController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	fund, err := c.services.Fund.UpdateFund(r.Context(), services.UpdateFundParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		FundUUID:         chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, fundResource(fund))
}

// Delete handles DELETE /funds/{uuid}
func (c *FundController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Fund.DeleteFund(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func fundResource(fund *models.Fund) resource {
	return resource{
		Type: "funds",
		ID:   fund.UUID,
		Attributes: map[string]interface{}{
			"balance":    fund.BalanceCents,
			"created-at": fund.CreatedAt,
			"name":       fund.Name,
		},
	}
}
