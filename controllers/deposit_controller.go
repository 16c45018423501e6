package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// DepositController handles deposit HTTP requests
type DepositController struct {
	services *services.Services
}

// NewDepositController creates a new deposit controller
func NewDepositController(services *services.Services) *DepositController {
	return &DepositController{services: services}
}

// Create handles POST /deposits
func (c *DepositController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	deposit, err := c.services.Fund.CreateDeposit(r.Context(), services.CreateDepositParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		FundUUID:         strVal(res.relationshipID("fund")),
		Date:             strVal(res.stringAttr("date")),
		AmountCents:      int64Val(res.int64Attr("amount")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, depositResource(deposit))
}

// Update handles PATCH /deposits/{uuid}
func (c *DepositController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	deposit, err := c.services.Fund.UpdateDeposit(r.Context(), services.UpdateDepositParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		DepositUUID:      chi.URLParam(r, "uuid"),
		FundUUID:         res.relationshipID("fund"),
		Date:             res.stringAttr("date"),
		AmountCents:      res.int64Attr("amount"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, depositResource(deposit))
}

// Delete handles DELETE /deposits/{uuid}
func (c *DepositController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Fund.DeleteDeposit(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func depositResource(deposit *models.Deposit) resource {
	return resource{
		Type: "deposits",
		ID:   deposit.UUID,
		Attributes: map[string]interface{}{
			"amount":     deposit.AmountCents,
			"created-at": deposit.CreatedAt,
			"date":       deposit.Date,
		},
		Relationships: map[string]relationship{
			"fund": {Data: &resourceIdentifier{Type: "funds", ID: deposit.FundUUID}},
		},
	}
}
