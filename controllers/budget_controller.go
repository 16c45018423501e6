package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// BudgetController handles budget HTTP requests
type BudgetController struct {
	services *services.Services
}

// NewBudgetController creates a new budget controller
func NewBudgetController(services *services.Services) *BudgetController {
	return &BudgetController{services: services}
}

// Create handles POST /budgets
func (c *BudgetController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	budget, err := c.services.Budget.CreateBudget(r.Context(), services.CreateBudgetParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		SubcategoryUUID:  strVal(res.relationshipID("subcategory")),
		Year:             intVal(res.intAttr("year")),
		Month:            intVal(res.intAttr("month")),
		AmountCents:      int64Val(res.int64Attr("amount")),
		Notes:            strVal(res.stringAttr("notes")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, budgetResource(budget))
}

// Update handles PATCH /budgets/{uuid}
func (c *BudgetController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	budget, err := c.services.Budget.UpdateBudget(r.Context(), services.UpdateBudgetParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		BudgetUUID:       chi.URLParam(r, "uuid"),
		SubcategoryUUID:  res.relationshipID("subcategory"),
		Year:             res.intAttr("year"),
		Month:            res.intAttr("month"),
		AmountCents:      res.int64Attr("amount"),
		Notes:            res.stringAttr("notes"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, budgetResource(budget))
}

// Delete handles DELETE /budgets/{uuid}
func (c *BudgetController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Budget.DeleteBudget(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func budgetResource(budget *models.Budget) resource {
	return resource{
		Type: "budgets",
		ID:   budget.UUID,
		Attributes: map[string]interface{}{
			"amount":     budget.AmountCents,
			"created-at": budget.CreatedAt,
			"month":      budget.Month,
			"notes":      budget.Notes,
			"year":       budget.Year,
		},
		Relationships: map[string]relationship{
			"subcategory": {Data: &resourceIdentifier{Type: "subcategories", ID: budget.SubcategoryUUID}},
		},
	}
}
