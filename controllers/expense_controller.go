package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// ExpenseController handles expense HTTP requests
type ExpenseController struct {
	services *services.Services
}

// NewExpenseController creates a new expense controller
func NewExpenseController(services *services.Services) *ExpenseController {
	return &ExpenseController{services: services}
}

// Create handles POST /expenses
func (c *ExpenseController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	expense, err := c.services.Expense.CreateExpense(r.Context(), services.CreateExpenseParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		SubcategoryUUID:  strVal(res.relationshipID("subcategory")),
		VendorUUID:       strVal(res.relationshipID("vendor")),
		MemberUUID:       strVal(res.relationshipID("household-member")),
		FundUUID:         res.relationshipID("fund"),
		Date:             strVal(res.stringAttr("date")),
		AmountCents:      int64Val(res.int64Attr("amount")),
		ReimbursedCents:  int64Val(res.int64Attr("reimbursed-amount")),
		Description:      strVal(res.stringAttr("description")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, expenseResource(expense))
}

// Update handles PATCH /expenses/{uuid}
func (c *ExpenseController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	expense, err := c.services.Expense.UpdateExpense(r.Context(), services.UpdateExpenseParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		ExpenseUUID:      chi.URLParam(r, "uuid"),
		SubcategoryUUID:  res.relationshipID("subcategory"),
		VendorUUID:       res.relationshipID("vendor"),
		MemberUUID:       res.relationshipID("household-member"),
		FundUUID:         res.relationshipID("fund"),
		DetachFund:       res.relationshipCleared("fund"),
		Date:             res.stringAttr("date"),
		AmountCents:      res.int64Attr("amount"),
		ReimbursedCents:  res.int64Attr("reimbursed-amount"),
		Description:      res.stringAttr("description"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, expenseResource(expense))
}

// Delete handles DELETE /expenses/{uuid}
func (c *ExpenseController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Expense.DeleteExpense(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func expenseResource(expense *models.Expense) resource {
	relationships := map[string]relationship{
		"subcategory":      {Data: &resourceIdentifier{Type: "subcategories", ID: expense.SubcategoryUUID}},
		"vendor":           {Data: &resourceIdentifier{Type: "vendors", ID: expense.VendorUUID}},
		"household-member": {Data: &resourceIdentifier{Type: "household-members", ID: expense.HouseholdMemberUUID}},
	}
	if expense.FundUUID != nil {
		relationships["fund"] = relationship{Data: &resourceIdentifier{Type: "funds", ID: *expense.FundUUID}}
	}

	return resource{
		Type: "expenses",
		ID:   expense.UUID,
		Attributes: map[string]interface{}{
			"amount":            expense.AmountCents,
			"created-at":        expense.CreatedAt,
			"date":              expense.Date,
			"description":       expense.Description,
			"reimbursed-amount": expense.ReimbursedCents,
		},
		Relationships: relationships,
	}
}
