package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// LoanController handles loan HTTP requests
type LoanController struct {
	services *services.Services
}

// NewLoanController creates a new loan controller
func NewLoanController(services *services.Services) *LoanController {
	return &LoanController{services: services}
}

// Create handles POST /loans
func (c *LoanController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	loan, err := c.services.Loan.CreateLoan(r.Context(), services.CreateLoanParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		Name:             strVal(res.stringAttr("name")),
		AmountCents:      int64Val(res.int64Attr("amount")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, loanResource(loan))
}

// Update handles PATCH /loans/{uuid}
func (c *LoanController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	loan, err := c.services.Loan.UpdateLoan(r.Context(), services.UpdateLoanParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		LoanUUID:         chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
		AmountCents:      res.int64Attr("amount"),
		BalanceCents:     res.int64Attr("balance"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, loanResource(loan))
}

// Delete handles DELETE /loans/{uuid}
func (c *LoanController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Loan.DeleteLoan(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loanResource(loan *models.Loan) resource {
	return resource{
		Type: "loans",
		ID:   loan.UUID,
		Attributes: map[string]interface{}{
			"amount":     loan.AmountCents,
			"balance":    loan.BalanceCents,
			"created-at": loan.CreatedAt,
			"name":       loan.Name,
		},
	}
}
