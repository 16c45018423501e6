package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// IncomeController handles income HTTP requests
type IncomeController struct {
	services *services.Services
}

// NewIncomeController creates a new income controller
func NewIncomeController(services *services.Services) *IncomeController {
	return &IncomeController{services: services}
}

// Create handles POST /incomes
func (c *IncomeController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	income, err := c.services.Income.CreateIncome(r.Context(), services.CreateIncomeParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		MemberUUID:       strVal(res.relationshipID("household-member")),
		EmployerUUID:     res.relationshipID("employer"),
		Date:             strVal(res.stringAttr("date")),
		AmountCents:      int64Val(res.int64Attr("amount")),
		Description:      strVal(res.stringAttr("description")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, incomeResource(income))
}

// Update handles PATCH /incomes/{uuid}
func (c *IncomeController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	income, err := c.services.Income.UpdateIncome(r.Context(), services.UpdateIncomeParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		IncomeUUID:       chi.URLParam(r, "uuid"),
		MemberUUID:       res.relationshipID("household-member"),
		EmployerUUID:     res.relationshipID("employer"),
		DetachEmployer:   res.relationshipCleared("employer"),
		Date:             res.stringAttr("date"),
		AmountCents:      res.int64Attr("amount"),
		Description:      res.stringAttr("description"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, incomeResource(income))
}

// Delete handles DELETE /incomes/{uuid}
func (c *IncomeController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Income.DeleteIncome(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func incomeResource(income *models.Income) resource {
	relationships := map[string]relationship{
		"household-member": {Data: &resourceIdentifier{Type: "household-members", ID: income.HouseholdMemberUUID}},
	}
	if income.EmployerUUID != nil {
		relationships["employer"] = relationship{Data: &resourceIdentifier{Type: "employers", ID: *income.EmployerUUID}}
	}

	return resource{
		Type: "incomes",
		ID:   income.UUID,
		Attributes: map[string]interface{}{
			"amount":      income.AmountCents,
			"created-at":  income.CreatedAt,
			"date":        income.Date,
			"description": income.Description,
		},
		Relationships: relationships,
	}
}
