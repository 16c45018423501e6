package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// EmployerController handles employer HTTP requests
type EmployerController struct {
	services *services.Services
}

// NewEmployerController creates a new employer controller
func NewEmployerController(services *services.Services) *EmployerController {
	return &EmployerController{services: services}
}

// Create handles POST /employers
func (c *EmployerController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	employer, err := c.services.Employer.CreateEmployer(r.Context(), services.CreateEmployerParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		Name:             strVal(res.stringAttr("name")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, employerResource(employer))
}

// Update handles PATCH /employers/{uuid}
func (c *EmployerController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	employer, err := c.services.Employer.UpdateEmployer(r.Context(), services.UpdateEmployerParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		EmployerUUID:     chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, employerResource(employer))
}

// Delete handles DELETE /employers/{uuid}
func (c *EmployerController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Employer.DeleteEmployer(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func employerResource(employer *models.Employer) resource {
	return resource{
		Type: "employers",
		ID:   employer.UUID,
		Attributes: map[string]interface{}{
			"created-at": employer.CreatedAt,
			"name":       employer.Name,
		},
	}
}
