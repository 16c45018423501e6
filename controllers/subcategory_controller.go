package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// SubcategoryController handles subcategory HTTP requests
type SubcategoryController struct {
	services *services.Services
}

// NewSubcategoryController creates a new subcategory controller
func NewSubcategoryController(services *services.Services) *SubcategoryController {
	return &SubcategoryController{services: services}
}

// Create handles POST /subcategories
func (c *SubcategoryController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	subcategory, err := c.services.Category.CreateSubcategory(r.Context(), services.CreateSubcategoryParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		CategoryUUID:     strVal(res.relationshipID("category")),
		Name:             strVal(res.stringAttr("name")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, subcategoryResource(subcategory))
}

// Update handles PATCH /subcategories/{uuid}
func (c *SubcategoryController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	subcategory, err := c.services.Category.UpdateSubcategory(r.Context(), services.UpdateSubcategoryParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		SubcategoryUUID:  chi.URLParam(r, "uuid"),
		CategoryUUID:     res.relationshipID("category"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, subcategoryResource(subcategory))
}

// Delete handles DELETE /subcategories/{uuid}
func (c *SubcategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Category.DeleteSubcategory(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func subcategoryResource(subcategory *models.Subcategory) resource {
	return resource{
		Type: "subcategories",
		ID:   subcategory.UUID,
		Attributes: map[string]interface{}{
			"created-at": subcategory.CreatedAt,
			"name":       subcategory.Name,
		},
		Relationships: map[string]relationship{
			"category": {Data: &resourceIdentifier{Type: "categories", ID: subcategory.CategoryUUID}},
		},
	}
}
