package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// CategoryController handles category HTTP requests
type CategoryController struct {
	services *services.Services
}

// NewCategoryController creates a new category controller
func NewCategoryController(services *services.Services) *CategoryController {
	return &CategoryController{services: services}
}

// Create handles POST /categories
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	category, err := c.services.Category.CreateCategory(r.Context(), services.CreateCategoryParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		Name:             strVal(res.stringAttr("name")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, categoryResource(category))
}

// Update handles PATCH /categories/{uuid}
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	category, err := c.services.Category.UpdateCategory(r.Context(), services.UpdateCategoryParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		CategoryUUID:     chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, categoryResource(category))
}

// Delete handles DELETE /categories/{uuid}
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Category.DeleteCategory(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func categoryResource(category *models.Category) resource {
	return resource{
		Type: "categories",
		ID:   category.UUID,
		Attributes: map[string]interface{}{
			"created-at": category.CreatedAt,
			"name":       category.Name,
		},
	}
}
