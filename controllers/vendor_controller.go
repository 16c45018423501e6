package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// VendorController handles vendor HTTP requests
type VendorController struct {
	services *services.Services
}

// NewVendorController creates a new vendor controller
func NewVendorController(services *services.Services) *VendorController {
	return &VendorController{services: services}
}

// Create handles POST /vendors
func (c *VendorController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	vendor, err := c.services.Vendor.CreateVendor(r.Context(), services.CreateVendorParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		Name:             strVal(res.stringAttr("name")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, vendorResource(vendor))
}

// Update handles PATCH /vendors/{uuid}
func (c *VendorController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	vendor, err := c.services.Vendor.UpdateVendor(r.Context(), services.UpdateVendorParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		VendorUUID:       chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, vendorResource(vendor))
}

// Delete handles DELETE /vendors/{uuid}
func (c *VendorController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Vendor.DeleteVendor(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func vendorResource(vendor *models.Vendor) resource {
	return resource{
		Type: "vendors",
		ID:   vendor.UUID,
		Attributes: map[string]interface{}{
			"created-at": vendor.CreatedAt,
			"name":       vendor.Name,
		},
	}
}
