package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// MemberController handles household member HTTP requests
type MemberController struct {
	services *services.Services
}

// NewMemberController creates a new household member controller
func NewMemberController(services *services.Services) *MemberController {
	return &MemberController{services: services}
}

// Create handles POST /household-members
func (c *MemberController) Create(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	member, err := c.services.Member.CreateMember(r.Context(), services.CreateMemberParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		Name:             strVal(res.stringAttr("name")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, memberResource(member))
}

// Update handles PATCH /household-members/{uuid}
func (c *MemberController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	member, err := c.services.Member.UpdateMember(r.Context(), services.UpdateMemberParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		MemberUUID:       chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, memberResource(member))
}

// Delete handles DELETE /household-members/{uuid}
func (c *MemberController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Member.DeleteMember(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func memberResource(member *models.HouseholdMember) resource {
	return resource{
		Type: "household-members",
		ID:   member.UUID,
		Attributes: map[string]interface{}{
			"created-at": member.CreatedAt,
			"name":       member.Name,
		},
	}
}
