package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/household-budget/apperr"
	"github.com/blogem/household-budget/models"
	"github.com/blogem/household-budget/services"
	"github.com/blogem/household-budget/userctx"
)

// AttachmentController handles attachment HTTP requests. Attachments
// are created by the upload pipeline; this surface only renames and
// deletes them.
type AttachmentController struct {
	services *services.Services
}

// NewAttachmentController creates a new attachment controller
func NewAttachmentController(services *services.Services) *AttachmentController {
	return &AttachmentController{services: services}
}

// Update handles PATCH /attachments/{uuid}
func (c *AttachmentController) Update(w http.ResponseWriter, r *http.Request) {
	res, err := decodeDocument(r)
	if err != nil {
		writeError(w, apperr.Validation("Invalid request body"))
		return
	}

	attachment, err := c.services.Attachment.UpdateAttachment(r.Context(), services.UpdateAttachmentParams{
		AuditApiCallUUID: userctx.GetAuditApiCallUUID(r.Context()),
		AttachmentUUID:   chi.URLParam(r, "uuid"),
		Name:             res.stringAttr("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, attachmentResource(attachment))
}

// Delete handles DELETE /attachments/{uuid}
func (c *AttachmentController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Attachment.DeleteAttachment(r.Context(), userctx.GetAuditApiCallUUID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func attachmentResource(attachment *models.Attachment) resource {
	return resource{
		Type: "attachments",
		ID:   attachment.UUID,
		Attributes: map[string]interface{}{
			"created-at": attachment.CreatedAt,
			"name":       attachment.Name,
		},
		Relationships: map[string]relationship{
			"expense": {Data: &resourceIdentifier{Type: "expenses", ID: attachment.EntityUUID}},
		},
	}
}
