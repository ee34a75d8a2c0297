package handlers

import (
	"net/http"
	"strings"

	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

func (h *Handler) PHITracking(c *gin.Context) {
	list, err := h.store.ListPHITypes(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Could not load PHI types.")
		return
	}
	render(c, http.StatusOK, "phi_tracking.html", gin.H{"PHITypes": list})
}

type phiForm struct {
	Name               string `form:"phi_type" binding:"required"`
	Description        string `form:"description"`
	Classification     string `form:"classification" binding:"required"`
	AccessPatterns     string `form:"access_patterns"`
	DisposalProcedures string `form:"disposal_procedures"`
}

func (f phiForm) input() store.PHIInput {
	return store.PHIInput{
		Name:               strings.TrimSpace(f.Name),
		Description:        strings.TrimSpace(f.Description),
		Classification:     strings.TrimSpace(f.Classification),
		AccessPatterns:     strings.TrimSpace(f.AccessPatterns),
		DisposalProcedures: strings.TrimSpace(f.DisposalProcedures),
	}
}

func (h *Handler) AddPHIType(c *gin.Context) {
	var form phiForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, "PHI type and classification are required!", "/phi-tracking")
		return
	}

	p, err := h.store.CreatePHIType(c.Request.Context(), form.input())
	if err != nil {
		h.fail(c, err, "Could not add PHI type.", "/phi-tracking")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "phi_type", idString(p.ID), "create", p.Name)
	h.done(c, "PHI type added successfully!", "/phi-tracking")
}

func (h *Handler) UpdatePHIType(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "PHI type not found!", "/phi-tracking")
		return
	}

	var form phiForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, "PHI type and classification are required!", "/phi-tracking")
		return
	}

	p, err := h.store.UpdatePHIType(c.Request.Context(), id, form.input())
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, err, "PHI type not found!", "/phi-tracking")
		return
	case err != nil:
		h.fail(c, err, "Could not update PHI type.", "/phi-tracking")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "phi_type", idString(p.ID), "update", p.Name)
	h.done(c, "PHI type updated successfully!", "/phi-tracking")
}

func (h *Handler) DeletePHIType(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "PHI type not found!", "/phi-tracking")
		return
	}

	if err := h.store.DeletePHIType(c.Request.Context(), id); err != nil {
		msg := "Could not delete PHI type."
		if errors.Is(err, store.ErrNotFound) {
			msg = "PHI type not found!"
		}
		h.fail(c, err, msg, "/phi-tracking")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "phi_type", idString(id), "delete", "")
	h.done(c, "PHI type deleted successfully!", "/phi-tracking")
}
