package handlers

import (
	"net/http"
	"strings"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Could not load dashboard data.")
		return
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{"D": d})
}

func (h *Handler) Checklist(c *gin.Context) {
	reqs, err := h.store.ListRequirements(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Could not load requirements.")
		return
	}

	render(c, http.StatusOK, "audit_checklist.html", gin.H{
		"Groups":   store.GroupByCategory(reqs),
		"Statuses": compliance.Statuses,
	})
}

type statusForm struct {
	RequirementID string `form:"requirement_id" binding:"required"`
	Status        string `form:"status" binding:"required,requirement_status"`
	Notes         string `form:"notes"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var form statusForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, "Invalid requirement status!", "/audit")
		return
	}

	actor := middleware.Actor(c)
	err := h.store.UpdateRequirementStatus(c.Request.Context(), store.StatusUpdate{
		RequirementID: form.RequirementID,
		Status:        compliance.Status(form.Status),
		Notes:         strings.TrimSpace(form.Notes),
		Actor:         actor,
	}, h.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, err, "Requirement not found!", "/audit")
		return
	case err != nil:
		h.fail(c, err, "Could not update requirement.", "/audit")
		return
	}

	h.metrics.StatusChanges.WithLabelValues(form.Status).Inc()
	h.store.Audit(c.Request.Context(), actor, "requirement", form.RequirementID, "status_change", form.Status)
	h.done(c, "Requirement updated successfully!", "/audit")
}
