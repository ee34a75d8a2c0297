package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/models"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

func (h *Handler) RiskRegister(c *gin.Context) {
	risks, err := h.store.ListRisks(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Could not load risks.")
		return
	}

	render(c, http.StatusOK, "risk_register.html", gin.H{
		"Risks":    risks,
		"Statuses": models.RiskStatuses,
		"Ratings":  []int{1, 2, 3, 4, 5},
	})
}

// risk_score в форме нет: он всегда считается из likelihood и impact
type riskForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Likelihood  int    `form:"likelihood" binding:"required,min=1,max=5"`
	Impact      int    `form:"impact" binding:"required,min=1,max=5"`
	Mitigation  string `form:"mitigation"`
	Owner       string `form:"owner"`
	Status      string `form:"status" binding:"omitempty,risk_status"`
}

func (f riskForm) input() store.RiskInput {
	return store.RiskInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Likelihood:  f.Likelihood,
		Impact:      f.Impact,
		Mitigation:  strings.TrimSpace(f.Mitigation),
		Owner:       strings.TrimSpace(f.Owner),
		Status:      models.RiskStatus(f.Status),
	}
}

func riskFormMessage(err error) string {
	if errors.Is(err, compliance.ErrInvalidRating) {
		return "Likelihood and impact must be between 1 and 5!"
	}
	return "Invalid risk data: title, likelihood and impact (1-5) are required."
}

func (h *Handler) AddRisk(c *gin.Context) {
	var form riskForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, riskFormMessage(err), "/risks")
		return
	}

	actor := middleware.Actor(c)
	r, err := h.store.CreateRisk(c.Request.Context(), form.input(), actor)
	if err != nil {
		h.fail(c, err, riskFormMessage(err), "/risks")
		return
	}

	h.store.Audit(c.Request.Context(), actor, "risk", idString(r.ID), "create",
		fmt.Sprintf("%s (score %d)", r.Title, r.RiskScore))
	h.done(c, "Risk added successfully!", "/risks")
}

func (h *Handler) UpdateRisk(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Risk not found!", "/risks")
		return
	}

	var form riskForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, riskFormMessage(err), "/risks")
		return
	}

	r, err := h.store.UpdateRisk(c.Request.Context(), id, form.input())
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, err, "Risk not found!", "/risks")
		return
	case err != nil:
		h.fail(c, err, riskFormMessage(err), "/risks")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "risk", idString(r.ID), "update",
		fmt.Sprintf("score %d, status %s", r.RiskScore, r.Status))
	h.done(c, "Risk updated successfully!", "/risks")
}

func (h *Handler) DeleteRisk(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Risk not found!", "/risks")
		return
	}

	if err := h.store.DeleteRisk(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.fail(c, err, "Risk not found!", "/risks")
			return
		}
		h.fail(c, err, "Could not delete risk.", "/risks")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "risk", idString(id), "delete", "")
	h.done(c, "Risk deleted successfully!", "/risks")
}
