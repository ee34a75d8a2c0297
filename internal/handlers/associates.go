package handlers

import (
	"net/http"
	"strings"
	"time"

	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/models"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseDate: пустая строка — даты нет.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "date %q", raw)
	}
	return &t, nil
}

func (h *Handler) BusinessAssociates(c *gin.Context) {
	list, err := h.store.ListAssociates(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Could not load business associates.")
		return
	}
	render(c, http.StatusOK, "business_associates.html", gin.H{
		"Associates":        list,
		"ContractStatuses":  models.ContractStatuses,
		"ComplianceOptions": models.AssociateComplianceOptions,
	})
}

type associateForm struct {
	Name               string `form:"name" binding:"required"`
	ContactPerson      string `form:"contact_person"`
	Email              string `form:"email" binding:"omitempty,email"`
	Phone              string `form:"phone"`
	ContractStatus     string `form:"contract_status" binding:"omitempty,oneof=Active Pending Expired Terminated"`
	ComplianceStatus   string `form:"compliance_status" binding:"omitempty,associate_compliance"`
	LastAssessmentDate string `form:"last_assessment_date"`
	NextAssessmentDate string `form:"next_assessment_date"`
}

func (f associateForm) input() (store.AssociateInput, error) {
	last, err := parseDate(f.LastAssessmentDate)
	if err != nil {
		return store.AssociateInput{}, err
	}
	next, err := parseDate(f.NextAssessmentDate)
	if err != nil {
		return store.AssociateInput{}, err
	}
	return store.AssociateInput{
		Name:               strings.TrimSpace(f.Name),
		ContactPerson:      strings.TrimSpace(f.ContactPerson),
		Email:              strings.TrimSpace(f.Email),
		Phone:              strings.TrimSpace(f.Phone),
		ContractStatus:     f.ContractStatus,
		ComplianceStatus:   f.ComplianceStatus,
		LastAssessmentDate: last,
		NextAssessmentDate: next,
	}, nil
}

func (h *Handler) bindAssociate(c *gin.Context) (store.AssociateInput, bool) {
	var form associateForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, "Invalid business associate data!", "/business-associates")
		return store.AssociateInput{}, false
	}
	in, err := form.input()
	if err != nil {
		h.fail(c, err, "Dates must be in YYYY-MM-DD format!", "/business-associates")
		return store.AssociateInput{}, false
	}
	return in, true
}

func (h *Handler) AddAssociate(c *gin.Context) {
	in, ok := h.bindAssociate(c)
	if !ok {
		return
	}

	ba, err := h.store.CreateAssociate(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Could not add business associate.", "/business-associates")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "business_associate", idString(ba.ID), "create", ba.Name)
	h.done(c, "Business Associate added successfully!", "/business-associates")
}

func (h *Handler) EditAssociate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Business Associate not found!", "/business-associates")
		return
	}
	in, ok := h.bindAssociate(c)
	if !ok {
		return
	}

	ba, err := h.store.UpdateAssociate(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, err, "Business Associate not found!", "/business-associates")
		return
	case err != nil:
		h.fail(c, err, "Could not update business associate.", "/business-associates")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "business_associate", idString(ba.ID), "update", ba.Name)
	h.done(c, "Business Associate updated successfully!", "/business-associates")
}

type assessmentForm struct {
	ComplianceStatus   string `form:"compliance_status" binding:"required,associate_compliance"`
	AssessmentDate     string `form:"assessment_date" binding:"required"`
	NextAssessmentDate string `form:"next_assessment_date"`
	Notes              string `form:"assessment_notes"`
}

func (h *Handler) AssessAssociate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Business Associate not found!", "/business-associates")
		return
	}

	var form assessmentForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, err, "Compliance status and assessment date are required!", "/business-associates")
		return
	}
	assessed, err := parseDate(form.AssessmentDate)
	if err != nil {
		h.fail(c, err, "Dates must be in YYYY-MM-DD format!", "/business-associates")
		return
	}
	next, err := parseDate(form.NextAssessmentDate)
	if err != nil {
		h.fail(c, err, "Dates must be in YYYY-MM-DD format!", "/business-associates")
		return
	}

	ba, err := h.store.AssessAssociate(c.Request.Context(), id, store.Assessment{
		ComplianceStatus:   form.ComplianceStatus,
		AssessmentDate:     assessed,
		NextAssessmentDate: next,
		Notes:              strings.TrimSpace(form.Notes),
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, err, "Business Associate not found!", "/business-associates")
		return
	case err != nil:
		h.fail(c, err, "Could not save assessment.", "/business-associates")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "business_associate", idString(ba.ID), "assess", ba.ComplianceStatus)
	h.done(c, "Assessment completed successfully!", "/business-associates")
}

func (h *Handler) DeleteAssociate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Business Associate not found!", "/business-associates")
		return
	}

	if err := h.store.DeleteAssociate(c.Request.Context(), id); err != nil {
		msg := "Could not delete business associate."
		if errors.Is(err, store.ErrNotFound) {
			msg = "Business Associate not found!"
		}
		h.fail(c, err, msg, "/business-associates")
		return
	}

	h.store.Audit(c.Request.Context(), middleware.Actor(c), "business_associate", idString(id), "delete", "")
	h.done(c, "Business Associate deleted successfully!", "/business-associates")
}
