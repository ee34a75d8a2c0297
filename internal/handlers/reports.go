package handlers

import (
	"net/http"

	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/report"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

var reportTemplates = map[report.Kind]string{
	report.KindCompliance: "report.html",
	report.KindEvidence:   "evidence_report.html",
	report.KindRisk:       "risk_report.html",
}

func (h *Handler) Reports(c *gin.Context) {
	sum, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Could not load report summary.")
		return
	}
	render(c, http.StatusOK, "reports.html", gin.H{
		"Summary": sum,
		"Kinds":   report.Kinds,
	})
}

func (h *Handler) GenerateReport(c *gin.Context) {
	kind, err := report.ParseKind(c.PostForm("report_type"))
	if err != nil {
		h.fail(c, err, "Invalid report type!", "/reports")
		return
	}

	rep, err := h.reports.Generate(c.Request.Context(), kind, middleware.Actor(c))
	if err != nil {
		if errors.Is(err, report.ErrUnknownReport) {
			h.fail(c, err, "Invalid report type!", "/reports")
			return
		}
		h.fail(c, err, "Database error while generating report.", "/reports")
		return
	}

	h.metrics.ReportsGenerated.WithLabelValues(string(kind)).Inc()
	render(c, http.StatusOK, reportTemplates[kind], gin.H{"R": rep})
}
