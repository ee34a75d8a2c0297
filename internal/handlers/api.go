package handlers

import (
	"net/http"
	"time"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type requirementJSON struct {
	RequirementID string            `json:"requirement_id"`
	Title         string            `json:"title"`
	Status        compliance.Status `json:"status"`
	Category      string            `json:"category"`
	AssessedAt    *time.Time        `json:"assessed_at"`
}

func (h *Handler) APIRequirements(c *gin.Context) {
	reqs, err := h.store.ListRequirements(c.Request.Context())
	if err != nil {
		h.jsonError(c, err)
		return
	}

	out := make([]requirementJSON, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, requirementJSON{
			RequirementID: r.RequirementID,
			Title:         r.Title,
			Status:        r.Status,
			Category:      r.Category,
			AssessedAt:    r.AssessedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

type complianceStatsJSON struct {
	compliance.Stats
	TotalRisks           int64   `json:"total_risks"`
	CompliancePercentage float64 `json:"compliance_percentage"`
}

func (h *Handler) APIComplianceStats(c *gin.Context) {
	ctx := c.Request.Context()

	st, err := h.store.ComplianceStats(ctx)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	bands, err := h.store.RiskBands(ctx)
	if err != nil {
		h.jsonError(c, err)
		return
	}

	c.JSON(http.StatusOK, complianceStatsJSON{
		Stats:                st,
		TotalRisks:           bands.Total(),
		CompliancePercentage: st.Percentage(),
	})
}

func (h *Handler) APIEvidenceStats(c *gin.Context) {
	st, err := h.store.EvidenceStats(c.Request.Context())
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) APIAssociateStats(c *gin.Context) {
	st, err := h.store.AssociateStats(c.Request.Context())
	if err != nil {
		h.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

const debugSampleSize = 3

func (h *Handler) DebugDatabase(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.store.TableCounts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	sample, err := h.store.SampleRequirements(ctx, debugSampleSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	rows := make([]gin.H, 0, len(sample))
	for _, r := range sample {
		rows = append(rows, gin.H{"requirement_id": r.RequirementID, "title": r.Title, "status": r.Status})
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"counts": counts,
		"sample": rows,
	})
}

// ResetRequirements удаляет все требования и заново заполняет чек-лист.
// Доказательства остаются и снова привязываются по requirement_id.
func (h *Handler) ResetRequirements(c *gin.Context) {
	n, err := h.store.ResetRequirements(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error resetting requirements.", "/audit")
		return
	}

	actor := middleware.Actor(c)
	h.log.Info("requirements reset", zap.String("actor", actor), zap.Int64("seeded", n))
	h.store.Audit(c.Request.Context(), actor, "requirement", "", "reset", "")
	h.done(c, "Requirements have been reset!", "/audit")
}
