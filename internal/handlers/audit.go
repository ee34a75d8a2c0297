package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const activityLimit = 200

// ActivityLog — журнал действий, только для просмотра.
func (h *Handler) ActivityLog(c *gin.Context) {
	logs, err := h.store.ListAuditLogs(c.Request.Context(), activityLimit)
	if err != nil {
		h.renderError(c, err, "Could not load activity log.")
		return
	}

	render(c, http.StatusOK, "activity.html", gin.H{"Logs": logs})
}
