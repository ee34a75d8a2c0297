// Package handlers — HTTP-обработчики страниц и JSON-эндпоинтов.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"hipaa-audit/internal/metrics"
	"hipaa-audit/internal/report"
	"hipaa-audit/internal/store"
	"hipaa-audit/internal/uploads"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Store   *store.Store
	Reports *report.Service
	Files   *uploads.Store
	Metrics *metrics.Metrics
	Log     *zap.Logger
	// Now подменяется в тестах
	Now func() time.Time
}

type Handler struct {
	store   *store.Store
	reports *report.Service
	files   *uploads.Store
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func New(d Deps) *Handler {
	h := &Handler{
		store:   d.Store,
		reports: d.Reports,
		files:   d.Files,
		metrics: d.Metrics,
		log:     d.Log,
		now:     d.Now,
	}
	if h.log == nil {
		h.log = zap.L()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.reports == nil {
		h.reports = report.NewService(d.Store, report.WithClock(h.now))
	}
	return h
}

var errBadID = errors.New("invalid id")

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(errBadID, "%q", c.Param("id"))
	}
	return uint(id), nil
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
