package handlers

import (
	"net/http"
	"os"
	"strings"

	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/models"
	"hipaa-audit/internal/report"
	"hipaa-audit/internal/store"
	"hipaa-audit/internal/uploads"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) EvidenceList(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.store.ListEvidence(ctx)
	if err != nil {
		h.renderError(c, err, "Could not load evidence.")
		return
	}
	reqs, err := h.store.ListRequirements(ctx)
	if err != nil {
		h.renderError(c, err, "Could not load requirements.")
		return
	}

	render(c, http.StatusOK, "evidence.html", gin.H{
		"Evidence":     list,
		"Requirements": reqs,
		"TodayUploads": report.TodayUploads(list, h.now()),
	})
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func (h *Handler) UploadEvidence(c *gin.Context) {
	ctx := c.Request.Context()

	// FormFile разбирает multipart первым, чтобы превышение лимита не потерялось в PostForm
	fh, err := c.FormFile("file")
	switch {
	case err != nil && isTooLarge(err):
		h.fail(c, err, "File is too large!", "/evidence")
		return
	case err != nil:
		h.fail(c, err, "No file selected!", "/evidence")
		return
	case fh.Filename == "":
		h.fail(c, errors.New("empty filename"), "No file selected!", "/evidence")
		return
	}

	requirementID := strings.TrimSpace(c.PostForm("requirement_id"))
	ok, err := h.store.RequirementExists(ctx, requirementID)
	if err != nil {
		h.fail(c, err, "Could not upload evidence.", "/evidence")
		return
	}
	if !ok {
		h.fail(c, errors.Wrapf(store.ErrUnknownRequirement, "%q", requirementID), "Unknown requirement!", "/evidence")
		return
	}

	src, err := fh.Open()
	if err != nil {
		h.fail(c, errors.Wrap(err, "open upload"), "Could not upload evidence.", "/evidence")
		return
	}
	defer src.Close()

	saved, err := h.files.Save(fh.Filename, src)
	switch {
	case errors.Is(err, uploads.ErrEmptyFilename):
		h.fail(c, err, "Invalid file name!", "/evidence")
		return
	case err != nil:
		h.fail(c, err, "Could not upload evidence.", "/evidence")
		return
	}

	actor := middleware.Actor(c)
	ev := models.Evidence{
		RequirementID:    requirementID,
		Filename:         saved.Filename,
		OriginalFilename: saved.OriginalFilename,
		FilePath:         saved.Path,
		FileSize:         saved.Size,
		Description:      strings.TrimSpace(c.PostForm("description")),
		UploadedBy:       actor,
	}
	if err := h.store.CreateEvidence(ctx, &ev); err != nil {
		if rmErr := h.files.Remove(saved.Path); rmErr != nil {
			h.log.Warn("remove orphaned upload", zap.String("path", saved.Path), zap.Error(rmErr))
		}
		h.fail(c, err, "Could not upload evidence.", "/evidence")
		return
	}

	h.metrics.ObserveUpload(saved.Size)
	h.store.Audit(ctx, actor, "evidence", idString(ev.ID), "upload", saved.Filename)
	h.done(c, "Evidence uploaded successfully!", "/evidence")
}

func (h *Handler) DownloadEvidence(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Evidence not found!", "/evidence")
		return
	}

	ev, err := h.store.GetEvidence(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Evidence not found!", "/evidence")
		return
	}
	if _, err := os.Stat(ev.FilePath); err != nil {
		h.fail(c, errors.Wrap(err, "stat evidence file"), "Evidence file is missing!", "/evidence")
		return
	}

	c.FileAttachment(ev.FilePath, ev.OriginalFilename)
}

func (h *Handler) DeleteEvidence(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, "Evidence not found!", "/evidence")
		return
	}
	ev, err := h.store.GetEvidence(ctx, id)
	if err != nil {
		h.fail(c, err, "Evidence not found!", "/evidence")
		return
	}

	// файл мог быть удалён вручную, строку всё равно убираем
	if err := h.files.Remove(ev.FilePath); err != nil {
		h.log.Warn("remove evidence file", zap.String("path", ev.FilePath), zap.Error(err))
	}
	if err := h.store.DeleteEvidence(ctx, id); err != nil {
		h.fail(c, err, "Could not delete evidence.", "/evidence")
		return
	}

	h.store.Audit(ctx, middleware.Actor(c), "evidence", idString(id), "delete", ev.Filename)
	h.done(c, "Evidence deleted successfully!", "/evidence")
}
