package handlers

import (
	"net/http"
	"strings"

	"hipaa-audit/internal/middleware"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Index(c *gin.Context) {
	sess := sessions.Default(c)
	if uid, ok := sess.Get(middleware.SessionUserID).(uint); ok && uid > 0 {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", nil)
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		addFlash(c, flashError, "Invalid username or password!")
		render(c, http.StatusBadRequest, "login.html", nil)
		return
	}

	user, err := h.store.Authenticate(c.Request.Context(), strings.TrimSpace(form.Username), form.Password)
	if err != nil {
		if !errors.Is(err, store.ErrInvalidCredentials) {
			h.log.Error("login failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
		}
		h.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		addFlash(c, flashError, "Invalid username or password!")
		render(c, http.StatusUnauthorized, "login.html", nil)
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionUsername, user.Username)
	addFlash(c, flashSuccess, "Login successful!")

	h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.store.Audit(c.Request.Context(), user.Username, "user", idString(user.ID), "login", "")

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	addFlash(c, flashInfo, "You have been logged out.")
	c.Redirect(http.StatusFound, "/login")
}
