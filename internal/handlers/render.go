package handlers

import (
	"net/http"

	"hipaa-audit/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// виды flash-сообщений, совпадают с css-классами
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

var flashKinds = []string{flashSuccess, flashError, flashInfo}

type flashMessage struct {
	Kind    string
	Message string
}

func addFlash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}

// popFlashes забирает все накопленные сообщения из сессии.
func popFlashes(c *gin.Context) []flashMessage {
	sess := sessions.Default(c)
	var out []flashMessage
	for _, kind := range flashKinds {
		for _, f := range sess.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, flashMessage{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = sess.Save()
	}
	return out
}

// render — обёртка над c.HTML, которая во все шаблоны прокидывает
// текущего пользователя и flash-сообщения.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u, ok := middleware.CurrentUser(c); ok {
		data["CurrentUser"] = u
		data["CurrentUsername"] = u.Username
	}
	data["Flashes"] = popFlashes(c)
	data["Path"] = c.Request.URL.Path

	c.HTML(status, tmpl, data)
}

// fail логирует ошибку, показывает пользователю msg и возвращает на target.
func (h *Handler) fail(c *gin.Context, err error, msg, target string) {
	h.log.Error(msg,
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("route", c.FullPath()),
	)
	_ = c.Error(err)
	addFlash(c, flashError, msg)
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) done(c *gin.Context, msg, target string) {
	addFlash(c, flashSuccess, msg)
	c.Redirect(http.StatusFound, target)
}

// jsonError — ответ JSON-эндпоинтов при сбое.
func (h *Handler) jsonError(c *gin.Context, err error) {
	h.log.Error("api request failed",
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("route", c.FullPath()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// renderError — страница ошибки для GET-обработчиков, которым некуда редиректить.
func (h *Handler) renderError(c *gin.Context, err error, msg string) {
	h.log.Error(msg,
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("route", c.FullPath()),
	)
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{"Message": msg})
}
