package server

import (
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"

	"hipaa-audit/internal/config"
	"hipaa-audit/internal/handlers"
	"hipaa-audit/internal/metrics"
	"hipaa-audit/internal/middleware"
	"hipaa-audit/web"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionName   = "hipaa_session"
	sessionMaxAge = 8 * 60 * 60
)

type Deps struct {
	Handler *handlers.Handler
	Users   middleware.UserLoader
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewRouter(cfg *config.Config, d Deps) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
		middleware.Metrics(d.Metrics),
	)

	if err := loadTemplates(r, cfg.TemplatesDir); err != nil {
		return nil, err
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, errors.Wrap(err, "static assets")
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/health", d.Handler.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	app := r.Group("/")
	app.Use(sessions.Sessions(sessionName, store))
	app.Use(middleware.InjectUser(d.Users))

	h := d.Handler

	// ГЛАВНАЯ И ВХОД
	app.GET("/", h.Index)
	app.GET("/login", h.ShowLogin)
	app.POST("/login", h.Login)
	app.GET("/logout", h.Logout)

	auth := app.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", h.Dashboard)

	// ЧЕК-ЛИСТ
	auth.GET("/audit", h.Checklist)
	auth.POST("/audit/update", h.UpdateStatus)

	// ДОКАЗАТЕЛЬСТВА
	auth.GET("/evidence", h.EvidenceList)
	auth.POST("/evidence/upload", middleware.BodyLimit(cfg.MaxUploadBytes), h.UploadEvidence)
	auth.GET("/evidence/download/:id", h.DownloadEvidence)
	auth.POST("/evidence/delete/:id", h.DeleteEvidence)

	// РИСКИ
	auth.GET("/risks", h.RiskRegister)
	auth.POST("/risks/add", h.AddRisk)
	auth.POST("/risks/update/:id", h.UpdateRisk)
	auth.POST("/risks/delete/:id", h.DeleteRisk)

	// PHI
	auth.GET("/phi-tracking", h.PHITracking)
	auth.POST("/phi-tracking/add", h.AddPHIType)
	auth.POST("/phi-tracking/update/:id", h.UpdatePHIType)
	auth.POST("/phi-tracking/delete/:id", h.DeletePHIType)

	// БИЗНЕС-ПАРТНЁРЫ
	auth.GET("/business-associates", h.BusinessAssociates)
	auth.POST("/business-associates/add", h.AddAssociate)
	auth.POST("/business-associates/edit/:id", h.EditAssociate)
	auth.POST("/business-associates/assess/:id", h.AssessAssociate)
	auth.POST("/business-associates/delete/:id", h.DeleteAssociate)

	// ОТЧЁТЫ
	auth.GET("/reports", h.Reports)
	auth.POST("/reports/generate", h.GenerateReport)
	auth.GET("/activity", h.ActivityLog)

	// JSON
	auth.GET("/api/requirements", h.APIRequirements)
	auth.GET("/api/compliance-stats", h.APIComplianceStats)
	auth.GET("/api/evidence-stats", h.APIEvidenceStats)
	auth.GET("/api/ba-stats", h.APIAssociateStats)

	// ОТЛАДКА
	auth.GET("/debug/database", h.DebugDatabase)
	auth.POST("/debug/reset-requirements", h.ResetRequirements)

	return r, nil
}

// loadTemplates: из каталога, если он задан (удобно при правке вёрстки), иначе встроенные.
func loadTemplates(r *gin.Engine, dir string) error {
	if dir != "" {
		r.SetFuncMap(handlers.FuncMap())
		r.LoadHTMLGlob(filepath.Join(dir, "*.html"))
		return nil
	}

	tmpl, err := template.New("").Funcs(handlers.FuncMap()).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return errors.Wrap(err, "parse templates")
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}
