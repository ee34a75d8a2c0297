package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/config"
	"hipaa-audit/internal/database"
	"hipaa-audit/internal/handlers"
	"hipaa-audit/internal/metrics"
	"hipaa-audit/internal/store"
	"hipaa-audit/internal/uploads"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUser     = "admin"
	testPassword = "correct horse battery"
	maxUpload    = 64 << 10
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t       *testing.T
	router  *gin.Engine
	store   *store.Store
	metrics *metrics.Metrics
	dir     string
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		SessionSecret:  "0123456789abcdef0123456789abcdef",
		DBDriver:       config.DriverSQLite,
		DBDSN:          filepath.Join(t.TempDir(), "audit.db"),
		UploadDir:      t.TempDir(),
		MaxUploadBytes: maxUpload,
		AdminUsername:  testUser,
		AdminPassword:  testPassword,
	}

	db, err := database.Init(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	files, err := uploads.New(cfg.UploadDir)
	require.NoError(t, err)

	st := store.New(db)
	m := metrics.New()
	h := handlers.New(handlers.Deps{Store: st, Files: files, Metrics: m, Log: zap.NewNop()})

	r, err := NewRouter(cfg, Deps{Handler: h, Users: st, Metrics: m, Log: zap.NewNop()})
	require.NoError(t, err)

	return &testApp{
		t:       t,
		router:  r,
		store:   st,
		metrics: m,
		dir:     cfg.UploadDir,
		cookies: map[string]*http.Cookie{},
	}
}

// do выполняет запрос с накопленными cookie, как браузер.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range a.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		a.cookies[ck.Name] = ck
	}
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) upload(requirementID, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(a.t, w.WriteField("requirement_id", requirementID))
	require.NoError(a.t, w.WriteField("description", "policy document"))
	part, err := w.CreateFormFile("file", filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/evidence/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(req)
}

func (a *testApp) login() {
	rec := a.post("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	require.Equal(a.t, http.StatusFound, rec.Code)
	require.Equal(a.t, "/dashboard", rec.Header().Get("Location"))
}

func (a *testApp) getJSON(path string, dst interface{}) {
	rec := a.get(path)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func uploadedFiles(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	rec = app.get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hipaa_http_requests_total")

	rec = app.get("/static/css/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.get("/login")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/dashboard", "/audit", "/evidence", "/api/requirements", "/debug/database"} {
		rec := app.get(path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.post("/login", url.Values{"username": {testUser}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password!")

	app.login()

	rec = app.get("/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Compliance Dashboard")
	assert.Contains(t, body, "Login successful!")

	rec = app.get("/")
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = app.get("/logout")
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	rec = app.get("/dashboard")
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestPagesRender(t *testing.T) {
	app := newTestApp(t)
	app.login()

	pages := map[string]string{
		"/dashboard":           "Recent assessments",
		"/audit":               compliance.CategoryAdministrative,
		"/evidence":            "Upload evidence",
		"/risks":               "Risk Register",
		"/phi-tracking":        "PHI Tracking",
		"/business-associates": "Business Associates",
		"/reports":             "Generate",
		"/activity":            "Activity log",
	}
	for path, marker := range pages {
		rec := app.get(path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), marker, path)
	}
}

func TestUpdateRequirementStatus(t *testing.T) {
	app := newTestApp(t)
	app.login()

	rec := app.post("/audit/update", url.Values{
		"requirement_id": {"A.1"},
		"status":         {"Compliant"},
		"notes":          {"officer appointed"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/audit", rec.Header().Get("Location"))

	req, err := app.store.GetRequirement(context.Background(), "A.1")
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusCompliant, req.Status)
	assert.Equal(t, "officer appointed", req.Notes)
	assert.Equal(t, testUser, req.AssessedBy)
	assert.NotNil(t, req.AssessedAt)

	var stats map[string]float64
	app.getJSON("/api/compliance-stats", &stats)
	assert.Equal(t, float64(len(compliance.Catalog)), stats["total"])
	assert.Equal(t, 1.0, stats["compliant"])
	assert.Equal(t, 100.0, stats["compliance_percentage"])
	assert.Equal(t, 0.0, stats["total_risks"])
}

func TestUpdateRequirementRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(t)
	app.login()

	rec := app.post("/audit/update", url.Values{"requirement_id": {"A.1"}, "status": {"Maybe"}})
	assert.Equal(t, http.StatusFound, rec.Code)

	req, err := app.store.GetRequirement(context.Background(), "A.1")
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusNotAssessed, req.Status)

	rec = app.get("/audit")
	assert.Contains(t, rec.Body.String(), "Invalid requirement status!")

	rec = app.post("/audit/update", url.Values{"requirement_id": {"ZZ.9"}, "status": {"Compliant"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = app.get("/audit")
	assert.Contains(t, rec.Body.String(), "Requirement not found!")
}

func TestEvidenceUploadDownloadDelete(t *testing.T) {
	app := newTestApp(t)
	app.login()
	ctx := context.Background()

	content := []byte("%PDF-1.4 risk analysis\x00\x01\x02")
	rec := app.upload("A.2", "Risk Analysis 2024.pdf", content)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/evidence", rec.Header().Get("Location"))

	list, err := app.store.ListEvidence(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	ev := list[0]
	assert.Equal(t, "Risk_Analysis_2024.pdf", ev.OriginalFilename)
	assert.True(t, strings.HasSuffix(ev.Filename, "_Risk_Analysis_2024.pdf"))
	assert.Equal(t, int64(len(content)), ev.FileSize)
	assert.Equal(t, testUser, ev.UploadedBy)
	assert.NotEmpty(t, ev.RequirementTitle)
	assert.Equal(t, 1.0, testutil.ToFloat64(app.metrics.EvidenceUploads))

	page := app.get("/evidence")
	assert.Contains(t, page.Body.String(), "1 uploaded today")
	assert.Contains(t, page.Body.String(), "bi-file-pdf")

	rec = app.get("/evidence/download/" + strconv.FormatUint(uint64(ev.ID), 10))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Risk_Analysis_2024.pdf")

	var evStats map[string]int64
	app.getJSON("/api/evidence-stats", &evStats)
	assert.Equal(t, int64(1), evStats["total"])
	assert.Equal(t, int64(len(content)), evStats["total_size"])

	rec = app.post("/evidence/delete/"+strconv.FormatUint(uint64(ev.ID), 10), nil)
	require.Equal(t, http.StatusFound, rec.Code)

	_, err = os.Stat(ev.FilePath)
	assert.True(t, os.IsNotExist(err))
	list, err = app.store.ListEvidence(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	rec = app.get("/evidence/download/" + strconv.FormatUint(uint64(ev.ID), 10))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, app.get("/evidence").Body.String(), "Evidence not found!")
}

func TestEvidenceUploadRejected(t *testing.T) {
	app := newTestApp(t)
	app.login()

	rec := app.upload("NOPE.1", "policy.pdf", []byte("data"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, app.get("/evidence").Body.String(), "Unknown requirement!")

	rec = app.upload("A.1", "../../..", []byte("data"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, app.get("/evidence").Body.String(), "Invalid file name!")

	rec = app.upload("A.1", "huge.bin", bytes.Repeat([]byte("x"), 2*maxUpload))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, app.get("/evidence").Body.String(), "File is too large!")

	assert.Empty(t, uploadedFiles(t, app.dir))
	list, err := app.store.ListEvidence(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRiskLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.login()
	ctx := context.Background()

	rec := app.post("/risks/add", url.Values{
		"title":      {"Unencrypted laptops"},
		"likelihood": {"5"},
		"impact":     {"4"},
		"owner":      {"IT"},
		// присланная оценка игнорируется
		"risk_score": {"1"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	risks, err := app.store.ListRisks(ctx)
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, 20, risks[0].RiskScore)
	assert.Equal(t, compliance.BandHigh, risks[0].Band())

	rec = app.post("/risks/add", url.Values{"title": {"bad"}, "likelihood": {"6"}, "impact": {"1"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = app.post("/risks/add", url.Values{"title": {"bad"}, "likelihood": {"x"}, "impact": {"1"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	risks, err = app.store.ListRisks(ctx)
	require.NoError(t, err)
	assert.Len(t, risks, 1)

	id := strconv.FormatUint(uint64(risks[0].ID), 10)
	rec = app.post("/risks/update/"+id, url.Values{
		"title":      {"Unencrypted laptops"},
		"likelihood": {"2"},
		"impact":     {"3"},
		"status":     {"Mitigated"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	r, err := app.store.GetRisk(ctx, risks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 6, r.RiskScore)
	assert.EqualValues(t, "Mitigated", r.Status)

	rec = app.post("/risks/delete/"+id, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	risks, err = app.store.ListRisks(ctx)
	require.NoError(t, err)
	assert.Empty(t, risks)
	assert.NotContains(t, app.get("/risks").Body.String(), "Unencrypted laptops")
}

func TestPHIAndAssociates(t *testing.T) {
	app := newTestApp(t)
	app.login()
	ctx := context.Background()

	rec := app.post("/phi-tracking/add", url.Values{"phi_type": {"Lab results"}, "classification": {"Restricted"}})
	require.Equal(t, http.StatusFound, rec.Code)
	rec = app.post("/phi-tracking/add", url.Values{"phi_type": {"No class"}})
	require.Equal(t, http.StatusFound, rec.Code)
	n, err := app.store.CountPHITypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec = app.post("/business-associates/add", url.Values{
		"name":                 {"Cloud Billing LLC"},
		"email":                {"contracts@billing.example"},
		"phone":                {"+1 555 0100"},
		"last_assessment_date": {"2024-01-10"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	list, err := app.store.ListAssociates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	ba := list[0]
	assert.Equal(t, "Active", ba.ContractStatus)
	assert.Equal(t, "Not Assessed", ba.ComplianceStatus)
	require.NotNil(t, ba.LastAssessmentDate)

	page := app.get("/business-associates").Body.String()
	assert.Contains(t, page, "co***@billing.example")

	id := strconv.FormatUint(uint64(ba.ID), 10)
	rec = app.post("/business-associates/assess/"+id, url.Values{
		"compliance_status":    {"Compliant"},
		"assessment_date":      {"2024-06-01"},
		"next_assessment_date": {"2025-06-01"},
		"assessment_notes":     {"SOC 2 report reviewed"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	got, err := app.store.GetAssociate(ctx, ba.ID)
	require.NoError(t, err)
	assert.Equal(t, "Compliant", got.ComplianceStatus)
	assert.Equal(t, "SOC 2 report reviewed", got.AssessmentNotes)
	assert.Equal(t, "2024-06-01", got.LastAssessmentDate.Format("2006-01-02"))

	rec = app.post("/business-associates/assess/"+id, url.Values{"compliance_status": {"Compliant"}, "assessment_date": {"06/01/2024"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, app.get("/business-associates").Body.String(), "Dates must be in YYYY-MM-DD format!")

	var baStats map[string]int64
	app.getJSON("/api/ba-stats", &baStats)
	assert.Equal(t, map[string]int64{"total": 1, "active": 1}, baStats)
}

func TestReports(t *testing.T) {
	app := newTestApp(t)
	app.login()

	app.post("/risks/add", url.Values{"title": {"Phishing"}, "likelihood": {"4"}, "impact": {"4"}})

	cases := map[string]string{
		"compliance": "HIPAA Compliance Report",
		"evidence":   "Evidence Report",
		"risk":       "Risk Report",
	}
	for kind, title := range cases {
		rec := app.post("/reports/generate", url.Values{"report_type": {kind}})
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Contains(t, rec.Body.String(), title)
		assert.Contains(t, rec.Body.String(), "by "+testUser)
	}
	assert.Contains(t, app.post("/reports/generate", url.Values{"report_type": {"risk"}}).Body.String(), "Phishing")

	rec := app.post("/reports/generate", url.Values{"report_type": {"payroll"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/reports", rec.Header().Get("Location"))
	assert.Contains(t, app.get("/reports").Body.String(), "Invalid report type!")
}

func TestAPIRequirements(t *testing.T) {
	app := newTestApp(t)
	app.login()

	var reqs []map[string]interface{}
	app.getJSON("/api/requirements", &reqs)
	require.Len(t, reqs, len(compliance.Catalog))
	for _, key := range []string{"requirement_id", "title", "status", "category", "assessed_at"} {
		assert.Contains(t, reqs[0], key)
	}
	assert.Nil(t, reqs[0]["assessed_at"])
}

func TestDebugAndReset(t *testing.T) {
	app := newTestApp(t)
	app.login()

	var dbg struct {
		Status string            `json:"status"`
		Counts store.TableCounts `json:"counts"`
		Sample []map[string]string
	}
	app.getJSON("/debug/database", &dbg)
	assert.Equal(t, "success", dbg.Status)
	assert.Equal(t, int64(len(compliance.Catalog)), dbg.Counts.Requirements)
	assert.Len(t, dbg.Sample, 3)

	app.post("/audit/update", url.Values{"requirement_id": {"T.1"}, "status": {"Not Compliant"}})

	// сброс только через POST
	rec := app.get("/debug/reset-requirements")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.post("/debug/reset-requirements", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	req, err := app.store.GetRequirement(context.Background(), "T.1")
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusNotAssessed, req.Status)

	logs, err := app.store.ListAuditLogs(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "reset", logs[0].Action)
}
