package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"apply4me/internal/config"
	"apply4me/internal/domain/submission"
	"apply4me/internal/handler"
	"apply4me/internal/repository"
	"apply4me/internal/server"
	"apply4me/internal/services"
	"apply4me/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type testApp struct {
	router *gin.Engine
	repo   repository.SubmissionRepository
}

func newTestApp(t *testing.T, admin config.AdminConfig, maxResumeBytes int64) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	db, err := gorm.Open(
		sqlite.Dialector{DriverName: "sqlite", DSN: path, Conn: sqlDB},
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&submission.Submission{}))

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Environment: "development"},
		Admin:  admin,
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Upload: config.UploadConfig{MaxResumeBytes: maxResumeBytes},
		Paging: config.PagingConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}

	l := logger.New(logger.DevelopmentMode)
	repo := repository.NewSubmissionRepository(db)
	svc := services.NewSubmissionService(repo, cfg.Upload, cfg.Paging)
	adminAuth := services.NewAdminAuthService(cfg.Admin)

	sub := handler.NewSubmissionHandler(svc, l, cfg.Upload.MaxResumeBytes, true)
	health := handler.NewHealthHandler(svc, cfg.Server.Environment, true)

	return &testApp{
		router: server.NewRouter(cfg, l, sub, health, adminAuth, nil),
		repo:   repo,
	}
}

var testAdmin = config.AdminConfig{User: "admin", Pass: "s3cret"}

func multipartBody(t *testing.T, fields map[string]string, fileName, fileCT string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileData != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, fileName))
		if fileCT != "" {
			h.Set("Content-Type", fileCT)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func (a *testApp) submit(t *testing.T, fields map[string]string, fileName, fileCT string, fileData []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, fileName, fileCT, fileData)
	req := httptest.NewRequest(http.MethodPost, "/api/submit", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) adminGet(t *testing.T, path string, creds *config.AdminConfig) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if creds != nil {
		req.SetBasicAuth(creds.User, creds.Pass)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) rowCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := a.repo.List(context.Background(), repository.ListParams{Page: 1, PageSize: 1})
	require.NoError(t, err)
	return total
}

func TestSubmitReturnsIncreasingIDs(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	var last int64
	for i := 0; i < 3; i++ {
		rec := app.submit(t, map[string]string{
			"name":  fmt.Sprintf("Applicant %d", i),
			"email": fmt.Sprintf("a%d@example.com", i),
		}, "", "", nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			OK        bool   `json:"ok"`
			ID        int64  `json:"id"`
			CreatedAt string `json:"createdAt"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.OK)
		require.Greater(t, resp.ID, last)
		require.NotEmpty(t, resp.CreatedAt)
		last = resp.ID
	}
}

func TestSubmitValidation(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	cases := []map[string]string{
		{"email": "a@example.com"},
		{"name": "Jane"},
		{"name": "Jane", "email": "not-an-email"},
	}
	for _, fields := range cases {
		rec := app.submit(t, fields, "", "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "error")
	}
	require.Zero(t, app.rowCount(t))
}

func TestSubmitOversizeResumeRejected(t *testing.T) {
	app := newTestApp(t, testAdmin, 1024)

	rec := app.submit(t, map[string]string{"name": "Jane", "email": "jane@example.com"},
		"big.pdf", "application/pdf", make([]byte, 4096))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, app.rowCount(t))
}

func TestSubmitWithResumeRoundTrip(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	rec := app.submit(t, map[string]string{"name": "Jane", "email": "jane@example.com"},
		"cv.pdf", "application/pdf", []byte("pdf-bytes"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// The listing shows presence but never the bytes.
	list := app.adminGet(t, "/api/submissions", &testAdmin)
	require.Equal(t, http.StatusOK, list.Code)
	var page struct {
		Total int64 `json:"total"`
		Items []struct {
			ID            int64 `json:"id"`
			ResumePresent bool  `json:"resumePresent"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Total)
	require.True(t, page.Items[0].ResumePresent)
	require.NotContains(t, list.Body.String(), "pdf-bytes")

	dl := app.adminGet(t, fmt.Sprintf("/api/submissions/%d/resume", created.ID), &testAdmin)
	require.Equal(t, http.StatusOK, dl.Code)
	require.Equal(t, "application/pdf", dl.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="cv.pdf"`, dl.Header().Get("Content-Disposition"))
	require.Equal(t, fmt.Sprint(len("pdf-bytes")), dl.Header().Get("Content-Length"))
	require.Equal(t, "pdf-bytes", dl.Body.String())
}

func TestResumeFilenameQuotesStripped(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	contentType := "application/pdf"
	origName := `my"quoted"cv.pdf`
	size := int64(4)
	s := submission.Submission{
		Name:               "Jane",
		Email:              "jane@example.com",
		ResumeData:         []byte("data"),
		ResumeContentType:  &contentType,
		ResumeOriginalName: &origName,
		ResumeSize:         &size,
	}
	require.NoError(t, app.repo.Create(context.Background(), &s))

	dl := app.adminGet(t, fmt.Sprintf("/api/submissions/%d/resume", s.ID), &testAdmin)
	require.Equal(t, http.StatusOK, dl.Code)
	require.Equal(t, `attachment; filename="myquotedcv.pdf"`, dl.Header().Get("Content-Disposition"))
}

func TestResumeNotFound(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	rec := app.submit(t, map[string]string{"name": "Jo", "email": "jo@example.com"}, "", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Unknown id and attachment-less row answer identically.
	for _, path := range []string{
		"/api/submissions/99999/resume",
		fmt.Sprintf("/api/submissions/%d/resume", created.ID),
	} {
		dl := app.adminGet(t, path, &testAdmin)
		require.Equal(t, http.StatusNotFound, dl.Code)
		require.JSONEq(t, `{"error":"Not found"}`, dl.Body.String())
	}

	bad := app.adminGet(t, "/api/submissions/abc/resume", &testAdmin)
	require.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestDetail(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	rec := app.submit(t, map[string]string{"name": "Jane", "email": "jane@example.com", "mobile": "+15550100"}, "", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	detail := app.adminGet(t, fmt.Sprintf("/api/submissions/%d", created.ID), &testAdmin)
	require.Equal(t, http.StatusOK, detail.Code)
	var body struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		Mobile        *string `json:"mobile"`
		ResumePresent bool    `json:"resumePresent"`
	}
	require.NoError(t, json.Unmarshal(detail.Body.Bytes(), &body))
	require.Equal(t, created.ID, body.ID)
	require.Equal(t, "Jane", body.Name)
	require.NotNil(t, body.Mobile)
	require.False(t, body.ResumePresent)

	require.Equal(t, http.StatusNotFound, app.adminGet(t, "/api/submissions/99999", &testAdmin).Code)
	require.Equal(t, http.StatusBadRequest, app.adminGet(t, "/api/submissions/abc", &testAdmin).Code)
}

func TestListPaginationWalk(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)
	for i := 0; i < 25; i++ {
		rec := app.submit(t, map[string]string{
			"name":  fmt.Sprintf("Applicant %02d", i),
			"email": fmt.Sprintf("a%02d@example.com", i),
		}, "", "", nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	seen := map[int64]int{}
	for page := 1; page <= 3; page++ {
		rec := app.adminGet(t, fmt.Sprintf("/api/submissions?page=%d&pageSize=10", page), &testAdmin)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Page     int   `json:"page"`
			PageSize int   `json:"pageSize"`
			Total    int64 `json:"total"`
			Items    []struct {
				ID int64 `json:"id"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, page, body.Page)
		require.Equal(t, int64(25), body.Total)
		if page < 3 {
			require.Len(t, body.Items, 10)
		} else {
			require.Len(t, body.Items, 5)
		}
		for _, it := range body.Items {
			seen[it.ID]++
		}
	}
	require.Len(t, seen, 25)
	for _, n := range seen {
		require.Equal(t, 1, n)
	}
}

func TestListSearchTotal(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)
	for _, p := range [][2]string{
		{"Alice Johnson", "alice@example.com"},
		{"Bob Smith", "bob@example.com"},
		{"alice cooper", "cooper@example.com"},
	} {
		rec := app.submit(t, map[string]string{"name": p[0], "email": p[1]}, "", "", nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := app.adminGet(t, "/api/submissions?search=ALICE", &testAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(2), body.Total)
}

func TestAdminAuth(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	// Missing header: 401 with a Basic challenge.
	rec := app.adminGet(t, "/api/submissions", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Basic", rec.Header().Get("WWW-Authenticate"))

	wrong := config.AdminConfig{User: "admin", Pass: "nope"}
	rec = app.adminGet(t, "/api/submissions", &wrong)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.adminGet(t, "/api/submissions", &testAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminNotConfigured(t *testing.T) {
	app := newTestApp(t, config.AdminConfig{}, 10<<20)

	creds := config.AdminConfig{User: "admin", Pass: "anything"}
	rec := app.adminGet(t, "/api/submissions", &creds)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	rec := app.adminGet(t, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		OK     bool    `json:"ok"`
		Env    string  `json:"env"`
		Uptime float64 `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.OK)
	require.Equal(t, "development", body.Env)
}

func TestCORS(t *testing.T) {
	app := newTestApp(t, testAdmin, 10<<20)

	// No Origin header: allowed, no CORS headers added.
	rec := app.adminGet(t, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	// Allowed origin gets echoed back.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)
	require.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	// Preflight from a disallowed origin is rejected.
	req = httptest.NewRequest(http.MethodOptions, "/api/submit", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
