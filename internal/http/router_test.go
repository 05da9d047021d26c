package http

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hgl-backend/internal/handlers"
	"hgl-backend/internal/health"
	"hgl-backend/internal/kv"
	"hgl-backend/internal/models"
	"hgl-backend/internal/monitoring"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLab = models.LabProfile{
	Name:      "HINDUSTAN GEMOLOGICAL LABORATORY",
	ShortName: "HGL",
	JobPrefix: "HGL",
	VerifyURL: "https://hgl-labs.com/verify/",
	Website:   "www.hgl-labs.com",
	Email:     "info@hgl-labs.com",
	Phone:     "+91 44 48553527",
}

func newTestServer(t *testing.T) (http.Handler, *kv.Memory) {
	t.Helper()

	mem := kv.NewMemory()
	repo := repositories.NewRecordRepository(mem)
	seq := services.NewSequenceAllocator(repo)
	feed := monitoring.NewRecordFeed()
	go feed.Run()
	t.Cleanup(feed.Close)

	records := services.NewRecordService(repo, seq, testLab, feed)
	reports := services.NewReportService(repo, testLab)

	router := NewRouter(
		handlers.NewIntakeHandler(services.NewIntakeService(repo, feed), records),
		handlers.NewCertificateHandler(services.NewCertificateService(repo, seq, testLab, feed), records, reports),
		handlers.NewRecordHandler(records),
		handlers.NewReportHandler(reports),
		handlers.NewBackupHandler(services.NewBackupService(repo, nil, "")),
		handlers.NewHealthHandler(health.NewHealthChecker(mem, "memory", t.TempDir())),
		feed,
	)
	return router, mem
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const ringBody = `{"item":"Ring","purity":"22K (916)","weight":4.25,"pieces":"2"}`

func TestCreateIntake(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, "POST", "/api/intake",
		`{"name":"Ravi","mobile":"9876543210","items":[{"item":"Ring","qty":"2"},{"item":"Chain","qty":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	view := decode[models.IntakeView](t, rec)
	assert.Equal(t, "Ravi", view.Name)
	assert.Equal(t, "Ring x2, Chain", view.ItemsSummary)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, models.Placeholder, view.Address)

	rec = do(t, srv, "GET", "/api/intake?q=ravi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[services.IntakePage](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Empty(t, rec.Header().Get(utils.DegradedHeader))
}

func TestCreateIntakeValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, "POST", "/api/intake", `{"name":"  ","items":[{"item":"Ring","qty":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode[utils.ErrorBody](t, rec).Field)

	rec = do(t, srv, "POST", "/api/intake", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIssueCertificateAndVerify(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, "GET", "/api/certificates/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HGL00001", decode[models.NextJob](t, rec).DisplayID)

	rec = do(t, srv, "POST", "/api/certificates", ringBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cert := decode[models.CertificateView](t, rec)
	assert.Equal(t, 1, cert.JobNo)
	assert.Equal(t, "HGL00001", cert.DisplayID)
	assert.Equal(t, "https://hgl-labs.com/verify/1", cert.QRPayload)
	assert.Equal(t, "4.25", cert.Weight)

	rec = do(t, srv, "GET", "/api/certificates/next", "")
	assert.Equal(t, 2, decode[models.NextJob](t, rec).JobNo)

	rec = do(t, srv, "GET", "/verify/HGL00001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["verified"])

	rec = do(t, srv, "GET", "/verify/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, "GET", "/api/certificates/1/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "HGL_Certificate_HGL00001.pdf")

	rec = do(t, srv, "GET", "/api/certificates/1/qr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = do(t, srv, "GET", "/api/certificates/abc/pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIssueCertificateRejectsUnknownPurity(t *testing.T) {
	srv, mem := newTestServer(t)

	rec := do(t, srv, "POST", "/api/certificates", `{"item":"Ring","purity":"21K"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "purity", decode[utils.ErrorBody](t, rec).Field)

	_, ok := mem.Raw(kv.CertificateKey)
	assert.False(t, ok)
}

func TestDegradedCollectionIsFlagged(t *testing.T) {
	srv, mem := newTestServer(t)
	mem.Put(kv.CertificateKey, "{broken")

	rec := do(t, srv, "GET", "/api/certificates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(utils.DegradedHeader))
	page := decode[services.CertificatePage](t, rec)
	assert.True(t, page.Degraded)
	assert.Empty(t, page.Records)

	rec = do(t, srv, "POST", "/api/certificates", ringBody)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	raw, _ := mem.Raw(kv.CertificateKey)
	assert.Equal(t, "{broken", raw)
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	srv, mem := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/certificates", ringBody).Code)

	rec := do(t, srv, "DELETE", "/api/records", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, ok := mem.Raw(kv.CertificateKey)
	assert.True(t, ok)

	rec = do(t, srv, "DELETE", "/api/records?confirm=yes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, k := range kv.AllKeys {
		_, ok := mem.Raw(k)
		assert.False(t, ok, k)
	}

	rec = do(t, srv, "GET", "/api/certificates/next", "")
	assert.Equal(t, 1, decode[models.NextJob](t, rec).JobNo)
}

func TestReports(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/certificates", ringBody).Code)

	rec := do(t, srv, "GET", "/api/reports/certificates/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "HGL00001")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "HGL_Cards_")

	rec = do(t, srv, "GET", "/api/reports/intake/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = do(t, srv, "GET", "/api/reports/bundle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 4)

	rec = do(t, srv, "GET", "/api/reports/gatepasses/csv", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogAndDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, "GET", "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	catalog := decode[models.Catalog](t, rec)
	assert.Contains(t, catalog.Items, models.ItemOther)

	rec = do(t, srv, "GET", "/api/records/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HGL00001", decode[services.Dashboard](t, rec).NextJob)
}

func TestBackupsDisabledWithoutBucket(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, "POST", "/api/backups", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHealthAndNotFound(t *testing.T) {
	srv, mem := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, srv, "GET", "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, "GET", "/health/ready", "").Code)

	mem.PingErr = assert.AnError
	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, "GET", "/health/ready", "").Code)

	rec := do(t, srv, "GET", "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}
