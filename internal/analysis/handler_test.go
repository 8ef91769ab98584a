package analysis

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, baseDir string, profiles int) (*gin.Engine, *metrics.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tracker := metrics.NewTracker()
	svc := NewService(testProfiles(profiles), nil, tracker)
	h := NewHandler(svc, local.New(baseDir), tracker)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, tracker
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 3)

	w := doJSON(t, r, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Status          string `json:"status"`
		CompaniesLoaded int    `json:"companies_loaded"`
		ModelsLoaded    int    `json:"models_loaded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || body.CompaniesLoaded != 3 || body.ModelsLoaded != 0 {
		t.Fatalf("unexpected health payload: %+v", body)
	}
}

func TestAnalyzeTextEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 2)

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze/text", map[string]string{"text": validResume})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var report Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !report.Validation.IsValid {
		t.Fatal("expected valid report")
	}
	if len(report.CompanyMatches) != 2 {
		t.Fatalf("company matches = %d, want 2", len(report.CompanyMatches))
	}
	if report.Recommendations == nil {
		t.Fatal("recommendations missing")
	}
}

func TestAnalyzeTextRawBody(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", strings.NewReader(validResume))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestAnalyzeTextRejectsInvalidResume(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 2)

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze/text", map[string]string{"text": "not a resume"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var report Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Validation.IsValid {
		t.Fatal("rejected payload must carry is_valid=false")
	}
	if len(report.Validation.Suggestions) == 0 {
		t.Fatal("rejected payload must carry suggestions")
	}
}

func TestAnalyzeTextEmptyBody(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyze/text", map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/validate", map[string]string{"text": "junk"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		IsValid bool `json:"is_valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.IsValid {
		t.Fatal("junk text must not validate")
	}
}

func TestCompaniesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 3)

	w := doJSON(t, r, http.MethodGet, "/api/v1/companies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Companies []string `json:"companies"`
		Count     int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 3 || len(body.Companies) != 3 {
		t.Fatalf("unexpected companies payload: %+v", body)
	}
	if body.Companies[0] != "Company 00" {
		t.Fatalf("companies must be name-sorted, got %v", body.Companies)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 1)

	doJSON(t, r, http.MethodPost, "/api/v1/analyze/text", map[string]string{"text": validResume})

	w := doJSON(t, r, http.MethodGet, "/api/v1/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var stats metrics.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.TotalRequests != 1 || stats.SuccessfulRequests != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ValidationStats.TotalValidations != 1 {
		t.Fatalf("validation total = %d, want 1", stats.ValidationStats.TotalValidations)
	}
}

func uploadForm(t *testing.T, fieldName, fileName, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeFileUpload(t *testing.T) {
	baseDir := t.TempDir()
	r, _ := newTestRouter(t, baseDir, 2)

	body, contentType := uploadForm(t, "file", "resume.txt", "text/plain", []byte(validResume))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var report Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.FileName != "resume.txt" {
		t.Fatalf("filename = %q, want resume.txt", report.FileName)
	}
	if !report.Validation.IsValid {
		t.Fatal("expected valid report")
	}

	// The transient upload is removed after the response.
	entries, err := os.ReadDir(filepath.Join(baseDir, "uploads"))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read uploads dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("uploads dir not cleaned up: %d entries left", len(entries))
	}
}

func TestAnalyzeFileUnsupportedType(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 1)

	body, contentType := uploadForm(t, "file", "resume.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", w.Code)
	}
}

func TestAnalyzeFileMissingField(t *testing.T) {
	r, _ := newTestRouter(t, t.TempDir(), 1)

	body, contentType := uploadForm(t, "document", "resume.txt", "text/plain", []byte(validResume))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
