package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"careercompass-backend/internal/bootstrap"
	"careercompass-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func TestDocumentsUploadAndCurrent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildTestApp(t).Router

	// Upload a small file.
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("Data engineer with Python and SQL experience.")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
		Source     string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatalf("expected documentId, got empty")
	}
	if created.Source != "upload" {
		t.Fatalf("expected source upload, got %s", created.Source)
	}

	// Fetch current document.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}

	var current struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&current); err != nil {
		t.Fatalf("decode current response: %v", err)
	}
	if current.FileName != "resume.txt" {
		t.Fatalf("expected fileName resume.txt, got %s", current.FileName)
	}
}

func TestDocumentsPasteThenAnalyze(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildTestApp(t).Router

	pasteBody := strings.NewReader(`{"text":"Machine learning engineer skilled in Python, TensorFlow and model deployment."}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/paste", pasteBody)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var doc struct {
		DocumentID string `json:"documentId"`
		Source     string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode paste response: %v", err)
	}
	if doc.Source != "paste" {
		t.Fatalf("expected source paste, got %s", doc.Source)
	}

	// Start an analysis against the pasted document. With no API key the
	// model client runs in dry-run mode, so the analysis still completes.
	reqStart := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+doc.DocumentID+"/analyses", nil)
	addGuestHeader(reqStart)
	respStart := httptest.NewRecorder()
	router.ServeHTTP(respStart, reqStart)

	if respStart.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", respStart.Code, respStart.Body.String())
	}

	var started struct {
		AnalysisID string `json:"analysisId"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(respStart.Body).Decode(&started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if started.AnalysisID == "" {
		t.Fatalf("expected analysisId, got empty")
	}

	status := pollAnalysis(t, router, started.AnalysisID)
	if status != "completed" {
		t.Fatalf("expected analysis to complete, got status %s", status)
	}
}

func pollAnalysis(t *testing.T, router *gin.Engine, analysisID string) string {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID, nil)
		addGuestHeader(req)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}

		var payload struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode status response: %v", err)
		}
		if payload.Status == "completed" || payload.Status == "failed" {
			return payload.Status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("analysis %s did not reach a terminal status", analysisID)
	return ""
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}
