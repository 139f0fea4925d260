package roadmaps

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:abc")
		c.Set("isGuest", true)
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestExportRoadmapTxt(t *testing.T) {
	client := &fakeLLM{roadmapResponse: "Phase 1: Foundations"}
	svc, _, _ := newTestStack(t, client)

	roadmap, _, err := svc.StartOrReuse(context.Background(), "guest:abc", "Data Engineer", "")
	if err != nil {
		t.Fatal(err)
	}
	waitForTerminal(t, svc, "guest:abc", roadmap.ID)

	router := newTestRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/roadmaps/"+roadmap.ID+"/export?format=txt", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if got := resp.Body.String(); got != "Phase 1: Foundations" {
		t.Errorf("body = %q, want verbatim roadmap", got)
	}
	disposition := resp.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "Data_Engineer_Career_Roadmap.txt") {
		t.Errorf("unexpected disposition: %q", disposition)
	}
}

func TestExportRoadmapPdf(t *testing.T) {
	client := &fakeLLM{roadmapResponse: "Phase 1: Foundations"}
	svc, _, _ := newTestStack(t, client)

	roadmap, _, err := svc.StartOrReuse(context.Background(), "guest:abc", "Data Engineer", "")
	if err != nil {
		t.Fatal(err)
	}
	waitForTerminal(t, svc, "guest:abc", roadmap.ID)

	router := newTestRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/roadmaps/"+roadmap.ID+"/export?format=pdf", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF document")
	}
}

func TestExportRoadmapBadFormat(t *testing.T) {
	client := &fakeLLM{roadmapResponse: "Phase 1"}
	svc, _, _ := newTestStack(t, client)
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roadmaps/anything/export?format=docx", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestExportRoadmapNotReady(t *testing.T) {
	client := &fakeLLM{roadmapResponse: "Phase 1"}
	svc, _, _ := newTestStack(t, client)
	router := newTestRouter(t, svc)

	// Insert a queued roadmap directly so it never completes.
	queued := Roadmap{ID: "rm-1", UserID: "guest:abc", JobTitle: "Data Engineer", Status: StatusQueued}
	if err := svc.Repo.Create(context.Background(), queued); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roadmaps/rm-1/export", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "not_ready" {
		t.Errorf("error code = %q, want not_ready", body.Error.Code)
	}
}
