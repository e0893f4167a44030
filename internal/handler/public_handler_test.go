package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/complai/internal/devcms"
	"github.com/complai/internal/directus"
	"github.com/complai/internal/handler"
	"github.com/complai/internal/router"
	"github.com/complai/internal/service"
	"github.com/gin-gonic/gin"
)

var seedTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, baseURL string) *gin.Engine {
	t.Helper()
	client := directus.NewClient(baseURL, "", time.Second)
	api := handler.NewAPI(
		service.NewContentService(client, nil),
		service.NewHealthService(client, "test", nil),
		handler.Site{Name: "Complai", Environment: "test"},
		nil,
	)
	return router.SetupRouter(api, "test-session-secret", nil)
}

func setupPublicRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := devcms.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = devcms.Close(gdb) })
	if err := devcms.Seed(gdb, seedTime); err != nil {
		t.Fatalf("failed to seed content: %v", err)
	}

	srv := httptest.NewServer(devcms.NewServer(gdb, "", nil).Handler())
	t.Cleanup(srv.Close)
	return newTestRouter(t, srv.URL)
}

func setupUnreachableRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	return newTestRouter(t, base)
}

func get(r http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestShowHomeExcludesDrafts(t *testing.T) {
	r := setupPublicRouter(t)

	w := get(r, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, slug := range []string{"writing-content-in-markdown", "running-directus-on-kubernetes", "welcome-to-complai"} {
		if !strings.Contains(body, "/posts/"+slug) {
			t.Fatalf("expected home to link published post %s", slug)
		}
	}
	if strings.Contains(body, "Roadmap (draft)") || strings.Contains(body, "Launch checklist") {
		t.Fatalf("non-published posts should not be rendered on home")
	}
	if !strings.Contains(body, `href="/pages/about"`) {
		t.Fatalf("expected navigation to include published pages")
	}
	if strings.Contains(body, "internal-handbook") {
		t.Fatalf("draft pages should not appear in navigation")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestShowPostListOrdersNewestFirst(t *testing.T) {
	r := setupPublicRouter(t)

	w := get(r, "/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	newest := strings.Index(body, "/posts/writing-content-in-markdown")
	middle := strings.Index(body, "/posts/running-directus-on-kubernetes")
	oldest := strings.Index(body, "/posts/welcome-to-complai")
	if newest < 0 || middle < 0 || oldest < 0 {
		t.Fatalf("expected all published posts in list")
	}
	if !(newest < middle && middle < oldest) {
		t.Fatalf("expected newest first, got offsets %d %d %d", newest, middle, oldest)
	}
	if !strings.Contains(body, "Mar 9, 2025") {
		t.Fatalf("expected english formatted date in list")
	}
}

func TestShowPostDetail(t *testing.T) {
	r := setupPublicRouter(t)

	w := get(r, "/posts/running-directus-on-kubernetes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "<table>") {
		t.Fatalf("expected markdown to be rendered, got %s", body)
	}
	if !strings.Contains(body, "Updated") {
		t.Fatalf("expected updated date for edited post")
	}

	w = get(r, "/posts/writing-content-in-markdown", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body = w.Body.String()
	if strings.Contains(body, "<script") || strings.Contains(body, "stripped") {
		t.Fatalf("script content must be sanitized")
	}
	if !strings.Contains(body, "<em>HTML</em>") {
		t.Fatalf("expected inline html to survive sanitizing")
	}
}

func TestShowPostDetailRejectsDraft(t *testing.T) {
	r := setupPublicRouter(t)

	for _, path := range []string{"/posts/roadmap", "/posts/launch-checklist", "/posts/does-not-exist"} {
		w := get(r, path, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Page not found") {
			t.Fatalf("%s: expected not found page", path)
		}
	}
}

func TestShowPages(t *testing.T) {
	r := setupPublicRouter(t)

	w := get(r, "/pages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/pages/privacy") {
		t.Fatalf("expected page index to list privacy page")
	}

	w = get(r, "/pages/about", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "About Complai</h1>") {
		t.Fatalf("expected page body heading")
	}

	w = get(r, "/pages/internal-handbook", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected draft page to 404, got %d", w.Code)
	}
}

func TestPagesRenderWhenCMSUnreachable(t *testing.T) {
	r := setupUnreachableRouter(t)

	w := get(r, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected home to render, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "Latest Posts") {
		t.Fatalf("latest posts section should be hidden without posts")
	}

	w = get(r, "/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected post list to render, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No posts have been published yet.") {
		t.Fatalf("expected empty state")
	}

	w = get(r, "/posts/anything", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when cms is down, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	w := get(setupPublicRouter(t), "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var report service.HealthReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid health json: %v", err)
	}
	if report.Status != service.StatusHealthy || report.Services.Directus != service.StatusHealthy {
		t.Fatalf("unexpected report %+v", report)
	}

	w = get(setupUnreachableRouter(t), "/api/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	var down map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &down); err != nil {
		t.Fatalf("invalid health json: %v", err)
	}
	if down["status"] != service.StatusUnhealthy || down["error"] == "" || down["error"] == nil {
		t.Fatalf("unexpected unhealthy payload %v", down)
	}
}

func TestLanguagePreference(t *testing.T) {
	r := setupPublicRouter(t)

	w := get(r, "/", map[string]string{"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.5"})
	if !strings.Contains(w.Body.String(), "最新文章") {
		t.Fatalf("expected chinese ui from accept-language")
	}
	if got := w.Header().Get("Content-Language"); got != "zh-CN" {
		t.Fatalf("expected zh-CN content language, got %q", got)
	}

	w = get(r, "/posts?lang=zh", nil)
	if !strings.Contains(w.Body.String(), "2025年3月9日") {
		t.Fatalf("expected chinese date format")
	}
	cookie := w.Header().Get("Set-Cookie")
	if cookie == "" {
		t.Fatalf("expected language to be persisted in session")
	}

	w = get(r, "/", map[string]string{"Cookie": strings.SplitN(cookie, ";", 2)[0], "Accept-Language": "en"})
	if !strings.Contains(w.Body.String(), "最新文章") {
		t.Fatalf("session language should win over accept-language")
	}
}

func TestNoRouteRendersNotFound(t *testing.T) {
	w := get(setupPublicRouter(t), "/missing/route", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Back to home") {
		t.Fatalf("expected not found template")
	}
}

func TestPingAndStatic(t *testing.T) {
	r := setupUnreachableRouter(t)

	w := get(r, "/ping", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pong") {
		t.Fatalf("unexpected ping response %d %s", w.Code, w.Body.String())
	}

	w = get(r, "/static/site.css", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected stylesheet, got %d", w.Code)
	}
}
