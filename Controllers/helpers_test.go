package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"VisitReport/Controllers"
	"VisitReport/Monday"

	"github.com/gofiber/fiber/v2"
)

// fakePlatform stands in for the remote work-management API. Responses are
// chosen by the per-test respond function based on the incoming query text;
// file-endpoint calls are counted separately so tests can assert whether an
// upload was attempted at all.
type fakePlatform struct {
	srv       *httptest.Server
	respond   func(query string) string
	failFiles bool

	mu        sync.Mutex
	queries   []string
	fileCalls int
}

func newFakePlatform(t *testing.T, respond func(query string) string) *fakePlatform {
	f := &fakePlatform{respond: respond}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/file") {
			f.mu.Lock()
			f.fileCalls++
			failFiles := f.failFiles
			f.mu.Unlock()
			if failFiles {
				w.Write([]byte(`{"errors":[{"message":"upload refused"}]}`))
				return
			}
			w.Write([]byte(`{"data":{"add_file_to_update":{"id":"1"}}}`))
			return
		}

		var body struct {
			Query string `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.queries = append(f.queries, body.Query)
		f.mu.Unlock()
		w.Write([]byte(f.respond(body.Query)))
	}))
	t.Cleanup(f.srv.Close)

	Monday.Default = &Monday.Client{
		APIURL:     f.srv.URL,
		FileAPIURL: f.srv.URL + "/file",
		Token:      "test-token",
		HTTPClient: f.srv.Client(),
	}

	return f
}

// queryCount counts platform calls whose query contains substr.
func (f *fakePlatform) queryCount(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, q := range f.queries {
		if strings.Contains(q, substr) {
			count++
		}
	}
	return count
}

func (f *fakePlatform) fileCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fileCalls
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/projects", Controllers.GetProjects)
	app.Get("/api/projects/:projectId/tasks", Controllers.GetProjectTasks)
	app.Post("/api/report", Controllers.SubmitReport)
	app.Get("/api/visit-summary", Controllers.GetVisitSummary)
	app.Get("/api/visit-summary/export", Controllers.ExportVisitSummary)
	app.Post("/api/visit-summary/create", Controllers.CreateVisitSummary)
	app.Post("/api/visit-summary/upload-signatures", Controllers.UploadSignatures)
	app.Get("/api/WorkSession/:key", Controllers.GetWorkSession)
	app.Put("/api/WorkSession/:key", Controllers.PutWorkSession)
	app.Delete("/api/WorkSession/:key", Controllers.DeleteWorkSession)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
