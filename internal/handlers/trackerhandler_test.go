package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/apptrack/apptrack/internal/dtos"
	"github.com/apptrack/apptrack/internal/services"
	"github.com/apptrack/apptrack/internal/sheet"
	"github.com/gin-gonic/gin"
)

type fakeExtractor struct {
	result *dtos.ExtractedUpdate
}

func (f *fakeExtractor) ExtractUpdate(ctx context.Context, text string) (*dtos.ExtractedUpdate, error) {
	return f.result, nil
}

type fakeSheet struct {
	headers []string
	rows    [][]string
	err     error
}

func (f *fakeSheet) Headers(ctx context.Context) ([]string, error) { return f.headers, f.err }
func (f *fakeSheet) Rows(ctx context.Context) ([][]string, error)  { return f.rows, f.err }
func (f *fakeSheet) AppendRow(ctx context.Context, values []string) error {
	f.rows = append(f.rows, values)
	return nil
}
func (f *fakeSheet) UpdateCells(ctx context.Context, updates []sheet.CellUpdate) error {
	return nil
}

func newTestRouter(ex services.Extractor, fs *fakeSheet) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cache := sheet.NewCache(fs, time.Minute)
	tracker := services.NewTrackerService(ex, fs, cache, services.NewMatcherService(), nil)
	h := NewTrackerHandler(tracker, cache, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.POST("/updates", h.SubmitUpdate)
		api.GET("/applications", h.Dashboard)
		api.GET("/events", h.Events)
	}
	return r
}

var testHeaders = []string{"Company", "Job Title", "Status", "Date Applied", "Last Updated"}

func TestSubmitUpdate_Created(t *testing.T) {
	fs := &fakeSheet{headers: testHeaders}
	ex := &fakeExtractor{result: &dtos.ExtractedUpdate{
		Action:   "CREATE",
		Company:  "Vercel",
		JobTitle: "Frontend Engineer",
		Status:   "Applied",
	}}
	r := newTestRouter(ex, fs)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/updates",
		strings.NewReader(`{"text":"Applied to Vercel for the frontend role"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result dtos.UpdateResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Outcome != dtos.OutcomeCreated || result.Company != "Vercel" {
		t.Errorf("result = %+v", result)
	}
	if len(fs.rows) != 1 {
		t.Errorf("expected a row to be appended, got %d", len(fs.rows))
	}
}

func TestSubmitUpdate_BadRequest(t *testing.T) {
	r := newTestRouter(&fakeExtractor{}, &fakeSheet{headers: testHeaders})

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"malformed JSON", `{"text":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/updates", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSubmitUpdate_NoCompany(t *testing.T) {
	ex := &fakeExtractor{result: &dtos.ExtractedUpdate{Action: "CREATE", Company: ""}}
	r := newTestRouter(ex, &fakeSheet{headers: testHeaders})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/updates",
		strings.NewReader(`{"text":"got an offer!"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	fs := &fakeSheet{
		headers: testHeaders,
		rows:    [][]string{{"Stripe", "Backend Engineer", "Applied"}},
	}
	r := newTestRouter(&fakeExtractor{}, fs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Source  string     `json:"source"`
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Source != "sheet" || len(body.Rows) != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestEvents_NoMirror(t *testing.T) {
	r := newTestRouter(&fakeExtractor{}, &fakeSheet{headers: testHeaders})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"events":[]`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(&fakeExtractor{}, &fakeSheet{headers: testHeaders})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
