package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soniaklein/HRF-Dashboard/internal/alerts"
	"github.com/soniaklein/HRF-Dashboard/internal/api"
	"github.com/soniaklein/HRF-Dashboard/internal/config"
	"github.com/soniaklein/HRF-Dashboard/internal/session"
	"github.com/soniaklein/HRF-Dashboard/internal/templates"
)

// --- test helpers -----------------------------------------------------------

func newHandler(t *testing.T) *api.Handler {
	t.Helper()
	store, err := templates.NewStore(filepath.Join(t.TempDir(), "saved_templates.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	sessions := session.NewManager(5*time.Minute, nil)
	return api.New(sessions, store, alerts.New(config.AlertsConfig{}), nil)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, rd))
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodGet, path, nil)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	h := newHandler(t)
	rr := get(t, h, "/api/v1/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want ok", resp.Status)
	}
	if resp.TemplateCount != 3 {
		t.Errorf("template_count: got %d, want 3 builtins", resp.TemplateCount)
	}
}

// --- intervention flow ------------------------------------------------------

func TestApplyIntervention_RawImpacts(t *testing.T) {
	h := newHandler(t)

	rr := do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions", api.InterventionRequest{
		Name: "custom",
		Impacts: map[string]float64{
			"carbon_emissions":         -20000,
			"affordable_housing_units": 10000,
			"green_jobs_created":       750,
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}

	var resp api.EvaluationResponse
	decode(t, rr, &resp)

	if resp.HistoryLength != 1 {
		t.Errorf("history_length: got %d, want 1", resp.HistoryLength)
	}
	if resp.State["carbon_emissions"] != -20000 {
		t.Errorf("carbon_emissions: got %v, want -20000", resp.State["carbon_emissions"])
	}
	if resp.SDGAlignment["SDG 11"] != 100 {
		t.Errorf("SDG 11: got %v, want 100", resp.SDGAlignment["SDG 11"])
	}
	if resp.SDGAlignment["SDG 8"] != 75 {
		t.Errorf("SDG 8: got %v, want 75", resp.SDGAlignment["SDG 8"])
	}
	if resp.Record == nil || resp.Record.Values["green_jobs_created"] != 750 {
		t.Errorf("record: got %+v", resp.Record)
	}
	// Default tables: threshold keys match no metric, so the report is empty.
	if len(resp.Homeostasis) != 0 {
		t.Errorf("homeostasis: got %v, want empty", resp.Homeostasis)
	}
}

func TestApplyIntervention_ByTemplateName(t *testing.T) {
	h := newHandler(t)

	rr := do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Name: "Green Housing & Jobs"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rr.Code, rr.Body.String())
	}

	var resp api.EvaluationResponse
	decode(t, rr, &resp)
	if resp.State["green_jobs_created"] != 750 {
		t.Errorf("green_jobs_created: got %v, want 750 from builtin template", resp.State["green_jobs_created"])
	}
}

func TestApplyIntervention_UnknownTemplate(t *testing.T) {
	h := newHandler(t)
	rr := do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Name: "nope"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestApplyIntervention_BadRequests(t *testing.T) {
	h := newHandler(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/s1/interventions", strings.NewReader("{not json")))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: got %d, want 400", rr.Code)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Impacts: map[string]float64{"carbon_emissions": 1}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing name: got %d, want 400", rr.Code)
	}

	rr = get(t, h, "/api/v1/sessions/s1/interventions")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET interventions: got %d, want 405", rr.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHandler(t)

	do(t, h, http.MethodPost, "/api/v1/sessions/a/interventions",
		api.InterventionRequest{Name: "Community-Led Retrofits"})

	var scores map[string]float64
	rr := get(t, h, "/api/v1/sessions/b/sdg")
	decode(t, rr, &scores)
	if scores["SDG 8"] != 0 {
		t.Errorf("session b SDG 8: got %v, want 0", scores["SDG 8"])
	}
}

// --- read endpoints ---------------------------------------------------------

func TestHistory(t *testing.T) {
	h := newHandler(t)

	do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Name: "one", Impacts: map[string]float64{"carbon_emissions": -100}})
	do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Name: "two", Impacts: map[string]float64{"green_jobs_created": 10}})

	var resp api.HistoryResponse
	rr := get(t, h, "/api/v1/sessions/s1/history")
	decode(t, rr, &resp)

	if resp.Count != 2 {
		t.Fatalf("count: got %d, want 2", resp.Count)
	}
	if resp.Rows[0].Name != "one" || resp.Rows[1].Name != "two" {
		t.Errorf("row order: got %q, %q", resp.Rows[0].Name, resp.Rows[1].Name)
	}
	if resp.Rows[0].GreenJobsCreated != nil {
		t.Error("row 0 green_jobs_created: want null for untouched metric")
	}
	if resp.Rows[1].GreenJobsCreated == nil || *resp.Rows[1].GreenJobsCreated != 10 {
		t.Errorf("row 1 green_jobs_created: got %v", resp.Rows[1].GreenJobsCreated)
	}
}

func TestExportCSV(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Name: "plan", Impacts: map[string]float64{"carbon_emissions": -500}})

	rr := get(t, h, "/api/v1/sessions/s1/export/csv")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content-type: got %q", ct)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "name,timestamp,carbon_emissions") {
		t.Errorf("csv header: got %q", strings.SplitN(body, "\n", 2)[0])
	}
	if !strings.Contains(body, "plan") || !strings.Contains(body, "-500") {
		t.Errorf("csv body missing row data: %q", body)
	}
}

func TestExportPDF(t *testing.T) {
	h := newHandler(t)
	do(t, h, http.MethodPost, "/api/v1/sessions/s1/interventions",
		api.InterventionRequest{Name: "plan", Impacts: map[string]float64{"carbon_emissions": -500}})

	rr := get(t, h, "/api/v1/sessions/s1/export/pdf")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type: got %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF document")
	}
}

// --- templates --------------------------------------------------------------

func TestTemplateCRUD(t *testing.T) {
	h := newHandler(t)

	rr := do(t, h, http.MethodPut, "/api/v1/templates/My%20Plan",
		map[string]float64{"carbon_emissions": -123})
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT: got %d (body: %s)", rr.Code, rr.Body.String())
	}

	var imp map[string]float64
	rr = get(t, h, "/api/v1/templates/My%20Plan")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET: got %d", rr.Code)
	}
	decode(t, rr, &imp)
	if imp["carbon_emissions"] != -123 {
		t.Errorf("saved template: got %v", imp)
	}

	var all map[string]map[string]float64
	rr = get(t, h, "/api/v1/templates")
	decode(t, rr, &all)
	if len(all) != 4 {
		t.Errorf("list: got %d entries, want 4", len(all))
	}

	rr = do(t, h, http.MethodDelete, "/api/v1/templates/My%20Plan", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("DELETE: got %d, want 204", rr.Code)
	}
	rr = get(t, h, "/api/v1/templates/My%20Plan")
	if rr.Code != http.StatusNotFound {
		t.Errorf("GET after DELETE: got %d, want 404", rr.Code)
	}
}

// --- auth -------------------------------------------------------------------

func TestWithAuth(t *testing.T) {
	h := api.WithAuth("apikey", "X-API-Key", "sekrit", newHandler(t))

	rr := get(t, h, "/api/v1/health")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing key: got %d, want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-API-Key", "sekrit")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("valid key: got %d, want 200", rr.Code)
	}

	// Mode none passes everything through.
	open := api.WithAuth("none", "X-API-Key", "", newHandler(t))
	rr = get(t, open, "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Errorf("mode none: got %d, want 200", rr.Code)
	}
}
