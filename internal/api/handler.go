package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/soniaklein/HRF-Dashboard/internal/alerts"
	"github.com/soniaklein/HRF-Dashboard/internal/export"
	"github.com/soniaklein/HRF-Dashboard/internal/metrics"
	"github.com/soniaklein/HRF-Dashboard/internal/model"
	"github.com/soniaklein/HRF-Dashboard/internal/session"
	"github.com/soniaklein/HRF-Dashboard/internal/storage"
	"github.com/soniaklein/HRF-Dashboard/internal/templates"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	sessions  *session.Manager
	templates *templates.Store
	alerts    *alerts.Engine
	audit     *storage.Store // nil when no storage backend is configured
	mux       *http.ServeMux
}

// New creates a Handler wired to its collaborators and registers all routes.
// audit may be nil.
func New(sm *session.Manager, ts *templates.Store, ae *alerts.Engine, audit *storage.Store) *Handler {
	h := &Handler{sessions: sm, templates: ts, alerts: ae, audit: audit, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/templates", h.listTemplates)
	h.mux.HandleFunc("/api/v1/templates/", h.template)  // subtree — extracts {name}
	h.mux.HandleFunc("/api/v1/sessions/", h.sessionSub) // subtree — extracts {id}/{op}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — service liveness and basic counts.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		SessionCount:  h.sessions.Count(),
		TemplateCount: len(h.templates.List()),
		AlertCount:    len(h.alerts.Active()),
	})
}

// listAlerts returns GET /api/v1/alerts — firing and recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, AlertsResponse{
		Active: h.alerts.Active(),
		Recent: h.alerts.History(),
	})
}

// listTemplates returns GET /api/v1/templates — builtins merged with saved.
func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.templates.List())
}

// template handles GET/PUT/DELETE /api/v1/templates/{name}.
func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/templates/")
	if name == "" {
		h.listTemplates(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		imp, ok := h.templates.Get(name)
		if !ok {
			jsonErr(w, http.StatusNotFound, "template not found")
			return
		}
		jsonResp(w, http.StatusOK, imp)

	case http.MethodPut:
		var impacts templates.Impacts
		if err := json.NewDecoder(r.Body).Decode(&impacts); err != nil {
			jsonErr(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
			return
		}
		if err := h.templates.Save(name, impacts); err != nil {
			slog.Error("api: save template failed", "name", name, "err", err)
			jsonErr(w, http.StatusInternalServerError, "save failed")
			return
		}
		metrics.TemplateSaves.Inc()
		jsonResp(w, http.StatusOK, impacts)

	case http.MethodDelete:
		if err := h.templates.Delete(name); err != nil {
			slog.Error("api: delete template failed", "name", name, "err", err)
			jsonErr(w, http.StatusInternalServerError, "delete failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// sessionSub dispatches /api/v1/sessions/{id}/{op}.
func (h *Handler) sessionSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	id, op, ok := strings.Cut(rest, "/")
	if !ok || id == "" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}

	switch op {
	case "interventions":
		h.applyIntervention(w, r, id)
	case "homeostasis":
		h.homeostasis(w, r, id)
	case "sdg":
		h.sdgAlignment(w, r, id)
	case "history":
		h.history(w, r, id)
	case "export/csv":
		h.exportCSV(w, r, id)
	case "export/pdf":
		h.exportPDF(w, r, id)
	default:
		jsonErr(w, http.StatusNotFound, "not found")
	}
}

// applyIntervention handles POST /api/v1/sessions/{id}/interventions.
// The body names a template (impacts resolved from the store) or carries raw
// impacts. The response is the full evaluation after the apply.
func (h *Handler) applyIntervention(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req InterventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	if req.Name == "" {
		jsonErr(w, http.StatusBadRequest, "name is required")
		return
	}

	impacts := req.Impacts
	if len(impacts) == 0 {
		tmpl, ok := h.templates.Get(req.Name)
		if !ok {
			jsonErr(w, http.StatusNotFound, "unknown template and no impacts given")
			return
		}
		impacts = tmpl
	}

	var (
		rec  model.Record
		resp EvaluationResponse
	)
	h.sessions.Do(id, func(m *model.Model) {
		rec = m.Apply(req.Name, impacts, time.Now())
		resp = evaluation(id, m)
	})
	resp.Record = toRecordResponse(rec)

	metrics.InterventionsApplied.WithLabelValues(req.Name).Inc()

	if h.audit != nil {
		if err := h.audit.Append(id, rec); err != nil {
			// Audit is write-behind; failures must not abort the interaction.
			slog.Error("api: audit append failed", "session", id, "err", err)
		}
	}

	h.alerts.Evaluate(&alerts.Snapshot{
		Session:     id,
		State:       resp.State,
		SDG:         resp.SDGAlignment,
		Homeostasis: resp.Homeostasis,
		HistoryLen:  resp.HistoryLength,
	})

	jsonResp(w, http.StatusOK, resp)
}

// homeostasis returns GET /api/v1/sessions/{id}/homeostasis.
func (h *Handler) homeostasis(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var report map[string]model.ThresholdReport
	h.sessions.Do(id, func(m *model.Model) {
		report = m.AssessHomeostasis()
	})
	jsonResp(w, http.StatusOK, report)
}

// sdgAlignment returns GET /api/v1/sessions/{id}/sdg.
func (h *Handler) sdgAlignment(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var scores map[string]float64
	h.sessions.Do(id, func(m *model.Model) {
		scores = m.SDGAlignment()
	})
	jsonResp(w, http.StatusOK, scores)
}

// history returns GET /api/v1/sessions/{id}/history — the fixed-width table.
func (h *Handler) history(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var rows []model.Row
	h.sessions.Do(id, func(m *model.Model) {
		rows = m.HistoryTable()
	})
	jsonResp(w, http.StatusOK, HistoryResponse{Rows: rows, Count: len(rows)})
}

// exportCSV returns GET /api/v1/sessions/{id}/export/csv.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var rows []model.Row
	h.sessions.Do(id, func(m *model.Model) {
		rows = m.HistoryTable()
	})

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="hrf_policy_simulation.csv"`)
	if err := export.WriteCSV(w, rows); err != nil {
		slog.Error("api: csv export failed", "session", id, "err", err)
		return
	}
	metrics.Exports.WithLabelValues("csv").Inc()
}

// exportPDF returns GET /api/v1/sessions/{id}/export/pdf.
func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var rows []model.Row
	h.sessions.Do(id, func(m *model.Model) {
		rows = m.HistoryTable()
	})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="hrf_report.pdf"`)
	if err := export.WritePDF(w, rows); err != nil {
		slog.Error("api: pdf export failed", "session", id, "err", err)
		return
	}
	metrics.Exports.WithLabelValues("pdf").Inc()
}

// --- helpers ----------------------------------------------------------------

// Evaluation builds the current evaluation snapshot for a session. The
// WebSocket hub uses this for its broadcast payload.
func (h *Handler) Evaluation(id string) EvaluationResponse {
	var resp EvaluationResponse
	h.sessions.Do(id, func(m *model.Model) {
		resp = evaluation(id, m)
	})
	return resp
}

func evaluation(id string, m *model.Model) EvaluationResponse {
	return EvaluationResponse{
		Session:       id,
		State:         m.State(),
		Homeostasis:   m.AssessHomeostasis(),
		SDGAlignment:  m.SDGAlignment(),
		HistoryLength: m.HistoryLen(),
	}
}

func toRecordResponse(rec model.Record) *RecordResponse {
	values := make(map[model.Metric]float64, len(rec.Values))
	for k, v := range rec.Values {
		values[k] = v
	}
	return &RecordResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Timestamp: rec.Timestamp.UTC().Format(time.RFC3339),
		Values:    values,
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
