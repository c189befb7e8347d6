package api

import (
	"github.com/soniaklein/HRF-Dashboard/internal/alerts"
	"github.com/soniaklein/HRF-Dashboard/internal/model"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	SessionCount  int    `json:"session_count"`
	TemplateCount int    `json:"template_count"`
	AlertCount    int    `json:"alert_count"`
}

// InterventionRequest is the body of POST /api/v1/sessions/{id}/interventions.
// Impacts may be omitted, in which case Name must match a stored template and
// its impact set is applied.
type InterventionRequest struct {
	Name    string             `json:"name"`
	Impacts map[string]float64 `json:"impacts,omitempty"`
}

// RecordResponse is the JSON shape of one applied-intervention record.
// Values holds post-update cumulative values for the metrics the
// intervention touched.
type RecordResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Timestamp string                   `json:"timestamp"` // RFC3339
	Values    map[model.Metric]float64 `json:"values"`
}

// EvaluationResponse is the full evaluation returned after applying an
// intervention, and the broadcast payload of the WebSocket hub.
type EvaluationResponse struct {
	Session       string                           `json:"session"`
	Record        *RecordResponse                  `json:"record,omitempty"`
	State         map[model.Metric]float64         `json:"system_state"`
	Homeostasis   map[string]model.ThresholdReport `json:"homeostasis"`
	SDGAlignment  map[string]float64               `json:"sdg_alignment"`
	HistoryLength int                              `json:"history_length"`
}

// HistoryResponse is the payload for GET /api/v1/sessions/{id}/history.
type HistoryResponse struct {
	Rows  []model.Row `json:"rows"`
	Count int         `json:"count"`
}

// AlertsResponse is the payload for GET /api/v1/alerts.
type AlertsResponse struct {
	Active []*alerts.Alert `json:"active"`
	Recent []*alerts.Alert `json:"recent"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
