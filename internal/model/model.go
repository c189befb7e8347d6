package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Homeostasis status values returned by AssessHomeostasis.
const (
	StatusStable   = "stable"
	StatusUnstable = "unstable"
)

// Record is an immutable snapshot taken when an intervention is applied.
// Values holds, for every recognized metric present in the applied impact
// set, the post-update cumulative value — not the delta.
//
// Records are owned by the model's history log. Callers must not modify a
// Record's Values map after Apply returns.
type Record struct {
	ID        string
	Name      string
	Timestamp time.Time
	Values    map[Metric]float64
}

// ThresholdReport is one entry of the homeostasis assessment.
type ThresholdReport struct {
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Status    string  `json:"status"` // "stable" | "unstable"
}

// Model accumulates metric state over a sequence of applied interventions and
// derives threshold status and SDG alignment scores on demand.
//
// A Model has no modes: state grows monotonically through Apply, and all
// other operations are pure reads. It is not safe for concurrent use; the
// session layer serializes access.
type Model struct {
	state      map[Metric]float64
	history    []Record
	thresholds map[string]float64
	targets    map[string][]string
}

// New returns a Model with all metrics at zero and the default threshold and
// SDG target tables.
func New() *Model {
	return NewWith(DefaultThresholds(), DefaultSDGTargets())
}

// NewWith returns a Model using the given threshold and SDG target tables.
// Nil tables fall back to the defaults. Both tables are copied.
func NewWith(thresholds map[string]float64, targets map[string][]string) *Model {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	if targets == nil {
		targets = DefaultSDGTargets()
	}

	th := make(map[string]float64, len(thresholds))
	for k, v := range thresholds {
		th[k] = v
	}
	tg := make(map[string][]string, len(targets))
	for k, v := range targets {
		tg[k] = append([]string(nil), v...)
	}

	state := make(map[Metric]float64, len(Metrics))
	for _, m := range Metrics {
		state[m] = 0
	}

	return &Model{
		state:      state,
		thresholds: th,
		targets:    tg,
	}
}

// Apply adds every recognized delta in impacts to the cumulative state,
// appends a Record snapshotting the resulting values, and returns that
// record. Unrecognized keys are dropped without signaling.
//
// now is passed explicitly so callers (and tests) control the clock. Use
// time.Now() in production.
func (m *Model) Apply(name string, impacts map[string]float64, now time.Time) Record {
	rec := Record{
		ID:        uuid.NewString(),
		Name:      name,
		Timestamp: now,
		Values:    make(map[Metric]float64),
	}

	// Iterate the fixed metric set rather than the input map: this is the
	// explicit allow-list form of the "ignore unrecognized keys" contract.
	for _, metric := range Metrics {
		delta, ok := impacts[string(metric)]
		if !ok {
			continue
		}
		m.state[metric] += delta
		rec.Values[metric] = m.state[metric]
	}

	m.history = append(m.history, rec)
	return rec
}

// State returns a copy of the current cumulative metric state.
func (m *Model) State() map[Metric]float64 {
	out := make(map[Metric]float64, len(m.state))
	for k, v := range m.state {
		out[k] = v
	}
	return out
}

// Value returns the current cumulative value of one metric.
func (m *Model) Value(metric Metric) float64 {
	return m.state[metric]
}

// HistoryLen returns the number of applied interventions.
func (m *Model) HistoryLen() int {
	return len(m.history)
}

// History returns the chronological intervention log. The returned slice is a
// copy; the Records' Values maps are shared and must not be modified.
func (m *Model) History() []Record {
	return append([]Record(nil), m.history...)
}

// AssessHomeostasis reports, for each threshold whose key matches a tracked
// metric, the current value against its limit. Thresholds whose keys match
// no metric produce no entry.
func (m *Model) AssessHomeostasis() map[string]ThresholdReport {
	report := make(map[string]ThresholdReport)
	for key, limit := range m.thresholds {
		val, ok := m.state[Metric(key)]
		if !ok {
			continue
		}
		status := StatusStable
		if val > limit {
			status = StatusUnstable
		}
		report[key] = ThresholdReport{
			Value:     val,
			Threshold: limit,
			Status:    status,
		}
	}
	return report
}

// SDGAlignment maps every SDG identifier from the target groups to a score.
// All identifiers default to 0; SDG 13, SDG 11 and SDG 8 are overwritten
// with fixed formulas over current cumulative state. No rounding is applied
// here — presentation is the caller's concern.
func (m *Model) SDGAlignment() map[string]float64 {
	scores := make(map[string]float64)
	for _, group := range m.targets {
		for _, sdg := range group {
			scores[sdg] = 0
		}
	}

	scores["SDG 13"] = math.Max(0, 100-m.state[CarbonEmissions]/1000)
	scores["SDG 11"] = m.state[AffordableHousingUnits] / 100
	scores["SDG 8"] = m.state[GreenJobsCreated] / 10

	return scores
}
