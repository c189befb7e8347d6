package model

// Metric identifies one tracked system metric.
type Metric string

// The fixed set of metrics the model accumulates. Emissions reductions are
// recorded as negative deltas.
const (
	CarbonEmissions        Metric = "carbon_emissions"
	AffordableHousingUnits Metric = "affordable_housing_units"
	GreenJobsCreated       Metric = "green_jobs_created"
	PolicyAdaptability     Metric = "policy_adaptability_score"
	CommunityParticipation Metric = "community_participation_score"
)

// Metrics is the ordered set of tracked metrics. The order is used wherever a
// deterministic column layout is needed (history tables, CSV export).
var Metrics = []Metric{
	CarbonEmissions,
	AffordableHousingUnits,
	GreenJobsCreated,
	PolicyAdaptability,
	CommunityParticipation,
}

// Known reports whether name is a recognized metric name.
func Known(name string) bool {
	switch Metric(name) {
	case CarbonEmissions, AffordableHousingUnits, GreenJobsCreated,
		PolicyAdaptability, CommunityParticipation:
		return true
	}
	return false
}

// DefaultThresholds returns the shipped homeostasis limits.
//
// Note: these keys do not match any tracked metric name, so with the default
// tables AssessHomeostasis returns an empty report. This reproduces the
// reference dashboard's shipped behavior; deployments that want a populated
// report override the table via the `thresholds` config section with keys
// from the metric set.
func DefaultThresholds() map[string]float64 {
	return map[string]float64{
		"carbon_budget":               1.5,
		"housing_affordability_index": 0.3,
		"job_creation_rate":           0.05,
	}
}

// DefaultSDGTargets returns the static grouping of system dimensions to the
// SDG identifiers they contribute to. The grouping is informational — every
// listed SDG appears in the alignment score map, but only SDG 13, SDG 11 and
// SDG 8 have scoring formulas.
func DefaultSDGTargets() map[string][]string {
	return map[string][]string{
		"ecological":    {"SDG 6", "SDG 7", "SDG 12", "SDG 13", "SDG 15"},
		"social":        {"SDG 1", "SDG 3", "SDG 4", "SDG 5", "SDG 10", "SDG 11"},
		"economic":      {"SDG 8", "SDG 9"},
		"institutional": {"SDG 16", "SDG 17"},
	}
}
