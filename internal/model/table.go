package model

import "time"

// Row is one fixed-width history table row. Metric cells the intervention
// did not touch are nil, so callers can distinguish "untouched" from a
// cumulative value of zero.
type Row struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`

	CarbonEmissions        *float64 `json:"carbon_emissions"`
	AffordableHousingUnits *float64 `json:"affordable_housing_units"`
	GreenJobsCreated       *float64 `json:"green_jobs_created"`
	PolicyAdaptability     *float64 `json:"policy_adaptability_score"`
	CommunityParticipation *float64 `json:"community_participation_score"`
}

// Cell returns the row's value for one metric, nil if untouched.
func (r Row) Cell(metric Metric) *float64 {
	switch metric {
	case CarbonEmissions:
		return r.CarbonEmissions
	case AffordableHousingUnits:
		return r.AffordableHousingUnits
	case GreenJobsCreated:
		return r.GreenJobsCreated
	case PolicyAdaptability:
		return r.PolicyAdaptability
	case CommunityParticipation:
		return r.CommunityParticipation
	}
	return nil
}

// HistoryTable renders the intervention log as fixed-width rows, one per
// record in insertion (chronological) order. Columns are always the full
// metric set; exporters render nil cells as blank.
func (m *Model) HistoryTable() []Row {
	rows := make([]Row, 0, len(m.history))
	for _, rec := range m.history {
		row := Row{
			ID:        rec.ID,
			Name:      rec.Name,
			Timestamp: rec.Timestamp,
		}
		if v, ok := rec.Values[CarbonEmissions]; ok {
			row.CarbonEmissions = ptr(v)
		}
		if v, ok := rec.Values[AffordableHousingUnits]; ok {
			row.AffordableHousingUnits = ptr(v)
		}
		if v, ok := rec.Values[GreenJobsCreated]; ok {
			row.GreenJobsCreated = ptr(v)
		}
		if v, ok := rec.Values[CommunityParticipation]; ok {
			row.CommunityParticipation = ptr(v)
		}
		if v, ok := rec.Values[PolicyAdaptability]; ok {
			row.PolicyAdaptability = ptr(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func ptr(v float64) *float64 { return &v }
