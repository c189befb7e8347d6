package alerts

import (
	"strconv"
	"strings"

	"github.com/soniaklein/HRF-Dashboard/internal/model"
)

// Snapshot is the evaluation state a rule condition is tested against. The
// API layer builds one after every applied intervention.
type Snapshot struct {
	Session     string
	State       map[model.Metric]float64
	SDG         map[string]float64
	Homeostasis map[string]model.ThresholdReport
	HistoryLen  int
}

// evalCondition evaluates a rule condition string against a Snapshot.
//
// Supported expressions (field operator value):
//
//	carbon_emissions > 0
//	green_jobs_created < 100
//	sdg_13 < 50
//	sdg_11 >= 75
//	history_len > 20
//	status == unstable
//
// SDG fields are the lowercased identifier with spaces as underscores, so
// "SDG 13" is addressed as sdg_13. "status == unstable" fires when any
// homeostasis entry has that status.
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, snap *Snapshot) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "status" {
		if op != "==" {
			return false, 0
		}
		for _, rep := range snap.Homeostasis {
			if rep.Status == rhs {
				return true, rep.Value
			}
		}
		return false, 0
	}

	v, ok := numericField(field, snap)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the snapshot.
func numericField(field string, snap *Snapshot) (float64, bool) {
	if model.Known(field) {
		return snap.State[model.Metric(field)], true
	}
	if field == "history_len" {
		return float64(snap.HistoryLen), true
	}
	for sdg, score := range snap.SDG {
		if sdgField(sdg) == field {
			return score, true
		}
	}
	return 0, false
}

// sdgField normalizes an SDG identifier to its condition field name:
// "SDG 13" -> "sdg_13".
func sdgField(sdg string) string {
	return strings.ReplaceAll(strings.ToLower(sdg), " ", "_")
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
