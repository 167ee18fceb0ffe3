package usecase

import (
	"math"

	"github.com/nutriscan/backend/internal/domain"
)

const (
	// kilojoulesPerKcal is the conversion factor between kJ and kcal
	kilojoulesPerKcal = 4.184

	// kilojouleHeuristicThreshold is the magnitude above which an untagged
	// energy value is assumed to be kJ. Real foods rarely exceed ~900 kcal
	// per 100g, so anything above 1000 is almost certainly kilojoules.
	// Known approximation: very calorie-dense foods near the line could be
	// misclassified.
	kilojouleHeuristicThreshold = 1000.0
)

// Normalization carries data-quality signals produced while converting a raw
// nutrient record. Callers must treat heuristic-derived values as lower
// confidence than explicitly tagged data.
type Normalization struct {
	HeuristicEnergy bool     // energy unit guessed from magnitude, not tagged
	UnknownFields   []string // core fields the source did not report
}

// NormalizeNutrients converts a raw upstream nutrient record to the canonical
// per-100g kcal profile. Unknown values stay unknown: optional nutrients keep
// nil, missing core macros are reported in Normalization.UnknownFields.
func NormalizeNutrients(raw domain.RawNutrients) (domain.NutrientProfile, Normalization) {
	var profile domain.NutrientProfile
	var norm Normalization

	if kcal, heuristic, ok := normalizeEnergy(raw.Energy, raw.EnergyUnit); ok {
		profile.CaloriesKcal = kcal
		norm.HeuristicEnergy = heuristic
	} else {
		norm.UnknownFields = append(norm.UnknownFields, "calories")
	}

	if v, ok := normalizeMacro(raw.ProteinG); ok {
		profile.ProteinG = v
	} else {
		norm.UnknownFields = append(norm.UnknownFields, "protein")
	}
	if v, ok := normalizeMacro(raw.CarbsG); ok {
		profile.CarbsG = v
	} else {
		norm.UnknownFields = append(norm.UnknownFields, "carbs")
	}
	if v, ok := normalizeMacro(raw.FatG); ok {
		profile.FatG = v
	} else {
		norm.UnknownFields = append(norm.UnknownFields, "fat")
	}

	if v, ok := normalizeMacro(raw.FiberG); ok {
		profile.FiberG = &v
	}
	if v, ok := normalizeMacro(raw.SugarG); ok {
		profile.SugarG = &v
	}
	if v, ok := normalizeMacro(raw.SodiumMg); ok {
		profile.SodiumMg = &v
	}

	return profile, norm
}

// normalizeEnergy converts an energy value to integer kcal. The unit tag wins
// when present; untagged values go through the magnitude heuristic. Returns
// ok=false when the value is absent, negative, or not a number.
func normalizeEnergy(value *float64, unit string) (kcal float64, heuristic bool, ok bool) {
	if value == nil || *value < 0 || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return 0, false, false
	}
	v := *value

	switch {
	case equalsIgnoreCase(unit, "kj"):
		return math.Round(v / kilojoulesPerKcal), false, true
	case equalsIgnoreCase(unit, "kcal"):
		return math.Round(v), false, true
	case looksLikeKilojoules(v):
		return math.Round(v / kilojoulesPerKcal), true, true
	default:
		return math.Round(v), false, true
	}
}

// looksLikeKilojoules is the isolated magnitude heuristic for untagged energy
// values. Kept as its own function so it can be swapped for explicit-unit-only
// logic without touching callers.
func looksLikeKilojoules(value float64) bool {
	return value > kilojouleHeuristicThreshold
}

// normalizeMacro rounds a gram (or mg) value to one decimal place. Absent,
// negative, or non-numeric values are unknown, not zero.
func normalizeMacro(value *float64) (float64, bool) {
	if value == nil || *value < 0 || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return 0, false
	}
	return math.Round(*value*10) / 10, true
}

// equalsIgnoreCase compares two short ASCII strings case-insensitively without
// allocating.
func equalsIgnoreCase(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
