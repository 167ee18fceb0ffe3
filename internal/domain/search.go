package domain

// RawNutrients is the loosely-populated nutrient record upstream sources
// publish. Every field is optional; a nil pointer means the source genuinely
// does not know the value, which must never be collapsed to zero.
type RawNutrients struct {
	Energy     *float64 `json:"energy,omitempty"`
	EnergyUnit string   `json:"energyUnit,omitempty"` // "kcal", "kJ", or empty (untagged)
	ProteinG   *float64 `json:"proteinG,omitempty"`
	CarbsG     *float64 `json:"carbsG,omitempty"`
	FatG       *float64 `json:"fatG,omitempty"`
	FiberG     *float64 `json:"fiberG,omitempty"`
	SugarG     *float64 `json:"sugarG,omitempty"`
	SodiumMg   *float64 `json:"sodiumMg,omitempty"`
}

// SearchHit is one raw record from the upstream food-search endpoint, before
// classification and normalization.
type SearchHit struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Brand           string       `json:"brand,omitempty"`
	DataType        string       `json:"dataType"` // upstream provenance signal, unnormalized
	Score           float64      `json:"score"`    // upstream fuzzy-match score, 0..1
	Verified        bool         `json:"verified"`
	Nutrients       RawNutrients `json:"nutrition"`
	ServingSize     string       `json:"servingSize,omitempty"`
	ServingQuantity float64      `json:"servingQuantity,omitempty"`
}

// SearchResponse is the upstream food-search endpoint's success payload.
type SearchResponse struct {
	Foods   []SearchHit `json:"foods"`
	HasMore bool        `json:"hasMore"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
}

// ErrorEnvelope is the upstream food-search endpoint's error payload.
type ErrorEnvelope struct {
	Stage     string `json:"stage"`
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}
