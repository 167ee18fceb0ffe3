package domain

// DataType classifies where a food candidate came from and how it should be
// grouped for display.
type DataType string

const (
	DataTypeCommon     DataType = "common"
	DataTypeBranded    DataType = "branded"
	DataTypeIngredient DataType = "ingredient"
	DataTypeScanned    DataType = "scanned"
)

// NutrientProfile holds nutrient values on the canonical per-100g (or per-100ml)
// basis. Core macros are always present after normalization; optional nutrients
// are pointers so "unknown" stays distinguishable from an explicit zero.
type NutrientProfile struct {
	CaloriesKcal float64  `json:"caloriesKcal"`
	ProteinG     float64  `json:"proteinG"`
	CarbsG       float64  `json:"carbsG"`
	FatG         float64  `json:"fatG"`
	FiberG       *float64 `json:"fiberG,omitempty"`
	SugarG       *float64 `json:"sugarG,omitempty"`
	SodiumMg     *float64 `json:"sodiumMg,omitempty"`
}

// ServingSpec describes the serving size a candidate's values were scaled by.
// A nil QuantityGrams means the serving could not be resolved and the 100g
// default basis was used.
type ServingSpec struct {
	RawText       string   `json:"rawText,omitempty"`
	QuantityGrams *float64 `json:"quantityGrams,omitempty"`
}

// FoodCandidate is one normalized food option presented to the user.
// Candidates are created once at classification (or barcode mapping) time and
// never mutated afterwards.
type FoodCandidate struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Brand             string          `json:"brand,omitempty"`
	DataType          DataType        `json:"dataType"`
	Nutrients         NutrientProfile `json:"nutrientProfile"`
	Serving           ServingSpec     `json:"servingSpec"`
	RequestedQuantity float64         `json:"requestedQuantity"`
	RequestedUnit     string          `json:"requestedUnit"`
	Verified          bool            `json:"verified"`
	RelevanceScore    float64         `json:"relevanceScore"`
	Notes             []string        `json:"notes,omitempty"`
}

// SearchResultGroup is one display bucket of candidates, relevance-ordered.
// Cursor is an opaque token for fetching the next page of this group; empty
// when the group is fully shown.
type SearchResultGroup struct {
	Title     string          `json:"title"`
	DataType  DataType        `json:"dataType"`
	Items     []FoodCandidate `json:"items"`
	Remaining int             `json:"remaining"`
	Cursor    string          `json:"cursor,omitempty"`
}

// SearchMeta carries query-level bookkeeping for a search response.
type SearchMeta struct {
	Query            string `json:"query"`
	TotalResults     int    `json:"totalResults"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// AggregatedSearchResult is the single shape the UI consumes for both text
// search and barcode lookups.
type AggregatedSearchResult struct {
	Groups         []SearchResultGroup `json:"groups"`
	TotalRemaining int                 `json:"totalRemaining"`
	Suggestions    []Suggestion        `json:"suggestions,omitempty"`
	Meta           SearchMeta          `json:"meta"`
}

// Suggestion is an advisory alternate query. It is never auto-applied.
type Suggestion struct {
	DisplayText string `json:"displayText"`
	Query       string `json:"query"`
	Reasoning   string `json:"reasoning,omitempty"`
}
