package domain

// BarcodeProduct is one product payload from the Open Food Facts database,
// reduced to the fields the mapper needs. Nutrients are on the per-100g basis
// as published.
type BarcodeProduct struct {
	Barcode         string       `json:"barcode"`
	Name            string       `json:"name"`
	Brand           string       `json:"brand,omitempty"`
	Nutrients       RawNutrients `json:"nutrients"`
	ServingSize     string       `json:"servingSize,omitempty"`     // free text, e.g. "1 oz (28.35g)"
	ServingQuantity float64      `json:"servingQuantity,omitempty"` // numeric gram hint, 0 when absent
	NutriScore      string       `json:"nutriscoreGrade,omitempty"`
	NovaGroup       int          `json:"novaGroup,omitempty"`
}
