package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// barcodeRegex accepts EAN-8 through EAN/GTIN-14 digit strings. Anything else
// is rejected before a network call is made.
var barcodeRegex = regexp.MustCompile(`^\d{8,14}$`)

// ValidBarcode reports whether a scanned code has a plausible barcode shape.
func ValidBarcode(code string) bool {
	return barcodeRegex.MatchString(code)
}

// MapProduct converts one barcode product payload into a normalized
// FoodCandidate scaled by the requested quantity. Barcode lookups are exact
// product matches, so the candidate is always verified with maximal relevance.
func MapProduct(product *domain.BarcodeProduct, quantity float64, unit string) (*domain.FoodCandidate, error) {
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if quantity <= 0 {
		quantity = 1
	}
	if unit == "" {
		unit = "serving"
	}

	profile, norm := NormalizeNutrients(product.Nutrients)
	resolution := ResolveServing(product.ServingSize, product.ServingQuantity)

	var notes []string
	var multiplier float64

	switch strings.ToLower(unit) {
	case "serving":
		if resolution.Resolved {
			multiplier = resolution.Grams / 100 * quantity
		} else {
			// Serving size unknown: treat the requested quantity as a bare
			// multiplier over the 100g basis and say so.
			multiplier = quantity
			notes = append(notes, PerHundredGramNote)
		}
	case "g", "ml":
		multiplier = quantity / 100
	default:
		return nil, fmt.Errorf("%w: unsupported unit %q", domain.ErrInvalidInput, unit)
	}

	if norm.HeuristicEnergy {
		notes = append(notes, "energy unit estimated from magnitude")
	}

	serving := domain.ServingSpec{RawText: product.ServingSize}
	if resolution.Resolved {
		grams := resolution.Grams
		serving.QuantityGrams = &grams
	}

	candidate := &domain.FoodCandidate{
		ID:                product.Barcode,
		Name:              displayName(product.Brand, product.Name),
		Brand:             product.Brand,
		DataType:          domain.DataTypeScanned,
		Nutrients:         scaleProfile(profile, multiplier),
		Serving:           serving,
		RequestedQuantity: quantity,
		RequestedUnit:     unit,
		Verified:          true,
		RelevanceScore:    1.0,
		Notes:             notes,
	}
	return candidate, nil
}

// displayName joins brand and product name, avoiding duplication when the
// name already leads with the brand.
func displayName(brand, name string) string {
	name = strings.TrimSpace(name)
	brand = strings.TrimSpace(brand)
	if brand == "" || strings.HasPrefix(strings.ToLower(name), strings.ToLower(brand)) {
		return name
	}
	if name == "" {
		return brand
	}
	return brand + " " + name
}

// scaleProfile multiplies every nutrient field by the serving multiplier with
// per-field rounding: calories to integer, gram macros to one decimal, sodium
// to one decimal mg. Unknown optional fields stay unknown.
func scaleProfile(p domain.NutrientProfile, multiplier float64) domain.NutrientProfile {
	scaled := domain.NutrientProfile{
		CaloriesKcal: math.Round(p.CaloriesKcal * multiplier),
		ProteinG:     roundTenth(p.ProteinG * multiplier),
		CarbsG:       roundTenth(p.CarbsG * multiplier),
		FatG:         roundTenth(p.FatG * multiplier),
	}
	if p.FiberG != nil {
		v := roundTenth(*p.FiberG * multiplier)
		scaled.FiberG = &v
	}
	if p.SugarG != nil {
		v := roundTenth(*p.SugarG * multiplier)
		scaled.SugarG = &v
	}
	if p.SodiumMg != nil {
		v := roundTenth(*p.SodiumMg * multiplier)
		scaled.SodiumMg = &v
	}
	return scaled
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
