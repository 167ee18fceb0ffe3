package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	gramsPerOunce = 28.35

	// defaultServingGrams is the fallback basis when a serving size cannot
	// be resolved. Results scaled by it must carry PerHundredGramNote.
	defaultServingGrams = 100.0

	// PerHundredGramNote is attached to candidates whose serving size was
	// unresolved, so normalization uncertainty is never silently hidden.
	PerHundredGramNote = "nutrition shown per 100g"
)

// servingTokenRegex matches the first <number><unit> token in a serving-size
// string, e.g. "30 ml", "1 oz (28.35g)", "2.5g". g and ml are treated as
// numerically equivalent (1:1 liquid approximation).
var servingTokenRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(g|ml|oz)\b`)

// ServingResolution is the outcome of parsing a serving-size string. When
// Resolved is false, Grams holds the 100g default and callers must surface
// the approximation.
type ServingResolution struct {
	Grams    float64
	Resolved bool
}

// ResolveServing turns a free-text serving-size string plus an optional
// numeric gram hint into a gram basis. Resolution order: a positive hint wins;
// otherwise the first g/ml/oz token in the text; otherwise the 100g default,
// flagged unresolved. The literal "100g" default string is also unresolved
// since most sources emit it when they have no real serving data.
func ResolveServing(rawText string, hint float64) ServingResolution {
	if hint > 0 {
		return ServingResolution{Grams: hint, Resolved: true}
	}

	text := strings.TrimSpace(rawText)
	if text == "" || strings.EqualFold(text, "100g") {
		return ServingResolution{Grams: defaultServingGrams, Resolved: false}
	}

	m := servingTokenRegex.FindStringSubmatch(text)
	if m == nil {
		return ServingResolution{Grams: defaultServingGrams, Resolved: false}
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || value <= 0 {
		return ServingResolution{Grams: defaultServingGrams, Resolved: false}
	}

	if strings.EqualFold(m[2], "oz") {
		value *= gramsPerOunce
	}

	return ServingResolution{Grams: value, Resolved: true}
}
