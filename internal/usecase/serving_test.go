package usecase

import (
	"math"
	"testing"
)

func TestResolveServing(t *testing.T) {
	tests := []struct {
		name         string
		rawText      string
		hint         float64
		wantGrams    float64
		wantResolved bool
	}{
		{name: "numeric hint wins", rawText: "1 cup", hint: 240, wantGrams: 240, wantResolved: true},
		{name: "ounce token with parenthetical grams", rawText: "1 oz (28.35g)", wantGrams: 28.35, wantResolved: true},
		{name: "milliliters treated as grams", rawText: "30 ml", wantGrams: 30, wantResolved: true},
		{name: "plain grams", rawText: "45g", wantGrams: 45, wantResolved: true},
		{name: "uppercase unit", rawText: "250G", wantGrams: 250, wantResolved: true},
		{name: "decimal comma", rawText: "28,35 g", wantGrams: 28.35, wantResolved: true},
		{name: "ounces converted", rawText: "2 oz", wantGrams: 56.7, wantResolved: true},
		{name: "default 100g string is unresolved", rawText: "100g", wantGrams: 100, wantResolved: false},
		{name: "empty string is unresolved", rawText: "", wantGrams: 100, wantResolved: false},
		{name: "no unit token is unresolved", rawText: "2 biscuits", wantGrams: 100, wantResolved: false},
		{name: "negative hint ignored", rawText: "30 ml", hint: -5, wantGrams: 30, wantResolved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveServing(tt.rawText, tt.hint)
			if got.Resolved != tt.wantResolved {
				t.Fatalf("Resolved = %v, want %v", got.Resolved, tt.wantResolved)
			}
			if math.Abs(got.Grams-tt.wantGrams) > 1e-9 {
				t.Errorf("Grams = %v, want %v", got.Grams, tt.wantGrams)
			}
		})
	}
}
