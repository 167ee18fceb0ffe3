package usecase

import (
	"testing"

	"github.com/nutriscan/backend/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestNormalizeEnergy(t *testing.T) {
	tests := []struct {
		name          string
		value         *float64
		unit          string
		wantKcal      float64
		wantHeuristic bool
		wantOK        bool
	}{
		{name: "tagged kJ", value: f(1000), unit: "kJ", wantKcal: 239, wantOK: true},
		{name: "tagged kJ lowercase", value: f(400), unit: "kj", wantKcal: 96, wantOK: true},
		{name: "tagged kcal passes through", value: f(250), unit: "kcal", wantKcal: 250, wantOK: true},
		{name: "tagged kcal above heuristic threshold stays kcal", value: f(1200), unit: "kcal", wantKcal: 1200, wantOK: true},
		{name: "untagged above 1000 assumed kJ", value: f(2000), unit: "", wantKcal: 478, wantHeuristic: true, wantOK: true},
		{name: "untagged at 1001 assumed kJ", value: f(1001), unit: "", wantKcal: 239, wantHeuristic: true, wantOK: true},
		{name: "untagged at exactly 1000 treated as kcal", value: f(1000), unit: "", wantKcal: 1000, wantOK: true},
		{name: "untagged below 1000 treated as kcal", value: f(899.6), unit: "", wantKcal: 900, wantOK: true},
		{name: "missing value is unknown", value: nil, unit: "kcal", wantOK: false},
		{name: "negative value is unknown not zero", value: f(-50), unit: "kcal", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kcal, heuristic, ok := normalizeEnergy(tt.value, tt.unit)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if kcal != tt.wantKcal {
				t.Errorf("kcal = %v, want %v", kcal, tt.wantKcal)
			}
			if heuristic != tt.wantHeuristic {
				t.Errorf("heuristic = %v, want %v", heuristic, tt.wantHeuristic)
			}
		})
	}
}

func TestNormalizeNutrients(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		profile, norm := NormalizeNutrients(domain.RawNutrients{
			Energy:     f(1046),
			EnergyUnit: "kJ",
			ProteinG:   f(7.72),
			CarbsG:     f(11.66),
			FatG:       f(7.93),
			FiberG:     f(0.04),
			SodiumMg:   f(43.21),
		})

		if profile.CaloriesKcal != 250 {
			t.Errorf("CaloriesKcal = %v, want 250", profile.CaloriesKcal)
		}
		if profile.ProteinG != 7.7 {
			t.Errorf("ProteinG = %v, want 7.7", profile.ProteinG)
		}
		if profile.CarbsG != 11.7 {
			t.Errorf("CarbsG = %v, want 11.7", profile.CarbsG)
		}
		if profile.FatG != 7.9 {
			t.Errorf("FatG = %v, want 7.9", profile.FatG)
		}
		if profile.FiberG == nil || *profile.FiberG != 0.0 {
			t.Errorf("FiberG = %v, want explicit 0.0", profile.FiberG)
		}
		if profile.SugarG != nil {
			t.Errorf("SugarG = %v, want unknown (nil)", *profile.SugarG)
		}
		if profile.SodiumMg == nil || *profile.SodiumMg != 43.2 {
			t.Errorf("SodiumMg = %v, want 43.2", profile.SodiumMg)
		}
		if norm.HeuristicEnergy {
			t.Error("tagged kJ must not be flagged heuristic")
		}
		if len(norm.UnknownFields) != 0 {
			t.Errorf("UnknownFields = %v, want none", norm.UnknownFields)
		}
	})

	t.Run("explicit zero fiber stays distinguishable from absent sugar", func(t *testing.T) {
		profile, _ := NormalizeNutrients(domain.RawNutrients{
			Energy:   f(52),
			ProteinG: f(0.3),
			CarbsG:   f(14),
			FatG:     f(0.2),
			FiberG:   f(0),
		})
		if profile.FiberG == nil {
			t.Fatal("explicit zero fiber was dropped")
		}
		if profile.SugarG != nil {
			t.Error("absent sugar was coerced to a value")
		}
	})

	t.Run("missing core macros are reported unknown", func(t *testing.T) {
		_, norm := NormalizeNutrients(domain.RawNutrients{
			Energy: f(100),
			CarbsG: f(25),
		})
		want := map[string]bool{"protein": true, "fat": true}
		if len(norm.UnknownFields) != 2 {
			t.Fatalf("UnknownFields = %v, want protein and fat", norm.UnknownFields)
		}
		for _, field := range norm.UnknownFields {
			if !want[field] {
				t.Errorf("unexpected unknown field %q", field)
			}
		}
	})

	t.Run("untagged high energy flagged heuristic", func(t *testing.T) {
		_, norm := NormalizeNutrients(domain.RawNutrients{Energy: f(1500)})
		if !norm.HeuristicEnergy {
			t.Error("untagged 1500 should be flagged as heuristic kJ conversion")
		}
	})
}
