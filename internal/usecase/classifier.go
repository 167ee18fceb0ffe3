package usecase

import (
	"sort"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// Relevance boosts layered on top of the upstream fuzzy-match score.
// Common unbranded foods outrank branded duplicates of the same name, and
// exact prefix matches outrank plain substring matches.
const (
	commonUnbrandedBoost = 0.15
	prefixMatchBoost     = 0.10
	substringMatchBoost  = 0.05
)

// ClassifyHits annotates raw search hits with a normalized DataType and a
// locally boosted relevance score, returning relevance-ordered candidates.
// The sort is stable: equally-ranked hits keep their upstream order.
// Duplicate IDs are dropped, first occurrence wins.
func ClassifyHits(query string, hits []domain.SearchHit) []domain.FoodCandidate {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	candidates := make([]domain.FoodCandidate, 0, len(hits))
	seen := make(map[string]bool, len(hits))

	for _, hit := range hits {
		if hit.ID == "" || seen[hit.ID] {
			continue
		}
		seen[hit.ID] = true

		profile, norm := NormalizeNutrients(hit.Nutrients)
		dataType := normalizeDataType(hit.DataType, hit.Brand)

		var notes []string
		if norm.HeuristicEnergy {
			notes = append(notes, "energy unit estimated from magnitude")
		}

		resolution := ResolveServing(hit.ServingSize, hit.ServingQuantity)
		serving := domain.ServingSpec{RawText: hit.ServingSize}
		if resolution.Resolved {
			grams := resolution.Grams
			serving.QuantityGrams = &grams
		} else {
			notes = append(notes, PerHundredGramNote)
		}

		candidates = append(candidates, domain.FoodCandidate{
			ID:                hit.ID,
			Name:              hit.Name,
			Brand:             hit.Brand,
			DataType:          dataType,
			Nutrients:         profile,
			Serving:           serving,
			RequestedQuantity: 1,
			RequestedUnit:     "serving",
			Verified:          hit.Verified,
			RelevanceScore:    relevanceScore(queryLower, hit, dataType),
			Notes:             notes,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})

	return candidates
}

// normalizeDataType maps heterogeneous upstream provenance strings onto the
// three display buckets. Unknown types fall back on the presence of a brand.
func normalizeDataType(raw, brand string) domain.DataType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "common", "survey", "survey (fndds)":
		return domain.DataTypeCommon
	case "branded", "brand":
		return domain.DataTypeBranded
	case "ingredient", "foundation", "sr legacy":
		return domain.DataTypeIngredient
	}
	if brand != "" {
		return domain.DataTypeBranded
	}
	return domain.DataTypeCommon
}

// relevanceScore combines the upstream fuzzy-match score with local boosts,
// clamped to 1.0.
func relevanceScore(queryLower string, hit domain.SearchHit, dataType domain.DataType) float64 {
	score := hit.Score

	if dataType == domain.DataTypeCommon && hit.Brand == "" {
		score += commonUnbrandedBoost
	}

	nameLower := strings.ToLower(hit.Name)
	switch {
	case queryLower != "" && strings.HasPrefix(nameLower, queryLower):
		score += prefixMatchBoost
	case queryLower != "" && strings.Contains(nameLower, queryLower):
		score += substringMatchBoost
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}
