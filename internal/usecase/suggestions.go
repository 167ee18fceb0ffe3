package usecase

import (
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

const (
	// MaxSuggestions caps how many alternate queries are offered.
	MaxSuggestions = 3

	// lowRelevanceWaterMark triggers suggestions even for non-empty result
	// sets when nothing scored well.
	lowRelevanceWaterMark = 0.35
)

// synonymTable maps common colloquial food terms to the phrasing upstream
// databases index better.
var synonymTable = map[string]string{
	"soda":    "soft drink",
	"coke":    "cola",
	"pop":     "soft drink",
	"fries":   "french fries",
	"chips":   "potato chips",
	"oats":    "oatmeal",
	"yoghurt": "yogurt",
	"mayo":    "mayonnaise",
	"veg":     "vegetables",
	"oj":      "orange juice",
	"pb":      "peanut butter",
}

// qualifierWords are leading modifiers that narrow a query without changing
// the food, and so are safe to strip for a broader retry.
var qualifierWords = map[string]bool{
	"organic": true, "fresh": true, "raw": true, "natural": true,
	"premium": true, "homemade": true, "lowfat": true, "nonfat": true,
	"light": true, "lite": true, "diet": true, "sugarfree": true,
	"unsweetened": true, "glutenfree": true,
}

// Suggest derives up to MaxSuggestions alternate queries when a search came
// back empty or uniformly low-quality. Suggestions are advisory only and are
// never auto-applied.
func Suggest(query string, totalResults int, bestScore float64) []domain.Suggestion {
	if totalResults > 0 && bestScore >= lowRelevanceWaterMark {
		return nil
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	var suggestions []domain.Suggestion
	seen := map[string]bool{query: true}

	add := func(candidate, reasoning string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || seen[candidate] || len(suggestions) >= MaxSuggestions {
			return
		}
		seen[candidate] = true
		suggestions = append(suggestions, domain.Suggestion{
			DisplayText: "Try \"" + candidate + "\"",
			Query:       candidate,
			Reasoning:   reasoning,
		})
	}

	add(togglePlural(query), "singular/plural variant")

	words := strings.Fields(query)
	for i, word := range words {
		if replacement, ok := synonymTable[word]; ok {
			swapped := make([]string, len(words))
			copy(swapped, words)
			swapped[i] = replacement
			add(strings.Join(swapped, " "), "common synonym")
			break
		}
	}

	if len(words) > 1 {
		for i, word := range words {
			if qualifierWords[word] {
				stripped := append(append([]string{}, words[:i]...), words[i+1:]...)
				add(strings.Join(stripped, " "), "broader search without qualifier")
				break
			}
		}
	}

	return suggestions
}

// togglePlural flips the most common English singular/plural forms. Good
// enough for food nouns; irregular plurals go through the synonym table.
func togglePlural(query string) string {
	switch {
	case strings.HasSuffix(query, "ies"):
		return strings.TrimSuffix(query, "ies") + "y"
	case hasSibilantPlural(query):
		return strings.TrimSuffix(query, "es")
	case strings.HasSuffix(query, "s") && len(query) > 2:
		return strings.TrimSuffix(query, "s")
	case strings.HasSuffix(query, "y") && len(query) > 2:
		return strings.TrimSuffix(query, "y") + "ies"
	default:
		return query + "s"
	}
}

// hasSibilantPlural matches -es plurals that drop the whole suffix
// ("boxes", "peaches"), as opposed to words like "apples" that only drop "s".
func hasSibilantPlural(query string) bool {
	for _, suffix := range []string{"sses", "ches", "shes", "xes", "zes"} {
		if strings.HasSuffix(query, suffix) && len(query) > len(suffix) {
			return true
		}
	}
	return false
}
